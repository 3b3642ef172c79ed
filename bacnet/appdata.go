// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"encoding/binary"
	"fmt"
)

// Value is a decoded application-tagged primitive value. Exactly one
// field is meaningful, selected by Tag.
type Value struct {
	Tag             ApplicationTag
	Boolean         bool
	Unsigned        uint32
	Signed          int32
	Real            float32
	Double          float64
	OctetString     []byte
	CharacterString string
	Charset         uint8
	BitString       BitString
	Enumerated      uint32
	Date            Date
	Time            Time
	ObjectID        ObjectIdentifier
}

// unsignedOctets returns how many octets EncodeUnsignedValue will use
// for v, so the caller can build a matching tag header length without
// double-encoding.
func unsignedOctets(v uint32) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFF:
		return 3
	default:
		return 4
	}
}

func signedOctets(v int32) int {
	switch {
	case v >= -128 && v <= 127:
		return 1
	case v >= -32768 && v <= 32767:
		return 2
	case v >= -8388608 && v <= 8388607:
		return 3
	default:
		return 4
	}
}

// EncodeApplicationNull appends an application-tagged NULL.
func EncodeApplicationNull(buf []byte) []byte {
	return EncodeTag(buf, uint8(ApplicationTagNull), TagClassApplication, 0)
}

// EncodeApplicationBoolean appends an application-tagged BOOLEAN. Unlike
// context-tagged booleans, the application form packs the value
// directly into the tag header's length field (0 or 1), per ASHRAE 135
// Clause 20.2.3.
func EncodeApplicationBoolean(buf []byte, v bool) []byte {
	length := 0
	if v {
		length = 1
	}
	return EncodeTag(buf, uint8(ApplicationTagBoolean), TagClassApplication, length)
}

// EncodeApplicationUnsigned appends an application-tagged Unsigned Integer.
func EncodeApplicationUnsigned(buf []byte, v uint32) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagUnsignedInt), TagClassApplication, unsignedOctets(v))
	buf, _ = EncodeUnsignedValue(buf, v)
	return buf
}

// EncodeApplicationSigned appends an application-tagged Signed Integer.
func EncodeApplicationSigned(buf []byte, v int32) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagSignedInt), TagClassApplication, signedOctets(v))
	buf, _ = EncodeSignedValue(buf, v)
	return buf
}

// EncodeApplicationReal appends an application-tagged REAL.
func EncodeApplicationReal(buf []byte, v float32) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagReal), TagClassApplication, 4)
	return EncodeRealValue(buf, v)
}

// EncodeApplicationDouble appends an application-tagged DOUBLE.
func EncodeApplicationDouble(buf []byte, v float64) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagDouble), TagClassApplication, 8)
	return EncodeDoubleValue(buf, v)
}

// EncodeApplicationOctetString appends an application-tagged Octet String.
func EncodeApplicationOctetString(buf []byte, v []byte) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagOctetString), TagClassApplication, len(v))
	return EncodeOctetStringValue(buf, v)
}

// EncodeApplicationCharacterString appends an application-tagged
// Character String.
func EncodeApplicationCharacterString(buf []byte, v string) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagCharacterString), TagClassApplication, len(v)+1)
	return EncodeCharacterStringValue(buf, v)
}

// EncodeApplicationBitString appends an application-tagged Bit String.
func EncodeApplicationBitString(buf []byte, v BitString) []byte {
	numBytes := (len(v.Bits) + 7) / 8
	buf = EncodeTag(buf, uint8(ApplicationTagBitString), TagClassApplication, numBytes+1)
	return EncodeBitStringValue(buf, v)
}

// EncodeApplicationEnumerated appends an application-tagged Enumerated value.
func EncodeApplicationEnumerated(buf []byte, v uint32) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagEnumerated), TagClassApplication, unsignedOctets(v))
	buf, _ = EncodeUnsignedValue(buf, v)
	return buf
}

// EncodeApplicationDate appends an application-tagged Date.
func EncodeApplicationDate(buf []byte, v Date) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagDate), TagClassApplication, 4)
	return EncodeDateValue(buf, v)
}

// EncodeApplicationTime appends an application-tagged Time.
func EncodeApplicationTime(buf []byte, v Time) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagTime), TagClassApplication, 4)
	return EncodeTimeValue(buf, v)
}

// EncodeApplicationObjectIdentifier appends an application-tagged
// BACnetObjectIdentifier.
func EncodeApplicationObjectIdentifier(buf []byte, v ObjectIdentifier) []byte {
	buf = EncodeTag(buf, uint8(ApplicationTagObjectID), TagClassApplication, 4)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v.Encode())
	return append(buf, tmp[:]...)
}

// DecodeApplicationValue decodes one application-tagged value from the
// front of data, returning the value and the number of octets
// consumed (header plus content). max bounds how many octets may be
// consulted.
func DecodeApplicationValue(data []byte, max int) (Value, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return Value{}, 0, err
	}
	if tag.Class != TagClassApplication {
		return Value{}, 0, fmt.Errorf("%w: expected application-class tag, got context tag %d", ErrWrongTag, tag.Number)
	}
	appTag := ApplicationTag(tag.Number)

	total := max
	if total > len(data) {
		total = len(data)
	}
	contentEnd := tag.HeaderLen + tag.Length
	if appTag == ApplicationTagBoolean {
		// The value is packed into the length field; there is no content.
		contentEnd = tag.HeaderLen
	}
	if tag.Length < 0 || contentEnd > total {
		return Value{}, 0, fmt.Errorf("%w: value content needs %d octets past header, have %d", ErrTruncated, tag.Length, total-tag.HeaderLen)
	}
	content := data[tag.HeaderLen:contentEnd]

	v := Value{Tag: appTag}
	switch appTag {
	case ApplicationTagNull:
		// no content
	case ApplicationTagBoolean:
		v.Boolean = tag.Length != 0
	case ApplicationTagUnsignedInt:
		v.Unsigned, err = DecodeUnsignedValue(content, tag.Length)
	case ApplicationTagSignedInt:
		v.Signed, err = DecodeSignedValue(content, tag.Length)
	case ApplicationTagReal:
		v.Real, err = DecodeRealValue(content)
	case ApplicationTagDouble:
		v.Double, err = DecodeDoubleValue(content)
	case ApplicationTagOctetString:
		v.OctetString, err = DecodeOctetStringValue(content, tag.Length)
	case ApplicationTagCharacterString:
		v.CharacterString, v.Charset, err = DecodeCharacterStringValue(content, tag.Length)
	case ApplicationTagBitString:
		v.BitString, err = DecodeBitStringValue(content, tag.Length)
	case ApplicationTagEnumerated:
		v.Enumerated, err = DecodeUnsignedValue(content, tag.Length)
	case ApplicationTagDate:
		v.Date, err = DecodeDateValue(content)
	case ApplicationTagTime:
		v.Time, err = DecodeTimeValue(content)
	case ApplicationTagObjectID:
		var raw uint32
		raw, err = DecodeUnsignedValue(content, tag.Length)
		if err == nil {
			v.ObjectID = DecodeObjectIdentifier(raw)
		}
	default:
		return Value{}, 0, fmt.Errorf("%w: application tag %d", ErrInvalidTag, appTag)
	}
	if err != nil {
		return Value{}, 0, err
	}
	return v, contentEnd, nil
}

// --- Context-tagged primitive helpers -------------------------------
//
// Context-tagged values always carry their explicit content length in
// the tag header (there is no packed-boolean shortcut as there is for
// application tags), so these follow one shared shape: encode the
// header with the known content length, then the content.

// EncodeContextUnsigned appends a context-tagged Unsigned Integer.
func EncodeContextUnsigned(buf []byte, tagNumber uint8, v uint32) []byte {
	buf = EncodeTag(buf, tagNumber, TagClassContext, unsignedOctets(v))
	buf, _ = EncodeUnsignedValue(buf, v)
	return buf
}

// DecodeContextUnsigned decodes a context-tagged Unsigned Integer with
// the given tag number, returning the value and octets consumed.
func DecodeContextUnsigned(data []byte, tagNumber uint8, max int) (uint32, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return 0, 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length < 0 {
		return 0, 0, fmt.Errorf("%w: expected context tag %d, got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + tag.Length
	if end > len(data) {
		return 0, 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	v, err := DecodeUnsignedValue(data[tag.HeaderLen:end], tag.Length)
	if err != nil {
		return 0, 0, err
	}
	return v, end, nil
}

// EncodeContextSigned appends a context-tagged Signed Integer.
func EncodeContextSigned(buf []byte, tagNumber uint8, v int32) []byte {
	buf = EncodeTag(buf, tagNumber, TagClassContext, signedOctets(v))
	buf, _ = EncodeSignedValue(buf, v)
	return buf
}

// DecodeContextSigned decodes a context-tagged Signed Integer.
func DecodeContextSigned(data []byte, tagNumber uint8, max int) (int32, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return 0, 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length < 0 {
		return 0, 0, fmt.Errorf("%w: expected context tag %d, got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + tag.Length
	if end > len(data) {
		return 0, 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	v, err := DecodeSignedValue(data[tag.HeaderLen:end], tag.Length)
	if err != nil {
		return 0, 0, err
	}
	return v, end, nil
}

// EncodeContextEnumerated appends a context-tagged Enumerated value.
func EncodeContextEnumerated(buf []byte, tagNumber uint8, v uint32) []byte {
	return EncodeContextUnsigned(buf, tagNumber, v)
}

// DecodeContextEnumerated decodes a context-tagged Enumerated value.
func DecodeContextEnumerated(data []byte, tagNumber uint8, max int) (uint32, int, error) {
	return DecodeContextUnsigned(data, tagNumber, max)
}

// EncodeContextBoolean appends a context-tagged BOOLEAN as a single
// value octet (context booleans, unlike application booleans, do not
// pack into the tag length).
func EncodeContextBoolean(buf []byte, tagNumber uint8, v bool) []byte {
	buf = EncodeTag(buf, tagNumber, TagClassContext, 1)
	return EncodeBooleanValue(buf, v)
}

// DecodeContextBoolean decodes a context-tagged BOOLEAN.
func DecodeContextBoolean(data []byte, tagNumber uint8, max int) (bool, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return false, 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length < 0 {
		return false, 0, fmt.Errorf("%w: expected context tag %d, got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + tag.Length
	if end > len(data) {
		return false, 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	v, err := DecodeBooleanValue(data[tag.HeaderLen:end])
	if err != nil {
		return false, 0, err
	}
	return v, end, nil
}

// EncodeContextReal appends a context-tagged REAL.
func EncodeContextReal(buf []byte, tagNumber uint8, v float32) []byte {
	buf = EncodeTag(buf, tagNumber, TagClassContext, 4)
	return EncodeRealValue(buf, v)
}

// DecodeContextReal decodes a context-tagged REAL.
func DecodeContextReal(data []byte, tagNumber uint8, max int) (float32, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return 0, 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length != 4 {
		return 0, 0, fmt.Errorf("%w: expected context tag %d (REAL), got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + 4
	if end > len(data) {
		return 0, 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	v, err := DecodeRealValue(data[tag.HeaderLen:end])
	if err != nil {
		return 0, 0, err
	}
	return v, end, nil
}

// EncodeContextCharacterString appends a context-tagged Character String.
func EncodeContextCharacterString(buf []byte, tagNumber uint8, v string) []byte {
	buf = EncodeTag(buf, tagNumber, TagClassContext, len(v)+1)
	return EncodeCharacterStringValue(buf, v)
}

// DecodeContextCharacterString decodes a context-tagged Character String.
func DecodeContextCharacterString(data []byte, tagNumber uint8, max int) (string, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return "", 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length < 0 {
		return "", 0, fmt.Errorf("%w: expected context tag %d, got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + tag.Length
	if end > len(data) {
		return "", 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	v, _, err := DecodeCharacterStringValue(data[tag.HeaderLen:end], tag.Length)
	if err != nil {
		return "", 0, err
	}
	return v, end, nil
}

// EncodeContextBitString appends a context-tagged Bit String.
func EncodeContextBitString(buf []byte, tagNumber uint8, v BitString) []byte {
	numBytes := (len(v.Bits) + 7) / 8
	buf = EncodeTag(buf, tagNumber, TagClassContext, numBytes+1)
	return EncodeBitStringValue(buf, v)
}

// DecodeContextBitString decodes a context-tagged Bit String.
func DecodeContextBitString(data []byte, tagNumber uint8, max int) (BitString, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return BitString{}, 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length < 0 {
		return BitString{}, 0, fmt.Errorf("%w: expected context tag %d, got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + tag.Length
	if end > len(data) {
		return BitString{}, 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	v, err := DecodeBitStringValue(data[tag.HeaderLen:end], tag.Length)
	if err != nil {
		return BitString{}, 0, err
	}
	return v, end, nil
}

// EncodeContextObjectIdentifier appends a context-tagged
// BACnetObjectIdentifier. The value is always 4 octets on the wire
// regardless of how small the packed type/instance number is, so this
// cannot use EncodeUnsignedValue's minimal-length encoding.
func EncodeContextObjectIdentifier(buf []byte, tagNumber uint8, v ObjectIdentifier) []byte {
	buf = EncodeTag(buf, tagNumber, TagClassContext, 4)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v.Encode())
	return append(buf, tmp[:]...)
}

// DecodeContextObjectIdentifier decodes a context-tagged
// BACnetObjectIdentifier.
func DecodeContextObjectIdentifier(data []byte, tagNumber uint8, max int) (ObjectIdentifier, int, error) {
	tag, err := DecodeTag(data, max)
	if err != nil {
		return ObjectIdentifier{}, 0, err
	}
	if tag.Class != TagClassContext || tag.Number != tagNumber || tag.Length != 4 {
		return ObjectIdentifier{}, 0, fmt.Errorf("%w: expected context tag %d (object-id), got %v", ErrWrongTag, tagNumber, tag)
	}
	end := tag.HeaderLen + 4
	if end > len(data) {
		return ObjectIdentifier{}, 0, fmt.Errorf("%w: context-tag %d value truncated", ErrTruncated, tagNumber)
	}
	raw, err := DecodeUnsignedValue(data[tag.HeaderLen:end], 4)
	if err != nil {
		return ObjectIdentifier{}, 0, err
	}
	return DecodeObjectIdentifier(raw), end, nil
}
