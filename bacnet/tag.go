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

// TagClass distinguishes application-tagged data (self-describing type)
// from context-tagged data (position-describing, type known from the
// surrounding construct).
type TagClass uint8

const (
	TagClassApplication TagClass = 0
	TagClassContext     TagClass = 1
)

// lengthOpening and lengthClosing are the sentinel Length values a
// decoded Tag carries when it is an opening or closing tag rather than
// a primitive value header. They can never arise as a real value
// length (the wire format reserves length-value-type codes 6 and 7 for
// exactly this).
const (
	lengthOpening = -1
	lengthClosing = -2
)

// Tag is a decoded tag header: the tag number, its class, and the
// length (in octets) of the value that follows it. Length is
// lengthOpening/lengthClosing for opening/closing tags, which carry no
// value of their own.
type Tag struct {
	Number uint8
	Class  TagClass
	Length int
	// HeaderLen is the number of octets the tag header itself occupied
	// on the wire.
	HeaderLen int
}

// IsOpening reports whether t is an opening tag.
func (t Tag) IsOpening() bool { return t.Length == lengthOpening }

// IsClosing reports whether t is a closing tag.
func (t Tag) IsClosing() bool { return t.Length == lengthClosing }

// EncodeTag appends the wire encoding of an application or context tag
// header with the given tag number and value length to buf, returning
// the extended slice.
//
// Tag numbers 0-14 with length 0-4 use the one-octet short form. Tag
// numbers beyond 14, or lengths of 5 or more, fall back to the
// extended form: the tag-number nibble becomes 0xF followed by a
// separate tag-number octet, and the length-value-type nibble becomes
// 5 followed by one, three, or five length octets sized to fit.
func EncodeTag(buf []byte, tagNumber uint8, class TagClass, length int) []byte {
	var classBit uint8
	if class == TagClassContext {
		classBit = 0x08
	}

	var first byte
	if tagNumber <= 14 {
		first = byte(tagNumber) << 4
	} else {
		first = 0xF0
	}
	first |= classBit

	if length <= 4 {
		first |= byte(length)
	} else {
		first |= 5
	}
	buf = append(buf, first)

	if tagNumber > 14 {
		buf = append(buf, tagNumber)
	}

	if length > 4 {
		switch {
		case length <= 253:
			buf = append(buf, byte(length))
		case length <= 65535:
			buf = append(buf, 254)
			var tmp [2]byte
			binary.BigEndian.PutUint16(tmp[:], uint16(length))
			buf = append(buf, tmp[:]...)
		default:
			buf = append(buf, 255)
			var tmp [4]byte
			binary.BigEndian.PutUint32(tmp[:], uint32(length))
			buf = append(buf, tmp[:]...)
		}
	}
	return buf
}

// EncodeOpeningTag appends a context-tagged opening tag for tagNumber.
func EncodeOpeningTag(buf []byte, tagNumber uint8) []byte {
	var first byte
	if tagNumber <= 14 {
		first = byte(tagNumber)<<4 | 0x08 | 0x06
	} else {
		first = 0xF0 | 0x08 | 0x06
	}
	buf = append(buf, first)
	if tagNumber > 14 {
		buf = append(buf, tagNumber)
	}
	return buf
}

// EncodeClosingTag appends a context-tagged closing tag for tagNumber.
func EncodeClosingTag(buf []byte, tagNumber uint8) []byte {
	var first byte
	if tagNumber <= 14 {
		first = byte(tagNumber)<<4 | 0x08 | 0x07
	} else {
		first = 0xF0 | 0x08 | 0x07
	}
	buf = append(buf, first)
	if tagNumber > 14 {
		buf = append(buf, tagNumber)
	}
	return buf
}

// DecodeTag reads a single tag header from the front of data and
// returns the decoded Tag. max bounds how many octets of data may be
// consulted (the caller's negotiated max-APDU length, or remaining
// buffer length, whichever governs); DecodeTag never reads past max.
//
// Decoding fails with ErrTruncated if the header is cut short by max,
// and with ErrInvalidTag if an application-class tag carries the
// opening or closing length code. The returned value length is not
// checked against max here; callers that read the content do that.
func DecodeTag(data []byte, max int) (Tag, error) {
	if max > len(data) {
		max = len(data)
	}
	if max < 1 {
		return Tag{}, fmt.Errorf("%w: empty tag header", ErrTruncated)
	}

	first := data[0]
	headerLen := 1

	class := TagClassApplication
	if first&0x08 != 0 {
		class = TagClassContext
	}

	tagNumber := first >> 4
	if tagNumber == 0x0F {
		if headerLen >= max {
			return Tag{}, fmt.Errorf("%w: missing extended tag number octet", ErrTruncated)
		}
		tagNumber = data[headerLen]
		headerLen++
	}

	lengthCode := first & 0x07

	// Opening/closing tags are only meaningful for context-class tags;
	// an application-class tag with code 6 or 7 is malformed.
	if lengthCode == 6 {
		if class != TagClassContext {
			return Tag{}, fmt.Errorf("%w: opening tag code on application-class tag", ErrInvalidTag)
		}
		return Tag{Number: tagNumber, Class: class, Length: lengthOpening, HeaderLen: headerLen}, nil
	}
	if lengthCode == 7 {
		if class != TagClassContext {
			return Tag{}, fmt.Errorf("%w: closing tag code on application-class tag", ErrInvalidTag)
		}
		return Tag{Number: tagNumber, Class: class, Length: lengthClosing, HeaderLen: headerLen}, nil
	}

	if lengthCode < 5 {
		return Tag{Number: tagNumber, Class: class, Length: int(lengthCode), HeaderLen: headerLen}, nil
	}

	// Extended length form.
	if headerLen >= max {
		return Tag{}, fmt.Errorf("%w: missing extended length octet", ErrTruncated)
	}
	lenCode := data[headerLen]
	headerLen++

	switch {
	case lenCode <= 253:
		return Tag{Number: tagNumber, Class: class, Length: int(lenCode), HeaderLen: headerLen}, nil
	case lenCode == 254:
		if headerLen+2 > max {
			return Tag{}, fmt.Errorf("%w: missing 2-octet extended length", ErrTruncated)
		}
		length := int(binary.BigEndian.Uint16(data[headerLen : headerLen+2]))
		headerLen += 2
		return Tag{Number: tagNumber, Class: class, Length: length, HeaderLen: headerLen}, nil
	default: // 255
		if headerLen+4 > max {
			return Tag{}, fmt.Errorf("%w: missing 4-octet extended length", ErrTruncated)
		}
		length := int(binary.BigEndian.Uint32(data[headerLen : headerLen+4]))
		headerLen += 4
		return Tag{Number: tagNumber, Class: class, Length: length, HeaderLen: headerLen}, nil
	}
}

// PeekIsOpeningTag reports whether data begins with a context opening
// tag for tagNumber, without consuming it.
func PeekIsOpeningTag(data []byte, tagNumber uint8) bool {
	t, err := DecodeTag(data, len(data))
	if err != nil {
		return false
	}
	return t.Class == TagClassContext && t.IsOpening() && t.Number == tagNumber
}

// PeekIsClosingTag reports whether data begins with a context closing
// tag for tagNumber, without consuming it.
func PeekIsClosingTag(data []byte, tagNumber uint8) bool {
	t, err := DecodeTag(data, len(data))
	if err != nil {
		return false
	}
	return t.Class == TagClassContext && t.IsClosing() && t.Number == tagNumber
}

// PeekIsContextTag reports whether data begins with a context tag
// (opening, closing, or value-bearing) for tagNumber.
func PeekIsContextTag(data []byte, tagNumber uint8) bool {
	t, err := DecodeTag(data, len(data))
	if err != nil {
		return false
	}
	return t.Class == TagClassContext && t.Number == tagNumber
}
