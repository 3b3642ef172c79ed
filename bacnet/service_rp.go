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

import "fmt"

// ReadPropertyRequest is a decoded ReadProperty-Request service,
// per ASHRAE 135 Clause 15.5.
type ReadPropertyRequest struct {
	ObjectID   ObjectIdentifier
	Property   PropertyIdentifier
	ArrayIndex *uint32
}

// EncodeReadPropertyRequest appends a ReadProperty-Request service
// payload.
func EncodeReadPropertyRequest(buf []byte, r ReadPropertyRequest) []byte {
	buf = EncodeContextObjectIdentifier(buf, 0, r.ObjectID)
	buf = EncodeContextEnumerated(buf, 1, uint32(r.Property))
	if r.ArrayIndex != nil {
		buf = EncodeContextUnsigned(buf, 2, *r.ArrayIndex)
	}
	return buf
}

// DecodeReadPropertyRequest decodes a ReadProperty-Request service
// payload.
func DecodeReadPropertyRequest(data []byte) (ReadPropertyRequest, error) {
	var r ReadPropertyRequest
	objID, n, err := DecodeContextObjectIdentifier(data, 0, len(data))
	if err != nil {
		return r, fmt.Errorf("read-property request object-identifier: %w", err)
	}
	r.ObjectID = objID
	data = data[n:]

	prop, n, err := DecodeContextEnumerated(data, 1, len(data))
	if err != nil {
		return r, fmt.Errorf("read-property request property-identifier: %w", err)
	}
	r.Property = PropertyIdentifier(prop)
	data = data[n:]

	if len(data) > 0 && PeekIsContextTag(data, 2) {
		idx, _, err := DecodeContextUnsigned(data, 2, len(data))
		if err != nil {
			return r, fmt.Errorf("read-property request property-array-index: %w", err)
		}
		r.ArrayIndex = &idx
	}
	return r, nil
}

// ReadPropertyAck is a decoded ReadProperty-ACK. Values holds every
// application-tagged element inside the property-value construct
// (most properties carry exactly one; list-valued properties such as
// object-list carry more).
type ReadPropertyAck struct {
	ObjectID   ObjectIdentifier
	Property   PropertyIdentifier
	ArrayIndex *uint32
	Values     []Value
}

// EncodeReadPropertyAck appends a ReadProperty-ACK service payload.
func EncodeReadPropertyAck(buf []byte, a ReadPropertyAck) []byte {
	buf = EncodeContextObjectIdentifier(buf, 0, a.ObjectID)
	buf = EncodeContextEnumerated(buf, 1, uint32(a.Property))
	if a.ArrayIndex != nil {
		buf = EncodeContextUnsigned(buf, 2, *a.ArrayIndex)
	}
	buf = EncodeOpeningTag(buf, 3)
	for _, v := range a.Values {
		buf = appendApplicationValue(buf, v)
	}
	buf = EncodeClosingTag(buf, 3)
	return buf
}

// DecodeReadPropertyAck decodes a ReadProperty-ACK service payload.
func DecodeReadPropertyAck(data []byte) (ReadPropertyAck, error) {
	var a ReadPropertyAck
	objID, n, err := DecodeContextObjectIdentifier(data, 0, len(data))
	if err != nil {
		return a, fmt.Errorf("read-property ack object-identifier: %w", err)
	}
	a.ObjectID = objID
	data = data[n:]

	prop, n, err := DecodeContextEnumerated(data, 1, len(data))
	if err != nil {
		return a, fmt.Errorf("read-property ack property-identifier: %w", err)
	}
	a.Property = PropertyIdentifier(prop)
	data = data[n:]

	if len(data) > 0 && PeekIsContextTag(data, 2) && !PeekIsOpeningTag(data, 2) {
		idx, n, err := DecodeContextUnsigned(data, 2, len(data))
		if err != nil {
			return a, fmt.Errorf("read-property ack property-array-index: %w", err)
		}
		a.ArrayIndex = &idx
		data = data[n:]
	}

	if !PeekIsOpeningTag(data, 3) {
		return a, fmt.Errorf("%w: read-property ack missing opening tag 3", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return a, err
	}
	data = data[tag.HeaderLen:]

	for len(data) > 0 && !PeekIsClosingTag(data, 3) {
		v, n, err := DecodeApplicationValue(data, len(data))
		if err != nil {
			return a, fmt.Errorf("read-property ack value: %w", err)
		}
		a.Values = append(a.Values, v)
		data = data[n:]
	}
	if len(data) == 0 {
		return a, fmt.Errorf("%w: read-property ack missing closing tag 3", ErrInvalidTag)
	}
	return a, nil
}

// appendApplicationValue dispatches v to its matching
// EncodeApplication* encoder by tag. Shared by every service codec
// that embeds raw application values inside a property-value
// construct (read-property ack, RPM ack, COV notification).
func appendApplicationValue(buf []byte, v Value) []byte {
	switch v.Tag {
	case ApplicationTagNull:
		return EncodeApplicationNull(buf)
	case ApplicationTagBoolean:
		return EncodeApplicationBoolean(buf, v.Boolean)
	case ApplicationTagUnsignedInt:
		return EncodeApplicationUnsigned(buf, v.Unsigned)
	case ApplicationTagSignedInt:
		return EncodeApplicationSigned(buf, v.Signed)
	case ApplicationTagReal:
		return EncodeApplicationReal(buf, v.Real)
	case ApplicationTagDouble:
		return EncodeApplicationDouble(buf, v.Double)
	case ApplicationTagOctetString:
		return EncodeApplicationOctetString(buf, v.OctetString)
	case ApplicationTagCharacterString:
		return EncodeApplicationCharacterString(buf, v.CharacterString)
	case ApplicationTagBitString:
		return EncodeApplicationBitString(buf, v.BitString)
	case ApplicationTagEnumerated:
		return EncodeApplicationEnumerated(buf, v.Enumerated)
	case ApplicationTagDate:
		return EncodeApplicationDate(buf, v.Date)
	case ApplicationTagTime:
		return EncodeApplicationTime(buf, v.Time)
	case ApplicationTagObjectID:
		return EncodeApplicationObjectIdentifier(buf, v.ObjectID)
	default:
		return buf
	}
}
