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

// WritePropertyRequest is a decoded WriteProperty-Request service, per
// ASHRAE 135 Clause 15.9.
type WritePropertyRequest struct {
	ObjectID   ObjectIdentifier
	Property   PropertyIdentifier
	ArrayIndex *uint32
	Values     []Value
	Priority   *uint8 // 1-16 when present
}

// EncodeWritePropertyRequest appends a WriteProperty-Request service
// payload. Priority, if non-nil, must be in 1-16; EncodeWriteProperty
// Request does not validate it (validation happens where the request
// is constructed from user input, e.g. the CLI), mirroring how the
// codec trusts its own callers everywhere else.
func EncodeWritePropertyRequest(buf []byte, r WritePropertyRequest) []byte {
	buf = EncodeContextObjectIdentifier(buf, 0, r.ObjectID)
	buf = EncodeContextEnumerated(buf, 1, uint32(r.Property))
	if r.ArrayIndex != nil {
		buf = EncodeContextUnsigned(buf, 2, *r.ArrayIndex)
	}
	buf = EncodeOpeningTag(buf, 3)
	for _, v := range r.Values {
		buf = appendApplicationValue(buf, v)
	}
	buf = EncodeClosingTag(buf, 3)
	if r.Priority != nil {
		buf = EncodeContextUnsigned(buf, 4, uint32(*r.Priority))
	}
	return buf
}

// DecodeWritePropertyRequest decodes a WriteProperty-Request service
// payload. A decoded priority outside 1-16 is reported as
// ErrOutOfRange, since ASHRAE 135 Clause 16.1 restricts the field to
// that range and a value outside it cannot be acted on.
func DecodeWritePropertyRequest(data []byte) (WritePropertyRequest, error) {
	var r WritePropertyRequest
	objID, n, err := DecodeContextObjectIdentifier(data, 0, len(data))
	if err != nil {
		return r, fmt.Errorf("write-property request object-identifier: %w", err)
	}
	r.ObjectID = objID
	data = data[n:]

	prop, n, err := DecodeContextEnumerated(data, 1, len(data))
	if err != nil {
		return r, fmt.Errorf("write-property request property-identifier: %w", err)
	}
	r.Property = PropertyIdentifier(prop)
	data = data[n:]

	if len(data) > 0 && PeekIsContextTag(data, 2) && !PeekIsOpeningTag(data, 2) {
		idx, n, err := DecodeContextUnsigned(data, 2, len(data))
		if err != nil {
			return r, fmt.Errorf("write-property request property-array-index: %w", err)
		}
		r.ArrayIndex = &idx
		data = data[n:]
	}

	if !PeekIsOpeningTag(data, 3) {
		return r, fmt.Errorf("%w: write-property request missing opening tag 3", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return r, err
	}
	data = data[tag.HeaderLen:]
	for len(data) > 0 && !PeekIsClosingTag(data, 3) {
		v, n, err := DecodeApplicationValue(data, len(data))
		if err != nil {
			return r, fmt.Errorf("write-property request value: %w", err)
		}
		r.Values = append(r.Values, v)
		data = data[n:]
	}
	if len(data) == 0 {
		return r, fmt.Errorf("%w: write-property request missing closing tag 3", ErrInvalidTag)
	}
	closeTag, err := DecodeTag(data, len(data))
	if err != nil {
		return r, err
	}
	data = data[closeTag.HeaderLen:]

	if len(data) > 0 && PeekIsContextTag(data, 4) {
		priority, _, err := DecodeContextUnsigned(data, 4, len(data))
		if err != nil {
			return r, fmt.Errorf("write-property request priority: %w", err)
		}
		if priority < 1 || priority > 16 {
			return r, fmt.Errorf("%w: write priority %d outside 1-16", ErrOutOfRange, priority)
		}
		p := uint8(priority)
		r.Priority = &p
	}
	return r, nil
}
