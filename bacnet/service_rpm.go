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

// maxRPMListElements bounds every RPM sequence this codec decodes (the
// specs in a request, the properties within a spec, the results in an
// ack, the values within a result): a caller-declared upper bound past
// which a decoder fails with ErrTooManyElements rather than growing a
// slice without limit off of a malformed or hostile buffer.
const maxRPMListElements = 4096

// PropertyReference is one entry of a ReadPropertyMultiple-Request's
// list-of-property-references, per ASHRAE 135 Clause 15.7. Property
// may be one of the special sentinels PropertyAll/PropertyRequired/
// PropertyOptional, which the handler expands against an object's
// property lists rather than reading directly.
type PropertyReference struct {
	Property   PropertyIdentifier
	ArrayIndex *uint32
}

// ReadAccessSpec is one object's worth of a ReadPropertyMultiple
// request: an object identifier plus the properties to read from it.
type ReadAccessSpec struct {
	ObjectID   ObjectIdentifier
	Properties []PropertyReference
}

// ReadPropertyMultipleRequest is a decoded
// ReadPropertyMultiple-Request service.
type ReadPropertyMultipleRequest struct {
	Specs []ReadAccessSpec
}

// EncodeReadPropertyMultipleRequest appends a
// ReadPropertyMultiple-Request service payload.
func EncodeReadPropertyMultipleRequest(buf []byte, r ReadPropertyMultipleRequest) []byte {
	for _, spec := range r.Specs {
		buf = EncodeContextObjectIdentifier(buf, 0, spec.ObjectID)
		buf = EncodeOpeningTag(buf, 1)
		for _, ref := range spec.Properties {
			buf = EncodeContextEnumerated(buf, 0, uint32(ref.Property))
			if ref.ArrayIndex != nil {
				buf = EncodeContextUnsigned(buf, 1, *ref.ArrayIndex)
			}
		}
		buf = EncodeClosingTag(buf, 1)
	}
	return buf
}

// DecodeReadPropertyMultipleRequest decodes a
// ReadPropertyMultiple-Request service payload.
func DecodeReadPropertyMultipleRequest(data []byte) (ReadPropertyMultipleRequest, error) {
	var r ReadPropertyMultipleRequest
	for len(data) > 0 {
		objID, n, err := DecodeContextObjectIdentifier(data, 0, len(data))
		if err != nil {
			return r, fmt.Errorf("rpm request object-identifier: %w", err)
		}
		data = data[n:]

		if !PeekIsOpeningTag(data, 1) {
			return r, fmt.Errorf("%w: rpm request missing opening tag 1", ErrInvalidTag)
		}
		tag, err := DecodeTag(data, len(data))
		if err != nil {
			return r, err
		}
		data = data[tag.HeaderLen:]

		spec := ReadAccessSpec{ObjectID: objID}
		for len(data) > 0 && !PeekIsClosingTag(data, 1) {
			prop, n, err := DecodeContextEnumerated(data, 0, len(data))
			if err != nil {
				return r, fmt.Errorf("rpm request property-identifier: %w", err)
			}
			data = data[n:]
			ref := PropertyReference{Property: PropertyIdentifier(prop)}
			if len(data) > 0 && PeekIsContextTag(data, 1) && !PeekIsClosingTag(data, 1) {
				idx, n, err := DecodeContextUnsigned(data, 1, len(data))
				if err != nil {
					return r, fmt.Errorf("rpm request property-array-index: %w", err)
				}
				ref.ArrayIndex = &idx
				data = data[n:]
			}
			if len(spec.Properties) >= maxRPMListElements {
				return r, fmt.Errorf("%w: rpm request spec carries more than %d properties", ErrTooManyElements, maxRPMListElements)
			}
			spec.Properties = append(spec.Properties, ref)
		}
		if len(data) == 0 {
			return r, fmt.Errorf("%w: rpm request missing closing tag 1", ErrInvalidTag)
		}
		closeTag, err := DecodeTag(data, len(data))
		if err != nil {
			return r, err
		}
		data = data[closeTag.HeaderLen:]
		if len(r.Specs) >= maxRPMListElements {
			return r, fmt.Errorf("%w: rpm request carries more than %d specs", ErrTooManyElements, maxRPMListElements)
		}
		r.Specs = append(r.Specs, spec)
	}
	return r, nil
}

// PropertyResult is one property's read outcome inside a
// ReadPropertyMultiple-ACK: either Values is populated (successful
// read) or Err is non-nil (the property could not be read), never
// both.
type PropertyResult struct {
	Property   PropertyIdentifier
	ArrayIndex *uint32
	Values     []Value
	Err        *BACnetError
}

// ReadAccessResult is one object's worth of a ReadPropertyMultiple-ACK.
type ReadAccessResult struct {
	ObjectID ObjectIdentifier
	Results  []PropertyResult
}

// ReadPropertyMultipleAck is a decoded ReadPropertyMultiple-ACK
// service.
type ReadPropertyMultipleAck struct {
	Results []ReadAccessResult
}

// EncodeReadPropertyMultipleAck appends a ReadPropertyMultiple-ACK
// service payload.
func EncodeReadPropertyMultipleAck(buf []byte, a ReadPropertyMultipleAck) []byte {
	for _, res := range a.Results {
		buf = EncodeContextObjectIdentifier(buf, 0, res.ObjectID)
		buf = EncodeOpeningTag(buf, 1)
		for _, pr := range res.Results {
			buf = EncodeContextEnumerated(buf, 2, uint32(pr.Property))
			if pr.ArrayIndex != nil {
				buf = EncodeContextUnsigned(buf, 3, *pr.ArrayIndex)
			}
			if pr.Err != nil {
				buf = EncodeOpeningTag(buf, 5)
				buf = EncodeApplicationEnumerated(buf, uint32(pr.Err.Class))
				buf = EncodeApplicationEnumerated(buf, uint32(pr.Err.Code))
				buf = EncodeClosingTag(buf, 5)
				continue
			}
			buf = EncodeOpeningTag(buf, 4)
			for _, v := range pr.Values {
				buf = appendApplicationValue(buf, v)
			}
			buf = EncodeClosingTag(buf, 4)
		}
		buf = EncodeClosingTag(buf, 1)
	}
	return buf
}

// DecodeReadPropertyMultipleAck decodes a ReadPropertyMultiple-ACK
// service payload.
func DecodeReadPropertyMultipleAck(data []byte) (ReadPropertyMultipleAck, error) {
	var a ReadPropertyMultipleAck
	for len(data) > 0 {
		objID, n, err := DecodeContextObjectIdentifier(data, 0, len(data))
		if err != nil {
			return a, fmt.Errorf("rpm ack object-identifier: %w", err)
		}
		data = data[n:]

		if !PeekIsOpeningTag(data, 1) {
			return a, fmt.Errorf("%w: rpm ack missing opening tag 1", ErrInvalidTag)
		}
		tag, err := DecodeTag(data, len(data))
		if err != nil {
			return a, err
		}
		data = data[tag.HeaderLen:]

		result := ReadAccessResult{ObjectID: objID}
		for len(data) > 0 && !PeekIsClosingTag(data, 1) {
			prop, n, err := DecodeContextEnumerated(data, 2, len(data))
			if err != nil {
				return a, fmt.Errorf("rpm ack property-identifier: %w", err)
			}
			data = data[n:]
			pr := PropertyResult{Property: PropertyIdentifier(prop)}

			if len(data) > 0 && PeekIsContextTag(data, 3) && !PeekIsOpeningTag(data, 3) {
				idx, n, err := DecodeContextUnsigned(data, 3, len(data))
				if err != nil {
					return a, fmt.Errorf("rpm ack property-array-index: %w", err)
				}
				pr.ArrayIndex = &idx
				data = data[n:]
			}

			switch {
			case PeekIsOpeningTag(data, 4):
				tag, err := DecodeTag(data, len(data))
				if err != nil {
					return a, err
				}
				data = data[tag.HeaderLen:]
				for len(data) > 0 && !PeekIsClosingTag(data, 4) {
					v, n, err := DecodeApplicationValue(data, len(data))
					if err != nil {
						return a, fmt.Errorf("rpm ack value: %w", err)
					}
					if len(pr.Values) >= maxRPMListElements {
						return a, fmt.Errorf("%w: rpm ack result carries more than %d values", ErrTooManyElements, maxRPMListElements)
					}
					pr.Values = append(pr.Values, v)
					data = data[n:]
				}
				if len(data) == 0 {
					return a, fmt.Errorf("%w: rpm ack missing closing tag 4", ErrInvalidTag)
				}
				closeTag, err := DecodeTag(data, len(data))
				if err != nil {
					return a, err
				}
				data = data[closeTag.HeaderLen:]
			case PeekIsOpeningTag(data, 5):
				tag, err := DecodeTag(data, len(data))
				if err != nil {
					return a, err
				}
				data = data[tag.HeaderLen:]
				class, n, err := DecodeApplicationValue(data, len(data))
				if err != nil {
					return a, fmt.Errorf("rpm ack error class: %w", err)
				}
				data = data[n:]
				code, n, err := DecodeApplicationValue(data, len(data))
				if err != nil {
					return a, fmt.Errorf("rpm ack error code: %w", err)
				}
				data = data[n:]
				pr.Err = NewBACnetError(ErrorClass(class.Enumerated), ErrorCode(code.Enumerated))
				if len(data) == 0 {
					return a, fmt.Errorf("%w: rpm ack missing closing tag 5", ErrInvalidTag)
				}
				closeTag, err := DecodeTag(data, len(data))
				if err != nil {
					return a, err
				}
				data = data[closeTag.HeaderLen:]
			default:
				return a, fmt.Errorf("%w: rpm ack result missing value/error construct", ErrInvalidTag)
			}
			if len(result.Results) >= maxRPMListElements {
				return a, fmt.Errorf("%w: rpm ack object carries more than %d property results", ErrTooManyElements, maxRPMListElements)
			}
			result.Results = append(result.Results, pr)
		}
		if len(data) == 0 {
			return a, fmt.Errorf("%w: rpm ack missing closing tag 1", ErrInvalidTag)
		}
		closeTag, err := DecodeTag(data, len(data))
		if err != nil {
			return a, err
		}
		data = data[closeTag.HeaderLen:]
		if len(a.Results) >= maxRPMListElements {
			return a, fmt.Errorf("%w: rpm ack carries more than %d object results", ErrTooManyElements, maxRPMListElements)
		}
		a.Results = append(a.Results, result)
	}
	return a, nil
}
