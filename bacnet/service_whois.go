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

// WhoIsRequest is a decoded Who-Is-Request service, per ASHRAE 135
// Clause 16.9. Both limits are present or both absent.
type WhoIsRequest struct {
	LowLimit  *uint32
	HighLimit *uint32
}

// EncodeWhoIsRequest appends a Who-Is-Request service payload.
func EncodeWhoIsRequest(buf []byte, r WhoIsRequest) []byte {
	if r.LowLimit == nil || r.HighLimit == nil {
		return buf
	}
	buf = EncodeContextUnsigned(buf, 0, *r.LowLimit)
	buf = EncodeContextUnsigned(buf, 1, *r.HighLimit)
	return buf
}

// DecodeWhoIsRequest decodes a Who-Is-Request service payload.
func DecodeWhoIsRequest(data []byte) (WhoIsRequest, error) {
	var r WhoIsRequest
	if len(data) == 0 {
		return r, nil
	}
	low, n, err := DecodeContextUnsigned(data, 0, len(data))
	if err != nil {
		return r, fmt.Errorf("who-is low-limit: %w", err)
	}
	data = data[n:]
	high, _, err := DecodeContextUnsigned(data, 1, len(data))
	if err != nil {
		return r, fmt.Errorf("who-is high-limit: %w", err)
	}
	r.LowLimit = &low
	r.HighLimit = &high
	return r, nil
}

// IAmRequest is a decoded I-Am-Request service, per ASHRAE 135 Clause
// 16.10. Unlike Who-Is, every field is application-tagged in a fixed
// order (I-Am is a broadcast announcement, not a filtered query).
type IAmRequest struct {
	DeviceID              ObjectIdentifier
	MaxAPDULengthAccepted uint32
	Segmentation          Segmentation
	VendorID              uint32
}

// EncodeIAmRequest appends an I-Am-Request service payload.
func EncodeIAmRequest(buf []byte, r IAmRequest) []byte {
	buf = EncodeApplicationObjectIdentifier(buf, r.DeviceID)
	buf = EncodeApplicationUnsigned(buf, r.MaxAPDULengthAccepted)
	buf = EncodeApplicationEnumerated(buf, uint32(r.Segmentation))
	buf = EncodeApplicationUnsigned(buf, r.VendorID)
	return buf
}

// DecodeIAmRequest decodes an I-Am-Request service payload.
func DecodeIAmRequest(data []byte) (IAmRequest, error) {
	var r IAmRequest
	v, n, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagObjectID {
		return r, fmt.Errorf("%w: i-am device-identifier", ErrInvalidTag)
	}
	r.DeviceID = v.ObjectID
	data = data[n:]

	v, n, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagUnsignedInt {
		return r, fmt.Errorf("%w: i-am max-apdu-length-accepted", ErrInvalidTag)
	}
	r.MaxAPDULengthAccepted = v.Unsigned
	data = data[n:]

	v, n, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagEnumerated {
		return r, fmt.Errorf("%w: i-am segmentation-supported", ErrInvalidTag)
	}
	r.Segmentation = Segmentation(v.Enumerated)
	data = data[n:]

	v, _, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagUnsignedInt {
		return r, fmt.Errorf("%w: i-am vendor-identifier", ErrInvalidTag)
	}
	r.VendorID = v.Unsigned
	return r, nil
}

// WhoHasRequest is a decoded Who-Has-Request service, per ASHRAE 135
// Clause 16.8. Exactly one of ObjectID/ObjectName is set.
type WhoHasRequest struct {
	LowLimit   *uint32
	HighLimit  *uint32
	ObjectID   *ObjectIdentifier
	ObjectName *string
}

// EncodeWhoHasRequest appends a Who-Has-Request service payload.
func EncodeWhoHasRequest(buf []byte, r WhoHasRequest) []byte {
	if r.LowLimit != nil && r.HighLimit != nil {
		buf = EncodeContextUnsigned(buf, 0, *r.LowLimit)
		buf = EncodeContextUnsigned(buf, 1, *r.HighLimit)
	}
	switch {
	case r.ObjectID != nil:
		buf = EncodeContextObjectIdentifier(buf, 2, *r.ObjectID)
	case r.ObjectName != nil:
		buf = EncodeContextCharacterString(buf, 3, *r.ObjectName)
	}
	return buf
}

// DecodeWhoHasRequest decodes a Who-Has-Request service payload.
func DecodeWhoHasRequest(data []byte) (WhoHasRequest, error) {
	var r WhoHasRequest
	if len(data) > 0 && PeekIsContextTag(data, 0) {
		low, n, err := DecodeContextUnsigned(data, 0, len(data))
		if err != nil {
			return r, fmt.Errorf("who-has low-limit: %w", err)
		}
		data = data[n:]
		high, n, err := DecodeContextUnsigned(data, 1, len(data))
		if err != nil {
			return r, fmt.Errorf("who-has high-limit: %w", err)
		}
		data = data[n:]
		r.LowLimit = &low
		r.HighLimit = &high
	}
	if len(data) == 0 {
		return r, fmt.Errorf("%w: who-has missing object selector", ErrInvalidTag)
	}
	if PeekIsContextTag(data, 2) {
		objID, _, err := DecodeContextObjectIdentifier(data, 2, len(data))
		if err != nil {
			return r, fmt.Errorf("who-has object-identifier: %w", err)
		}
		r.ObjectID = &objID
		return r, nil
	}
	name, _, err := DecodeContextCharacterString(data, 3, len(data))
	if err != nil {
		return r, fmt.Errorf("who-has object-name: %w", err)
	}
	r.ObjectName = &name
	return r, nil
}

// IHaveRequest is a decoded I-Have-Request service, per ASHRAE 135
// Clause 16.7.
type IHaveRequest struct {
	DeviceID   ObjectIdentifier
	ObjectID   ObjectIdentifier
	ObjectName string
}

// EncodeIHaveRequest appends an I-Have-Request service payload.
func EncodeIHaveRequest(buf []byte, r IHaveRequest) []byte {
	buf = EncodeApplicationObjectIdentifier(buf, r.DeviceID)
	buf = EncodeApplicationObjectIdentifier(buf, r.ObjectID)
	buf = EncodeApplicationCharacterString(buf, r.ObjectName)
	return buf
}

// DecodeIHaveRequest decodes an I-Have-Request service payload.
func DecodeIHaveRequest(data []byte) (IHaveRequest, error) {
	var r IHaveRequest
	v, n, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagObjectID {
		return r, fmt.Errorf("%w: i-have device-identifier", ErrInvalidTag)
	}
	r.DeviceID = v.ObjectID
	data = data[n:]

	v, n, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagObjectID {
		return r, fmt.Errorf("%w: i-have object-identifier", ErrInvalidTag)
	}
	r.ObjectID = v.ObjectID
	data = data[n:]

	v, _, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagCharacterString {
		return r, fmt.Errorf("%w: i-have object-name", ErrInvalidTag)
	}
	r.ObjectName = v.CharacterString
	return r, nil
}

// TimeSynchronizationRequest is a decoded Time-Synchronization (or
// UTC-Time-Synchronization) unconfirmed service, per ASHRAE 135 Clause
// 16.5/16.6. Both services share this payload shape; the service
// choice alone distinguishes local time from UTC.
type TimeSynchronizationRequest struct {
	Date Date
	Time Time
}

// EncodeTimeSynchronizationRequest appends a Time-Synchronization
// service payload.
func EncodeTimeSynchronizationRequest(buf []byte, r TimeSynchronizationRequest) []byte {
	buf = EncodeApplicationDate(buf, r.Date)
	buf = EncodeApplicationTime(buf, r.Time)
	return buf
}

// DecodeTimeSynchronizationRequest decodes a Time-Synchronization
// service payload.
func DecodeTimeSynchronizationRequest(data []byte) (TimeSynchronizationRequest, error) {
	var r TimeSynchronizationRequest
	v, n, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagDate {
		return r, fmt.Errorf("%w: time-synchronization date", ErrInvalidTag)
	}
	r.Date = v.Date
	data = data[n:]

	v, _, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagTime {
		return r, fmt.Errorf("%w: time-synchronization time", ErrInvalidTag)
	}
	r.Time = v.Time
	return r, nil
}
