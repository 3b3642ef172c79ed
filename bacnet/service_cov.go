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

// NoPriority marks a COVPropertyValue whose priority was not present
// on the wire, mirroring BACNET_NO_PRIORITY in the reference stack.
const NoPriority uint8 = 0

// maxCOVListElements bounds the list of property values a COV
// notification decodes: a caller-declared upper bound past which the
// decoder fails with ErrTooManyElements rather than growing a slice
// without limit off of a malformed or hostile buffer.
const maxCOVListElements = 4096

// COVPropertyValue is one property reported inside a COV notification.
// Value holds the single application-data element this codec
// supports; see DecodeCOVNotification for what happens when the wire
// data carries more than one. Priority is NoPriority when the optional
// tag 3 was absent.
type COVPropertyValue struct {
	Property   PropertyIdentifier
	ArrayIndex *uint32
	Value      Value
	Priority   uint8
}

// COVNotification is a decoded Confirmed/Unconfirmed-COV-Notification
// service, per ASHRAE 135 Clause 13.1.
type COVNotification struct {
	SubscriberProcessID  uint32
	InitiatingDeviceID   ObjectIdentifier
	MonitoredObjectID    ObjectIdentifier
	TimeRemainingSeconds uint32
	Values               []COVPropertyValue
}

// EncodeCOVNotification appends a COV-Notification service payload.
func EncodeCOVNotification(buf []byte, n COVNotification) []byte {
	buf = EncodeContextUnsigned(buf, 0, n.SubscriberProcessID)
	buf = EncodeContextObjectIdentifier(buf, 1, n.InitiatingDeviceID)
	buf = EncodeContextObjectIdentifier(buf, 2, n.MonitoredObjectID)
	buf = EncodeContextUnsigned(buf, 3, n.TimeRemainingSeconds)
	buf = EncodeOpeningTag(buf, 4)
	for _, pv := range n.Values {
		buf = EncodeContextEnumerated(buf, 0, uint32(pv.Property))
		if pv.ArrayIndex != nil {
			buf = EncodeContextUnsigned(buf, 1, *pv.ArrayIndex)
		}
		buf = EncodeOpeningTag(buf, 2)
		buf = appendApplicationValue(buf, pv.Value)
		buf = EncodeClosingTag(buf, 2)
		if pv.Priority != NoPriority {
			buf = EncodeContextUnsigned(buf, 3, uint32(pv.Priority))
		}
	}
	buf = EncodeClosingTag(buf, 4)
	return buf
}

// DecodeCOVNotification decodes a COV-Notification service payload.
//
// A property-value construct that carries more than one application-
// data element returns ErrCOVMultiValueUnsupported instead of silently
// keeping only the first element.
func DecodeCOVNotification(data []byte) (COVNotification, error) {
	var n COVNotification
	pid, adv, err := DecodeContextUnsigned(data, 0, len(data))
	if err != nil {
		return n, fmt.Errorf("cov notification subscriber-process-id: %w", err)
	}
	n.SubscriberProcessID = pid
	data = data[adv:]

	initDev, adv, err := DecodeContextObjectIdentifier(data, 1, len(data))
	if err != nil {
		return n, fmt.Errorf("cov notification initiating-device-id: %w", err)
	}
	n.InitiatingDeviceID = initDev
	data = data[adv:]

	monObj, adv, err := DecodeContextObjectIdentifier(data, 2, len(data))
	if err != nil {
		return n, fmt.Errorf("cov notification monitored-object-id: %w", err)
	}
	n.MonitoredObjectID = monObj
	data = data[adv:]

	remaining, adv, err := DecodeContextUnsigned(data, 3, len(data))
	if err != nil {
		return n, fmt.Errorf("cov notification time-remaining: %w", err)
	}
	n.TimeRemainingSeconds = remaining
	data = data[adv:]

	if !PeekIsOpeningTag(data, 4) {
		return n, fmt.Errorf("%w: cov notification missing opening tag 4", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return n, err
	}
	data = data[tag.HeaderLen:]

	for len(data) > 0 && !PeekIsClosingTag(data, 4) {
		prop, adv, err := DecodeContextEnumerated(data, 0, len(data))
		if err != nil {
			return n, fmt.Errorf("cov notification property-identifier: %w", err)
		}
		data = data[adv:]
		pv := COVPropertyValue{Property: PropertyIdentifier(prop)}

		if len(data) > 0 && PeekIsContextTag(data, 1) && !PeekIsOpeningTag(data, 1) {
			idx, adv, err := DecodeContextUnsigned(data, 1, len(data))
			if err != nil {
				return n, fmt.Errorf("cov notification property-array-index: %w", err)
			}
			pv.ArrayIndex = &idx
			data = data[adv:]
		}

		if !PeekIsOpeningTag(data, 2) {
			return n, fmt.Errorf("%w: cov notification missing opening tag 2", ErrInvalidTag)
		}
		valTag, err := DecodeTag(data, len(data))
		if err != nil {
			return n, err
		}
		data = data[valTag.HeaderLen:]

		v, adv, err := DecodeApplicationValue(data, len(data))
		if err != nil {
			return n, fmt.Errorf("cov notification value: %w", err)
		}
		pv.Value = v
		data = data[adv:]

		if !PeekIsClosingTag(data, 2) {
			return n, fmt.Errorf("%w: %w", ErrCOVMultiValueUnsupported, fmt.Errorf("property %s carries more than one application-data element", pv.Property))
		}
		closeTag, err := DecodeTag(data, len(data))
		if err != nil {
			return n, err
		}
		data = data[closeTag.HeaderLen:]

		pv.Priority = NoPriority
		if len(data) > 0 && PeekIsContextTag(data, 3) && !PeekIsOpeningTag(data, 3) {
			priority, adv, err := DecodeContextUnsigned(data, 3, len(data))
			if err != nil {
				return n, fmt.Errorf("cov notification priority: %w", err)
			}
			pv.Priority = uint8(priority)
			data = data[adv:]
		}

		if len(n.Values) >= maxCOVListElements {
			return n, fmt.Errorf("%w: cov notification carries more than %d property values", ErrTooManyElements, maxCOVListElements)
		}
		n.Values = append(n.Values, pv)
	}
	if len(data) == 0 {
		return n, fmt.Errorf("%w: cov notification missing closing tag 4", ErrInvalidTag)
	}
	return n, nil
}
