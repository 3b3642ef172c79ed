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
	"errors"
	"testing"
)

func TestCOVNotificationRoundTrip(t *testing.T) {
	n := COVNotification{
		SubscriberProcessID:  1,
		InitiatingDeviceID:   ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001},
		MonitoredObjectID:    ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1},
		TimeRemainingSeconds: 60,
		Values: []COVPropertyValue{
			{Property: PropertyPresentValue, Value: Value{Tag: ApplicationTagReal, Real: 72.5}, Priority: 8},
			{Property: PropertyStatusFlags, Value: Value{Tag: ApplicationTagBitString, BitString: BitString{Bits: []bool{false, false, false, false}}}},
		},
	}
	buf := EncodeCOVNotification(nil, n)
	got, err := DecodeCOVNotification(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SubscriberProcessID != n.SubscriberProcessID || got.InitiatingDeviceID != n.InitiatingDeviceID ||
		got.MonitoredObjectID != n.MonitoredObjectID || got.TimeRemainingSeconds != n.TimeRemainingSeconds {
		t.Fatalf("got %+v", got)
	}
	if len(got.Values) != 2 {
		t.Fatalf("got %d values, want 2", len(got.Values))
	}
	if got.Values[0].Property != PropertyPresentValue || got.Values[0].Value.Real != 72.5 || got.Values[0].Priority != 8 {
		t.Fatalf("value 0: got %+v", got.Values[0])
	}
	if got.Values[1].Priority != NoPriority {
		t.Fatalf("value 1: got priority %d, want NoPriority", got.Values[1].Priority)
	}
}

func TestCOVNotificationMultiValueUnsupported(t *testing.T) {
	// Hand-build a notification whose property-value construct for
	// present-value carries two application-data elements instead of
	// one, which this codec cannot represent in COVPropertyValue.
	buf := EncodeContextUnsigned(nil, 0, 1)
	buf = EncodeContextObjectIdentifier(buf, 1, ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001})
	buf = EncodeContextObjectIdentifier(buf, 2, ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1})
	buf = EncodeContextUnsigned(buf, 3, 60)
	buf = EncodeOpeningTag(buf, 4)
	buf = EncodeContextEnumerated(buf, 0, uint32(PropertyPresentValue))
	buf = EncodeOpeningTag(buf, 2)
	buf = EncodeApplicationReal(buf, 1.0)
	buf = EncodeApplicationReal(buf, 2.0) // second element: unsupported
	buf = EncodeClosingTag(buf, 2)
	buf = EncodeClosingTag(buf, 4)

	_, err := DecodeCOVNotification(buf)
	if !errors.Is(err, ErrCOVMultiValueUnsupported) {
		t.Fatalf("got %v, want ErrCOVMultiValueUnsupported", err)
	}
}

func TestCOVNotificationMissingClosingTag(t *testing.T) {
	n := COVNotification{
		SubscriberProcessID: 1,
		InitiatingDeviceID:  ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001},
		MonitoredObjectID:   ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1},
		Values: []COVPropertyValue{
			{Property: PropertyPresentValue, Value: Value{Tag: ApplicationTagReal, Real: 1}},
		},
	}
	buf := EncodeCOVNotification(nil, n)
	truncated := buf[:len(buf)-1]
	if _, err := DecodeCOVNotification(truncated); err == nil {
		t.Fatal("expected a decode error for the missing closing tag 4")
	}
}

func TestCOVNotificationTooManyValuesFails(t *testing.T) {
	buf := EncodeContextUnsigned(nil, 0, 1)
	buf = EncodeContextObjectIdentifier(buf, 1, ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001})
	buf = EncodeContextObjectIdentifier(buf, 2, ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1})
	buf = EncodeContextUnsigned(buf, 3, 60)
	buf = EncodeOpeningTag(buf, 4)
	for i := 0; i < maxCOVListElements+1; i++ {
		buf = EncodeContextEnumerated(buf, 0, uint32(PropertyPresentValue))
		buf = EncodeOpeningTag(buf, 2)
		buf = EncodeApplicationReal(buf, 1.0)
		buf = EncodeClosingTag(buf, 2)
	}
	buf = EncodeClosingTag(buf, 4)

	_, err := DecodeCOVNotification(buf)
	if !errors.Is(err, ErrTooManyElements) {
		t.Fatalf("got %v, want ErrTooManyElements", err)
	}
}
