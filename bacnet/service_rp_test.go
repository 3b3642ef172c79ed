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
	"reflect"
	"testing"
)

func TestReadPropertyRequestRoundTrip(t *testing.T) {
	r := ReadPropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 3},
		Property: PropertyPresentValue,
	}
	buf := EncodeReadPropertyRequest(nil, r)
	got, err := DecodeReadPropertyRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ObjectID != r.ObjectID || got.Property != r.Property || got.ArrayIndex != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestReadPropertyRequestWithArrayIndex(t *testing.T) {
	idx := uint32(2)
	r := ReadPropertyRequest{
		ObjectID:   ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001},
		Property:   PropertyObjectList,
		ArrayIndex: &idx,
	}
	buf := EncodeReadPropertyRequest(nil, r)
	got, err := DecodeReadPropertyRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ArrayIndex == nil || *got.ArrayIndex != idx {
		t.Fatalf("got %+v", got)
	}
}

// The header bytes for a ReadProperty-Request against analog-input:1's
// present-value, as encoded on the wire: context-tagged object
// identifier (tag 0), context-tagged enumerated property (tag 1).
func TestReadPropertyRequestWireBytes(t *testing.T) {
	r := ReadPropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1},
		Property: PropertyPresentValue,
	}
	buf := EncodeReadPropertyRequest(nil, r)
	want := []byte{0x0c, 0x00, 0x00, 0x00, 0x01, 0x19, 0x55}
	if len(buf) != len(want) {
		t.Fatalf("got % x, want % x", buf, want)
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("got % x, want % x", buf, want)
		}
	}
}

func TestReadPropertyAckRoundTripSingleValue(t *testing.T) {
	a := ReadPropertyAck{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagReal, Real: 72.5}},
	}
	buf := EncodeReadPropertyAck(nil, a)
	got, err := DecodeReadPropertyAck(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ObjectID != a.ObjectID || got.Property != a.Property || len(got.Values) != 1 {
		t.Fatalf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Values[0], a.Values[0]) {
		t.Fatalf("got value %+v", got.Values[0])
	}
}

func TestReadPropertyAckRoundTripListValue(t *testing.T) {
	a := ReadPropertyAck{
		ObjectID: ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001},
		Property: PropertyObjectList,
		Values: []Value{
			{Tag: ApplicationTagObjectID, ObjectID: ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001}},
			{Tag: ApplicationTagObjectID, ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}},
		},
	}
	buf := EncodeReadPropertyAck(nil, a)
	got, err := DecodeReadPropertyAck(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Values) != 2 {
		t.Fatalf("got %d values, want 2", len(got.Values))
	}
	for i, v := range got.Values {
		if !reflect.DeepEqual(v, a.Values[i]) {
			t.Fatalf("value %d: got %+v, want %+v", i, v, a.Values[i])
		}
	}
}

func TestReadPropertyAckMissingClosingTag(t *testing.T) {
	a := ReadPropertyAck{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagReal, Real: 1}},
	}
	buf := EncodeReadPropertyAck(nil, a)
	truncated := buf[:len(buf)-1] // drop the closing tag
	if _, err := DecodeReadPropertyAck(truncated); err == nil {
		t.Fatal("expected an error for a missing closing tag 3")
	}
}
