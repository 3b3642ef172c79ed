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
	"reflect"
	"testing"
)

func TestWritePropertyRequestRoundTripNoPriority(t *testing.T) {
	r := WritePropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagReal, Real: 68.0}},
	}
	buf := EncodeWritePropertyRequest(nil, r)
	got, err := DecodeWritePropertyRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ObjectID != r.ObjectID || got.Property != r.Property || got.Priority != nil {
		t.Fatalf("got %+v", got)
	}
	if len(got.Values) != 1 || !reflect.DeepEqual(got.Values[0], r.Values[0]) {
		t.Fatalf("got values %+v", got.Values)
	}
}

func TestWritePropertyRequestRoundTripWithPriority(t *testing.T) {
	prio := uint8(8)
	r := WritePropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagReal, Real: 68.0}},
		Priority: &prio,
	}
	buf := EncodeWritePropertyRequest(nil, r)
	got, err := DecodeWritePropertyRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Priority == nil || *got.Priority != prio {
		t.Fatalf("got priority %v, want %d", got.Priority, prio)
	}
}

func TestWritePropertyRequestRelinquish(t *testing.T) {
	prio := uint8(16)
	r := WritePropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagNull}},
		Priority: &prio,
	}
	buf := EncodeWritePropertyRequest(nil, r)
	got, err := DecodeWritePropertyRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Values) != 1 || got.Values[0].Tag != ApplicationTagNull {
		t.Fatalf("got values %+v", got.Values)
	}
}

func TestWritePropertyRequestPriorityOutOfRange(t *testing.T) {
	r := WritePropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagReal, Real: 1}},
	}
	buf := EncodeWritePropertyRequest(nil, r)
	// Append a priority of 0, which ASHRAE 135 forbids, in place of a
	// valid encoder call.
	buf = EncodeContextUnsigned(buf, 4, 0)
	if _, err := DecodeWritePropertyRequest(buf); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("got %v, want ErrOutOfRange", err)
	}
}

func TestWritePropertyRequestMissingClosingTag(t *testing.T) {
	r := WritePropertyRequest{
		ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1},
		Property: PropertyPresentValue,
		Values:   []Value{{Tag: ApplicationTagReal, Real: 1}},
	}
	buf := EncodeWritePropertyRequest(nil, r)
	truncated := buf[:len(buf)-1]
	if _, err := DecodeWritePropertyRequest(truncated); err == nil {
		t.Fatal("expected an error for a missing closing tag 3")
	}
}
