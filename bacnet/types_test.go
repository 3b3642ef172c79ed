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

import "testing"

func TestObjectIdentifierEncodeDecode(t *testing.T) {
	cases := []ObjectIdentifier{
		{Type: ObjectTypeAnalogInput, Instance: 0},
		{Type: ObjectTypeDevice, Instance: 1001},
		{Type: ObjectTypeLifeSafetyZone, Instance: MaxInstance},
	}
	for _, o := range cases {
		packed := o.Encode()
		got := DecodeObjectIdentifier(packed)
		if got != o {
			t.Fatalf("got %+v, want %+v (packed=0x%08x)", got, o, packed)
		}
	}
}

func TestObjectIdentifierString(t *testing.T) {
	o := ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}
	if got, want := o.String(), "analog-input:1"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnknownEnumStringFallback(t *testing.T) {
	if got := ObjectType(9999).String(); got == "" {
		t.Fatal("expected a non-empty fallback string")
	}
	if got := PropertyIdentifier(99999).String(); got == "" {
		t.Fatal("expected a non-empty fallback string")
	}
}

func TestStatusFlagsEncodeDecodeAllCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		sf := StatusFlags{
			InAlarm:      mask&1 != 0,
			Fault:        mask&2 != 0,
			Overridden:   mask&4 != 0,
			OutOfService: mask&8 != 0,
		}
		got := DecodeStatusFlags(sf.Encode())
		if got != sf {
			t.Fatalf("mask %d: got %+v, want %+v", mask, got, sf)
		}
	}
}
