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

func TestUnsignedValueRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 255, 256, 65535, 65536, 16777215, 16777216, 0xFFFFFFFF}
	for _, v := range cases {
		buf, n := EncodeUnsignedValue(nil, v)
		if len(buf) != n {
			t.Fatalf("value %d: buffer length %d != octet count %d", v, len(buf), n)
		}
		got, err := DecodeUnsignedValue(buf, n)
		if err != nil {
			t.Fatalf("value %d: decode: %v", v, err)
		}
		if got != v {
			t.Fatalf("value %d: got %d", v, got)
		}
	}
}

func TestSignedValueRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, -128, 128, -129, 32767, -32768, 8388607, -8388608, 8388608, -8388609}
	for _, v := range cases {
		buf, n := EncodeSignedValue(nil, v)
		got, err := DecodeSignedValue(buf, n)
		if err != nil {
			t.Fatalf("value %d: decode: %v", v, err)
		}
		if got != v {
			t.Fatalf("value %d: got %d (n=%d buf=% x)", v, got, n, buf)
		}
	}
}

func TestRealValueRoundTrip(t *testing.T) {
	cases := []float32{0, 1.5, -1.5, 3.14159, -273.15}
	for _, v := range cases {
		buf := EncodeRealValue(nil, v)
		got, err := DecodeRealValue(buf)
		if err != nil {
			t.Fatalf("value %v: decode: %v", v, err)
		}
		if got != v {
			t.Fatalf("value %v: got %v", v, got)
		}
	}
}

func TestDoubleValueRoundTrip(t *testing.T) {
	v := 1234.56789
	buf := EncodeDoubleValue(nil, v)
	got, err := DecodeDoubleValue(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != v {
		t.Fatalf("got %v, want %v", got, v)
	}
}

func TestCharacterStringRoundTrip(t *testing.T) {
	s := "hello, bacnet"
	buf := EncodeCharacterStringValue(nil, s)
	got, charset, err := DecodeCharacterStringValue(buf, len(buf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != s {
		t.Fatalf("got %q, want %q", got, s)
	}
	if charset != characterStringCharsetUTF8 {
		t.Fatalf("got charset %d, want %d", charset, characterStringCharsetUTF8)
	}
}

func TestCharacterStringPreservesNonUTF8Charset(t *testing.T) {
	buf := []byte{4, 'x', 0} // charset 4 = UCS-2, content left untranscoded
	got, charset, err := DecodeCharacterStringValue(buf, len(buf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if charset != 4 {
		t.Fatalf("got charset %d, want 4", charset)
	}
	if got != "x\x00" {
		t.Fatalf("got %q", got)
	}
}

func TestCharacterStringTruncatedMissingCharsetOctet(t *testing.T) {
	if _, _, err := DecodeCharacterStringValue(nil, 0); err == nil {
		t.Fatal("expected error for a length with no room for the charset octet")
	}
}

func TestBitStringRoundTrip(t *testing.T) {
	cases := [][]bool{
		{},
		{true},
		{true, false, true, false},
		{true, false, true, false, true, false, true, false, true},
	}
	for _, bits := range cases {
		buf := EncodeBitStringValue(nil, BitString{Bits: bits})
		got, err := DecodeBitStringValue(buf, len(buf))
		if err != nil {
			t.Fatalf("bits %v: decode: %v", bits, err)
		}
		if len(got.Bits) != len(bits) {
			t.Fatalf("bits %v: got %v", bits, got.Bits)
		}
		for i := range bits {
			if got.Bits[i] != bits[i] {
				t.Fatalf("bits %v: mismatch at %d: got %v", bits, i, got.Bits)
			}
		}
	}
}

func TestStatusFlagsRoundTrip(t *testing.T) {
	sf := StatusFlags{InAlarm: true, Fault: false, Overridden: true, OutOfService: false}
	bs := sf.Encode()
	got := DecodeStatusFlags(bs)
	if got != sf {
		t.Fatalf("got %+v, want %+v", got, sf)
	}
}

func TestDateRoundTrip(t *testing.T) {
	d := Date{Year: 2026, Month: 7, Day: 30, Weekday: 4}
	buf := EncodeDateValue(nil, d)
	got, err := DecodeDateValue(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != d {
		t.Fatalf("got %+v, want %+v", got, d)
	}
}

func TestDateAnyYear(t *testing.T) {
	d := Date{Year: 0, Month: dateAny, Day: dateAny, Weekday: dateAny}
	buf := EncodeDateValue(nil, d)
	got, err := DecodeDateValue(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Year != 0 {
		t.Fatalf("got year %d, want 0 (any)", got.Year)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	tm := Time{Hour: 13, Minute: 5, Second: 59, Hundredths: 99}
	buf := EncodeTimeValue(nil, tm)
	got, err := DecodeTimeValue(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != tm {
		t.Fatalf("got %+v, want %+v", got, tm)
	}
}
