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

func TestDecodeApplicationValueEachTag(t *testing.T) {
	cases := []struct {
		name   string
		encode func() []byte
		want   Value
	}{
		{"null", func() []byte { return EncodeApplicationNull(nil) }, Value{Tag: ApplicationTagNull}},
		{"boolean-true", func() []byte { return EncodeApplicationBoolean(nil, true) }, Value{Tag: ApplicationTagBoolean, Boolean: true}},
		{"boolean-false", func() []byte { return EncodeApplicationBoolean(nil, false) }, Value{Tag: ApplicationTagBoolean, Boolean: false}},
		{"unsigned", func() []byte { return EncodeApplicationUnsigned(nil, 4000000000) }, Value{Tag: ApplicationTagUnsignedInt, Unsigned: 4000000000}},
		{"signed", func() []byte { return EncodeApplicationSigned(nil, -12345) }, Value{Tag: ApplicationTagSignedInt, Signed: -12345}},
		{"real", func() []byte { return EncodeApplicationReal(nil, 21.5) }, Value{Tag: ApplicationTagReal, Real: 21.5}},
		{"double", func() []byte { return EncodeApplicationDouble(nil, 98765.4321) }, Value{Tag: ApplicationTagDouble, Double: 98765.4321}},
		{"enumerated", func() []byte { return EncodeApplicationEnumerated(nil, 42) }, Value{Tag: ApplicationTagEnumerated, Enumerated: 42}},
		{"character-string", func() []byte { return EncodeApplicationCharacterString(nil, "setpoint") }, Value{Tag: ApplicationTagCharacterString, CharacterString: "setpoint"}},
		{"object-id", func() []byte {
			return EncodeApplicationObjectIdentifier(nil, ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 7})
		}, Value{Tag: ApplicationTagObjectID, ObjectID: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 7}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := c.encode()
			v, n, err := DecodeApplicationValue(buf, len(buf))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if n != len(buf) {
				t.Fatalf("consumed %d, want %d", n, len(buf))
			}
			if !reflect.DeepEqual(v, c.want) {
				t.Fatalf("got %+v, want %+v", v, c.want)
			}
		})
	}
}

func TestDecodeApplicationValueRejectsContextTag(t *testing.T) {
	buf := EncodeContextUnsigned(nil, 0, 5)
	if _, _, err := DecodeApplicationValue(buf, len(buf)); !errors.Is(err, ErrWrongTag) {
		t.Fatalf("got %v, want ErrWrongTag", err)
	}
}

func TestDecodeApplicationValueTruncatedContent(t *testing.T) {
	buf := EncodeApplicationReal(nil, 1.0)
	if _, _, err := DecodeApplicationValue(buf[:len(buf)-1], len(buf)-1); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

// A character string carrying a charset other than UTF-8 decodes
// successfully, surfacing the charset octet it found rather than
// failing it.
func TestDecodeApplicationValueCharacterStringPreservesCharset(t *testing.T) {
	buf := EncodeTag(nil, uint8(ApplicationTagCharacterString), TagClassApplication, 3)
	buf = append(buf, 4, 'h', 'i') // charset 4 = UCS-2, content left as-is

	v, n, err := DecodeApplicationValue(buf, len(buf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d, want %d", n, len(buf))
	}
	if v.Charset != 4 || v.CharacterString != "hi" {
		t.Fatalf("got %+v", v)
	}
}

func TestContextPrimitiveRoundTrip(t *testing.T) {
	buf := EncodeContextUnsigned(nil, 3, 99)
	v, n, err := DecodeContextUnsigned(buf, 3, len(buf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 99 || n != len(buf) {
		t.Fatalf("got v=%d n=%d", v, n)
	}

	if _, _, err := DecodeContextUnsigned(buf, 4, len(buf)); !errors.Is(err, ErrWrongTag) {
		t.Fatalf("wrong tag number: got %v, want ErrWrongTag", err)
	}
}

func TestContextObjectIdentifierRoundTrip(t *testing.T) {
	objID := ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001}
	buf := EncodeContextObjectIdentifier(nil, 0, objID)
	got, n, err := DecodeContextObjectIdentifier(buf, 0, len(buf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != objID || n != len(buf) {
		t.Fatalf("got %+v n=%d", got, n)
	}
}

func TestContextCharacterStringRoundTrip(t *testing.T) {
	buf := EncodeContextCharacterString(nil, 3, "occupied")
	got, _, err := DecodeContextCharacterString(buf, 3, len(buf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "occupied" {
		t.Fatalf("got %q", got)
	}
}
