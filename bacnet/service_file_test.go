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

func TestAtomicReadFileRequestRoundTrip(t *testing.T) {
	r := AtomicReadFileRequest{
		FileID:              ObjectIdentifier{Type: ObjectTypeFile, Instance: 1},
		StartPosition:       0,
		RequestedOctetCount: 512,
	}
	buf := EncodeAtomicReadFileRequest(nil, r)
	got, err := DecodeAtomicReadFileRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != r {
		t.Fatalf("got %+v, want %+v", got, r)
	}
}

func TestAtomicReadFileRequestRecordAccessUnsupported(t *testing.T) {
	buf := EncodeApplicationObjectIdentifier(nil, ObjectIdentifier{Type: ObjectTypeFile, Instance: 1})
	buf = EncodeOpeningTag(buf, 1)
	buf = EncodeApplicationSigned(buf, 0)
	buf = EncodeApplicationUnsigned(buf, 10)
	buf = EncodeClosingTag(buf, 1)

	_, err := DecodeAtomicReadFileRequest(buf)
	if !errors.Is(err, ErrSegmentationNotSupported) {
		t.Fatalf("got %v, want ErrSegmentationNotSupported", err)
	}
}

func TestAtomicReadFileAckRoundTrip(t *testing.T) {
	a := AtomicReadFileAck{
		EndOfFile:     true,
		StartPosition: 0,
		FileData:      []byte("device log line\n"),
	}
	buf := EncodeAtomicReadFileAck(nil, a)
	got, err := DecodeAtomicReadFileAck(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.EndOfFile != a.EndOfFile || got.StartPosition != a.StartPosition || string(got.FileData) != string(a.FileData) {
		t.Fatalf("got %+v", got)
	}
}

func TestAtomicWriteFileRequestRoundTrip(t *testing.T) {
	r := AtomicWriteFileRequest{
		FileID:        ObjectIdentifier{Type: ObjectTypeFile, Instance: 1},
		StartPosition: 10,
		FileData:      []byte{0x01, 0x02, 0x03},
	}
	buf := EncodeAtomicWriteFileRequest(nil, r)
	got, err := DecodeAtomicWriteFileRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FileID != r.FileID || got.StartPosition != r.StartPosition || string(got.FileData) != string(r.FileData) {
		t.Fatalf("got %+v", got)
	}
}

func TestAtomicWriteFileRequestRecordAccessUnsupported(t *testing.T) {
	buf := EncodeApplicationObjectIdentifier(nil, ObjectIdentifier{Type: ObjectTypeFile, Instance: 1})
	buf = EncodeOpeningTag(buf, 1)
	buf = EncodeApplicationSigned(buf, 0)
	buf = EncodeApplicationOctetString(buf, []byte{0x01})
	buf = EncodeClosingTag(buf, 1)

	_, err := DecodeAtomicWriteFileRequest(buf)
	if !errors.Is(err, ErrSegmentationNotSupported) {
		t.Fatalf("got %v, want ErrSegmentationNotSupported", err)
	}
}

func TestAtomicWriteFileAckRoundTrip(t *testing.T) {
	a := AtomicWriteFileAck{StartPosition: 10}
	buf := EncodeAtomicWriteFileAck(nil, a)
	got, err := DecodeAtomicWriteFileAck(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != a {
		t.Fatalf("got %+v, want %+v", got, a)
	}
}
