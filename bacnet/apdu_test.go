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

func TestMaxAPDUEncodingRoundTrip(t *testing.T) {
	for nibble := uint8(0); nibble < 6; nibble++ {
		size := MaxAPDUSizeFromEncoding(nibble)
		if got := EncodingFromMaxAPDUSize(size); got != nibble {
			t.Fatalf("nibble %d: size %d encodes back to %d", nibble, size, got)
		}
	}
}

func TestEncodingFromMaxAPDUSizeRoundsUp(t *testing.T) {
	if got := EncodingFromMaxAPDUSize(100); got != 1 {
		t.Fatalf("got nibble %d, want 1 (128)", got)
	}
	if got := EncodingFromMaxAPDUSize(2000); got != 5 {
		t.Fatalf("got nibble %d, want 5 (1476, the largest)", got)
	}
}

func TestConfirmedRequestRoundTripUnsegmented(t *testing.T) {
	r := ConfirmedRequest{
		SegmentedResponseAccepted: true,
		MaxAPDUEncoded:            EncodingFromMaxAPDUSize(1476),
		InvokeID:                  7,
		Service:                   ServiceConfirmedReadProperty,
		ServiceData:               []byte{0x01, 0x02, 0x03},
	}
	buf := EncodeConfirmedRequest(nil, r)
	got, err := DecodeConfirmedRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.InvokeID != r.InvokeID || got.Service != r.Service || got.Segmented {
		t.Fatalf("got %+v", got)
	}
	if string(got.ServiceData) != string(r.ServiceData) {
		t.Fatalf("service data mismatch: got % x", got.ServiceData)
	}
}

func TestConfirmedRequestRoundTripSegmented(t *testing.T) {
	r := ConfirmedRequest{
		Segmented:          true,
		MoreFollows:        true,
		MaxAPDUEncoded:     3,
		InvokeID:           9,
		SequenceNumber:     2,
		ProposedWindowSize: 4,
		Service:            ServiceConfirmedReadPropertyMultiple,
		ServiceData:        []byte{0xAB},
	}
	buf := EncodeConfirmedRequest(nil, r)
	got, err := DecodeConfirmedRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Segmented || !got.MoreFollows || got.SequenceNumber != 2 || got.ProposedWindowSize != 4 {
		t.Fatalf("got %+v", got)
	}
}

func TestUnconfirmedRequestRoundTrip(t *testing.T) {
	r := UnconfirmedRequest{Service: ServiceUnconfirmedWhoIs, ServiceData: []byte{1, 2}}
	buf := EncodeUnconfirmedRequest(nil, r)
	got, err := DecodeUnconfirmedRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Service != r.Service {
		t.Fatalf("got %+v", got)
	}
}

func TestSimpleAckRoundTrip(t *testing.T) {
	a := SimpleAck{InvokeID: 5, Service: ServiceConfirmedWriteProperty}
	buf := EncodeSimpleAck(nil, a)
	got, err := DecodeSimpleAck(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != a {
		t.Fatalf("got %+v, want %+v", got, a)
	}
}

func TestComplexAckRoundTrip(t *testing.T) {
	a := ComplexAck{InvokeID: 6, Service: ServiceConfirmedReadProperty, ServiceData: []byte{0x0C}}
	buf := EncodeComplexAck(nil, a)
	got, err := DecodeComplexAck(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.InvokeID != a.InvokeID || got.Service != a.Service || string(got.ServiceData) != string(a.ServiceData) {
		t.Fatalf("got %+v", got)
	}
}

func TestErrorPDURoundTrip(t *testing.T) {
	buf := EncodeErrorPDU(nil, 11, ServiceConfirmedReadProperty, ErrorClassObject, ErrorCodeUnknownObject)
	got, err := DecodeErrorPDU(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.InvokeID != 11 || got.Service != ServiceConfirmedReadProperty {
		t.Fatalf("got %+v", got)
	}
	if got.Err.Class != ErrorClassObject || got.Err.Code != ErrorCodeUnknownObject {
		t.Fatalf("got error %+v", got.Err)
	}
}

func TestRejectPDURoundTrip(t *testing.T) {
	buf := EncodeRejectPDU(nil, 3, RejectReasonInvalidTag)
	got, err := DecodeRejectPDU(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.InvokeID != 3 || got.Reason != RejectReasonInvalidTag {
		t.Fatalf("got %+v", got)
	}
}

func TestAbortPDURoundTrip(t *testing.T) {
	buf := EncodeAbortPDU(nil, 4, true, AbortReasonSegmentationNotSupported)
	got, err := DecodeAbortPDU(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.InvokeID != 4 || !got.Server || got.Reason != AbortReasonSegmentationNotSupported {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodePDUType(t *testing.T) {
	buf := EncodeSimpleAck(nil, SimpleAck{InvokeID: 1, Service: ServiceConfirmedReadProperty})
	got, err := DecodePDUType(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != PDUTypeSimpleAck {
		t.Fatalf("got %s, want simple-ack", got)
	}
}
