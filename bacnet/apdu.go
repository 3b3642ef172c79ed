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

// maxAPDUSizes maps the 4-bit max-apdu-length-accepted encoding nibble
// to the octet size it represents (ASHRAE 135 Clause 20.1.2.5).
var maxAPDUSizes = [6]int{50, 128, 206, 480, 1024, 1476}

// MaxAPDUSizeFromEncoding converts a max-apdu-length-accepted nibble
// (0-5) to the octet size it represents. Unknown nibbles return 50,
// the minimum size every BACnet device must accept.
func MaxAPDUSizeFromEncoding(nibble uint8) int {
	if int(nibble) < len(maxAPDUSizes) {
		return maxAPDUSizes[nibble]
	}
	return maxAPDUSizes[0]
}

// EncodingFromMaxAPDUSize converts an octet size to the smallest
// max-apdu-length-accepted nibble that can hold it.
func EncodingFromMaxAPDUSize(size int) uint8 {
	for i, s := range maxAPDUSizes {
		if size <= s {
			return uint8(i)
		}
	}
	return uint8(len(maxAPDUSizes) - 1)
}

// ConfirmedRequest is a decoded Confirmed-Request APDU header plus its
// undecoded service-data payload.
type ConfirmedRequest struct {
	Segmented                 bool
	MoreFollows                bool
	SegmentedResponseAccepted bool
	MaxSegmentsEncoded        uint8
	MaxAPDUEncoded            uint8
	InvokeID                  uint8
	SequenceNumber            uint8
	ProposedWindowSize        uint8
	Service                   ConfirmedServiceChoice
	ServiceData               []byte
}

// MaxAPDU returns the negotiated max-APDU size in octets.
func (r ConfirmedRequest) MaxAPDU() int { return MaxAPDUSizeFromEncoding(r.MaxAPDUEncoded) }

// EncodeConfirmedRequest appends a Confirmed-Request APDU header and
// serviceData.
func EncodeConfirmedRequest(buf []byte, r ConfirmedRequest) []byte {
	control := byte(PDUTypeConfirmedRequest) << 4
	if r.Segmented {
		control |= 0x08
	}
	if r.MoreFollows {
		control |= 0x04
	}
	if r.SegmentedResponseAccepted {
		control |= 0x02
	}
	buf = append(buf, control)
	buf = append(buf, r.MaxSegmentsEncoded<<4|r.MaxAPDUEncoded)
	buf = append(buf, r.InvokeID)
	if r.Segmented {
		buf = append(buf, r.SequenceNumber, r.ProposedWindowSize)
	}
	buf = append(buf, byte(r.Service))
	return append(buf, r.ServiceData...)
}

// DecodeConfirmedRequest decodes a Confirmed-Request APDU from data
// (data[0]'s top nibble must already be PDUTypeConfirmedRequest).
func DecodeConfirmedRequest(data []byte) (ConfirmedRequest, error) {
	if len(data) < 4 {
		return ConfirmedRequest{}, fmt.Errorf("%w: confirmed-request header needs 4 octets", ErrTruncated)
	}
	control := data[0]
	r := ConfirmedRequest{
		Segmented:                 control&0x08 != 0,
		MoreFollows:                control&0x04 != 0,
		SegmentedResponseAccepted: control&0x02 != 0,
		MaxSegmentsEncoded:        data[1] >> 4,
		MaxAPDUEncoded:            data[1] & 0x0F,
		InvokeID:                  data[2],
	}
	offset := 3
	if r.Segmented {
		if len(data) < offset+2 {
			return ConfirmedRequest{}, fmt.Errorf("%w: segmented confirmed-request needs sequence/window octets", ErrTruncated)
		}
		r.SequenceNumber = data[offset]
		r.ProposedWindowSize = data[offset+1]
		offset += 2
	}
	if len(data) < offset+1 {
		return ConfirmedRequest{}, fmt.Errorf("%w: confirmed-request missing service choice", ErrTruncated)
	}
	r.Service = ConfirmedServiceChoice(data[offset])
	offset++
	r.ServiceData = data[offset:]
	return r, nil
}

// UnconfirmedRequest is a decoded Unconfirmed-Request APDU header plus
// its undecoded service-data payload.
type UnconfirmedRequest struct {
	Service     UnconfirmedServiceChoice
	ServiceData []byte
}

// EncodeUnconfirmedRequest appends an Unconfirmed-Request APDU header
// and serviceData.
func EncodeUnconfirmedRequest(buf []byte, r UnconfirmedRequest) []byte {
	buf = append(buf, byte(PDUTypeUnconfirmedRequest)<<4)
	buf = append(buf, byte(r.Service))
	return append(buf, r.ServiceData...)
}

// DecodeUnconfirmedRequest decodes an Unconfirmed-Request APDU.
func DecodeUnconfirmedRequest(data []byte) (UnconfirmedRequest, error) {
	if len(data) < 2 {
		return UnconfirmedRequest{}, fmt.Errorf("%w: unconfirmed-request header needs 2 octets", ErrTruncated)
	}
	return UnconfirmedRequest{Service: UnconfirmedServiceChoice(data[1]), ServiceData: data[2:]}, nil
}

// SimpleAck is a decoded Simple-Ack APDU.
type SimpleAck struct {
	InvokeID uint8
	Service  ConfirmedServiceChoice
}

// EncodeSimpleAck appends a Simple-Ack APDU.
func EncodeSimpleAck(buf []byte, a SimpleAck) []byte {
	buf = append(buf, byte(PDUTypeSimpleAck)<<4)
	return append(buf, a.InvokeID, byte(a.Service))
}

// DecodeSimpleAck decodes a Simple-Ack APDU.
func DecodeSimpleAck(data []byte) (SimpleAck, error) {
	if len(data) < 3 {
		return SimpleAck{}, fmt.Errorf("%w: simple-ack needs 3 octets", ErrTruncated)
	}
	return SimpleAck{InvokeID: data[1], Service: ConfirmedServiceChoice(data[2])}, nil
}

// ComplexAck is a decoded Complex-Ack APDU header plus its undecoded
// service-data payload.
type ComplexAck struct {
	Segmented          bool
	MoreFollows        bool
	InvokeID           uint8
	SequenceNumber     uint8
	ProposedWindowSize uint8
	Service            ConfirmedServiceChoice
	ServiceData        []byte
}

// EncodeComplexAck appends a Complex-Ack APDU header and serviceData.
func EncodeComplexAck(buf []byte, a ComplexAck) []byte {
	control := byte(PDUTypeComplexAck) << 4
	if a.Segmented {
		control |= 0x08
	}
	if a.MoreFollows {
		control |= 0x04
	}
	buf = append(buf, control, a.InvokeID)
	if a.Segmented {
		buf = append(buf, a.SequenceNumber, a.ProposedWindowSize)
	}
	buf = append(buf, byte(a.Service))
	return append(buf, a.ServiceData...)
}

// DecodeComplexAck decodes a Complex-Ack APDU.
func DecodeComplexAck(data []byte) (ComplexAck, error) {
	if len(data) < 3 {
		return ComplexAck{}, fmt.Errorf("%w: complex-ack header needs 3 octets", ErrTruncated)
	}
	control := data[0]
	a := ComplexAck{
		Segmented:   control&0x08 != 0,
		MoreFollows: control&0x04 != 0,
		InvokeID:    data[1],
	}
	offset := 2
	if a.Segmented {
		if len(data) < offset+2 {
			return ComplexAck{}, fmt.Errorf("%w: segmented complex-ack needs sequence/window octets", ErrTruncated)
		}
		a.SequenceNumber = data[offset]
		a.ProposedWindowSize = data[offset+1]
		offset += 2
	}
	if len(data) < offset+1 {
		return ComplexAck{}, fmt.Errorf("%w: complex-ack missing service choice", ErrTruncated)
	}
	a.Service = ConfirmedServiceChoice(data[offset])
	offset++
	a.ServiceData = data[offset:]
	return a, nil
}

// SegmentAck is a decoded Segment-Ack APDU.
type SegmentAck struct {
	NegativeAck      bool
	Server           bool
	InvokeID         uint8
	SequenceNumber   uint8
	ActualWindowSize uint8
}

// EncodeSegmentAck appends a Segment-Ack APDU.
func EncodeSegmentAck(buf []byte, a SegmentAck) []byte {
	control := byte(PDUTypeSegmentAck) << 4
	if a.NegativeAck {
		control |= 0x02
	}
	if a.Server {
		control |= 0x01
	}
	return append(buf, control, a.InvokeID, a.SequenceNumber, a.ActualWindowSize)
}

// DecodeSegmentAck decodes a Segment-Ack APDU.
func DecodeSegmentAck(data []byte) (SegmentAck, error) {
	if len(data) < 4 {
		return SegmentAck{}, fmt.Errorf("%w: segment-ack needs 4 octets", ErrTruncated)
	}
	control := data[0]
	return SegmentAck{
		NegativeAck:      control&0x02 != 0,
		Server:           control&0x01 != 0,
		InvokeID:         data[1],
		SequenceNumber:   data[2],
		ActualWindowSize: data[3],
	}, nil
}

// EncodeErrorPDU appends a BACnet-Error APDU.
func EncodeErrorPDU(buf []byte, invokeID uint8, service ConfirmedServiceChoice, class ErrorClass, code ErrorCode) []byte {
	buf = append(buf, byte(PDUTypeError)<<4, invokeID, byte(service))
	buf = EncodeApplicationEnumerated(buf, uint32(class))
	return EncodeApplicationEnumerated(buf, uint32(code))
}

// decodedError carries the parsed fields of a BACnet-Error APDU.
type decodedError struct {
	InvokeID uint8
	Service  ConfirmedServiceChoice
	Err      *BACnetError
}

// DecodeErrorPDU decodes a BACnet-Error APDU.
func DecodeErrorPDU(data []byte) (decodedError, error) {
	if len(data) < 3 {
		return decodedError{}, fmt.Errorf("%w: error PDU needs 3 octets", ErrTruncated)
	}
	invokeID := data[1]
	service := ConfirmedServiceChoice(data[2])
	rest := data[3:]
	class, n, err := DecodeApplicationValue(rest, len(rest))
	if err != nil {
		return decodedError{}, fmt.Errorf("%w: error class: %v", ErrInvalidTag, err)
	}
	rest = rest[n:]
	code, _, err := DecodeApplicationValue(rest, len(rest))
	if err != nil {
		return decodedError{}, fmt.Errorf("%w: error code: %v", ErrInvalidTag, err)
	}
	return decodedError{
		InvokeID: invokeID,
		Service:  service,
		Err:      NewBACnetError(ErrorClass(class.Enumerated), ErrorCode(code.Enumerated)),
	}, nil
}

// EncodeRejectPDU appends a BACnet-Reject APDU.
func EncodeRejectPDU(buf []byte, invokeID uint8, reason RejectReason) []byte {
	return append(buf, byte(PDUTypeReject)<<4, invokeID, byte(reason))
}

// DecodeRejectPDU decodes a BACnet-Reject APDU.
func DecodeRejectPDU(data []byte) (*RejectError, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: reject PDU needs 3 octets", ErrTruncated)
	}
	return &RejectError{InvokeID: data[1], Reason: RejectReason(data[2])}, nil
}

// EncodeAbortPDU appends a BACnet-Abort APDU.
func EncodeAbortPDU(buf []byte, invokeID uint8, server bool, reason AbortReason) []byte {
	control := byte(PDUTypeAbort) << 4
	if server {
		control |= 0x01
	}
	return append(buf, control, invokeID, byte(reason))
}

// DecodeAbortPDU decodes a BACnet-Abort APDU.
func DecodeAbortPDU(data []byte) (*AbortError, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: abort PDU needs 3 octets", ErrTruncated)
	}
	control := data[0]
	return &AbortError{InvokeID: data[1], Server: control&0x01 != 0, Reason: AbortReason(data[2])}, nil
}

// DecodePDUType peeks at the PDU type nibble without consuming data.
func DecodePDUType(data []byte) (PDUType, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("%w: empty APDU", ErrTruncated)
	}
	return PDUType(data[0] >> 4), nil
}
