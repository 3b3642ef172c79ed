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

// AtomicReadFileRequest is a decoded AtomicReadFile-Request service,
// per ASHRAE 135 Clause 14.1. This codec implements the stream-access
// form only; record-access (the other CHOICE arm) is not supported.
type AtomicReadFileRequest struct {
	FileID              ObjectIdentifier
	StartPosition       int32
	RequestedOctetCount uint32
}

// EncodeAtomicReadFileRequest appends an AtomicReadFile-Request
// service payload.
func EncodeAtomicReadFileRequest(buf []byte, r AtomicReadFileRequest) []byte {
	buf = EncodeApplicationObjectIdentifier(buf, r.FileID)
	buf = EncodeOpeningTag(buf, 0)
	buf = EncodeApplicationSigned(buf, r.StartPosition)
	buf = EncodeApplicationUnsigned(buf, r.RequestedOctetCount)
	buf = EncodeClosingTag(buf, 0)
	return buf
}

// DecodeAtomicReadFileRequest decodes an AtomicReadFile-Request
// service payload. ErrSegmentationNotSupported is returned for the
// record-access CHOICE arm (opening tag 1), since this codec has no
// record-access file object to serve it.
func DecodeAtomicReadFileRequest(data []byte) (AtomicReadFileRequest, error) {
	var r AtomicReadFileRequest
	v, n, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagObjectID {
		return r, fmt.Errorf("%w: atomic-read-file file-identifier", ErrInvalidTag)
	}
	r.FileID = v.ObjectID
	data = data[n:]

	if PeekIsOpeningTag(data, 1) {
		return r, fmt.Errorf("%w: atomic-read-file record access not supported", ErrSegmentationNotSupported)
	}
	if !PeekIsOpeningTag(data, 0) {
		return r, fmt.Errorf("%w: atomic-read-file missing stream-access opening tag", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return r, err
	}
	data = data[tag.HeaderLen:]

	v, n, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagSignedInt {
		return r, fmt.Errorf("%w: atomic-read-file file-start-position", ErrInvalidTag)
	}
	r.StartPosition = v.Signed
	data = data[n:]

	v, _, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagUnsignedInt {
		return r, fmt.Errorf("%w: atomic-read-file requested-octet-count", ErrInvalidTag)
	}
	r.RequestedOctetCount = v.Unsigned
	return r, nil
}

// AtomicReadFileAck is a decoded AtomicReadFile-ACK (stream-access
// form).
type AtomicReadFileAck struct {
	EndOfFile     bool
	StartPosition int32
	FileData      []byte
}

// EncodeAtomicReadFileAck appends an AtomicReadFile-ACK service
// payload.
func EncodeAtomicReadFileAck(buf []byte, a AtomicReadFileAck) []byte {
	buf = EncodeApplicationBoolean(buf, a.EndOfFile)
	buf = EncodeOpeningTag(buf, 0)
	buf = EncodeApplicationSigned(buf, a.StartPosition)
	buf = EncodeApplicationOctetString(buf, a.FileData)
	buf = EncodeClosingTag(buf, 0)
	return buf
}

// DecodeAtomicReadFileAck decodes an AtomicReadFile-ACK service
// payload.
func DecodeAtomicReadFileAck(data []byte) (AtomicReadFileAck, error) {
	var a AtomicReadFileAck
	v, n, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagBoolean {
		return a, fmt.Errorf("%w: atomic-read-file-ack end-of-file", ErrInvalidTag)
	}
	a.EndOfFile = v.Boolean
	data = data[n:]

	if !PeekIsOpeningTag(data, 0) {
		return a, fmt.Errorf("%w: atomic-read-file-ack missing stream-access opening tag", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return a, err
	}
	data = data[tag.HeaderLen:]

	v, n, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagSignedInt {
		return a, fmt.Errorf("%w: atomic-read-file-ack file-start-position", ErrInvalidTag)
	}
	a.StartPosition = v.Signed
	data = data[n:]

	v, _, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagOctetString {
		return a, fmt.Errorf("%w: atomic-read-file-ack file-data", ErrInvalidTag)
	}
	a.FileData = v.OctetString
	return a, nil
}

// AtomicWriteFileRequest is a decoded AtomicWriteFile-Request service
// (stream-access form).
type AtomicWriteFileRequest struct {
	FileID        ObjectIdentifier
	StartPosition int32
	FileData      []byte
}

// EncodeAtomicWriteFileRequest appends an AtomicWriteFile-Request
// service payload.
func EncodeAtomicWriteFileRequest(buf []byte, r AtomicWriteFileRequest) []byte {
	buf = EncodeApplicationObjectIdentifier(buf, r.FileID)
	buf = EncodeOpeningTag(buf, 0)
	buf = EncodeApplicationSigned(buf, r.StartPosition)
	buf = EncodeApplicationOctetString(buf, r.FileData)
	buf = EncodeClosingTag(buf, 0)
	return buf
}

// DecodeAtomicWriteFileRequest decodes an AtomicWriteFile-Request
// service payload.
func DecodeAtomicWriteFileRequest(data []byte) (AtomicWriteFileRequest, error) {
	var r AtomicWriteFileRequest
	v, n, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagObjectID {
		return r, fmt.Errorf("%w: atomic-write-file file-identifier", ErrInvalidTag)
	}
	r.FileID = v.ObjectID
	data = data[n:]

	if PeekIsOpeningTag(data, 1) {
		return r, fmt.Errorf("%w: atomic-write-file record access not supported", ErrSegmentationNotSupported)
	}
	if !PeekIsOpeningTag(data, 0) {
		return r, fmt.Errorf("%w: atomic-write-file missing stream-access opening tag", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return r, err
	}
	data = data[tag.HeaderLen:]

	v, n, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagSignedInt {
		return r, fmt.Errorf("%w: atomic-write-file file-start-position", ErrInvalidTag)
	}
	r.StartPosition = v.Signed
	data = data[n:]

	v, _, err = DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagOctetString {
		return r, fmt.Errorf("%w: atomic-write-file file-data", ErrInvalidTag)
	}
	r.FileData = v.OctetString
	return r, nil
}

// AtomicWriteFileAck is a decoded AtomicWriteFile-ACK (stream-access
// form).
type AtomicWriteFileAck struct {
	StartPosition int32
}

// EncodeAtomicWriteFileAck appends an AtomicWriteFile-ACK service
// payload.
func EncodeAtomicWriteFileAck(buf []byte, a AtomicWriteFileAck) []byte {
	buf = EncodeOpeningTag(buf, 0)
	buf = EncodeApplicationSigned(buf, a.StartPosition)
	buf = EncodeClosingTag(buf, 0)
	return buf
}

// DecodeAtomicWriteFileAck decodes an AtomicWriteFile-ACK service
// payload.
func DecodeAtomicWriteFileAck(data []byte) (AtomicWriteFileAck, error) {
	var a AtomicWriteFileAck
	if !PeekIsOpeningTag(data, 0) {
		return a, fmt.Errorf("%w: atomic-write-file-ack missing stream-access opening tag", ErrInvalidTag)
	}
	tag, err := DecodeTag(data, len(data))
	if err != nil {
		return a, err
	}
	data = data[tag.HeaderLen:]

	v, _, err := DecodeApplicationValue(data, len(data))
	if err != nil || v.Tag != ApplicationTagSignedInt {
		return a, fmt.Errorf("%w: atomic-write-file-ack file-start-position", ErrInvalidTag)
	}
	a.StartPosition = v.Signed
	return a, nil
}
