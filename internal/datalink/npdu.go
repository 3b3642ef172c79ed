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

package datalink

import (
	"encoding/binary"
	"fmt"
)

const npduProtocolVersion = 1

// npduControl bit positions, per ASHRAE 135 Clause 6.2.2.
const (
	npduControlNetworkLayerMessage = 0x80
	npduControlDestinationPresent  = 0x20
	npduControlSourcePresent       = 0x08
	npduControlExpectingReply      = 0x04
)

// NPDU is a decoded Network Protocol Data Unit header. APDU holds the
// undecoded application-layer payload when the NPDU carries one
// (NetworkMessageType is nil); the two are mutually exclusive.
type NPDU struct {
	DestinationNetwork *uint16
	DestinationAddress []byte
	SourceNetwork      *uint16
	SourceAddress      []byte
	HopCount           uint8
	ExpectingReply     bool
	NetworkMessageType *uint8
	APDU               []byte
}

// EncodeNPDU appends an NPDU header and n.APDU (or, for a
// network-layer message, no trailing APDU) to buf.
func EncodeNPDU(buf []byte, n NPDU) []byte {
	control := byte(0)
	if n.NetworkMessageType != nil {
		control |= npduControlNetworkLayerMessage
	}
	if n.DestinationNetwork != nil {
		control |= npduControlDestinationPresent
	}
	if n.SourceNetwork != nil {
		control |= npduControlSourcePresent
	}
	if n.ExpectingReply {
		control |= npduControlExpectingReply
	}

	buf = append(buf, npduProtocolVersion, control)

	if n.DestinationNetwork != nil {
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], *n.DestinationNetwork)
		buf = append(buf, tmp[0], tmp[1], byte(len(n.DestinationAddress)))
		buf = append(buf, n.DestinationAddress...)
	}
	if n.SourceNetwork != nil {
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], *n.SourceNetwork)
		buf = append(buf, tmp[0], tmp[1], byte(len(n.SourceAddress)))
		buf = append(buf, n.SourceAddress...)
	}
	if n.DestinationNetwork != nil {
		buf = append(buf, n.HopCount)
	}
	if n.NetworkMessageType != nil {
		buf = append(buf, *n.NetworkMessageType)
		return buf
	}
	return append(buf, n.APDU...)
}

// DecodeNPDU decodes an NPDU header from the front of data.
func DecodeNPDU(data []byte) (NPDU, error) {
	var n NPDU
	if len(data) < 2 {
		return n, fmt.Errorf("datalink: NPDU header needs 2 octets, have %d", len(data))
	}
	control := data[1]
	offset := 2

	if control&npduControlDestinationPresent != 0 {
		if len(data) < offset+3 {
			return n, fmt.Errorf("datalink: NPDU destination specifier truncated")
		}
		net := binary.BigEndian.Uint16(data[offset : offset+2])
		length := int(data[offset+2])
		offset += 3
		if len(data) < offset+length {
			return n, fmt.Errorf("datalink: NPDU destination address truncated")
		}
		n.DestinationNetwork = &net
		n.DestinationAddress = append([]byte(nil), data[offset:offset+length]...)
		offset += length
	}
	if control&npduControlSourcePresent != 0 {
		if len(data) < offset+3 {
			return n, fmt.Errorf("datalink: NPDU source specifier truncated")
		}
		net := binary.BigEndian.Uint16(data[offset : offset+2])
		length := int(data[offset+2])
		offset += 3
		if len(data) < offset+length {
			return n, fmt.Errorf("datalink: NPDU source address truncated")
		}
		n.SourceNetwork = &net
		n.SourceAddress = append([]byte(nil), data[offset:offset+length]...)
		offset += length
	}
	if n.DestinationNetwork != nil {
		if len(data) < offset+1 {
			return n, fmt.Errorf("datalink: NPDU missing hop count")
		}
		n.HopCount = data[offset]
		offset++
	}
	n.ExpectingReply = control&npduControlExpectingReply != 0

	if control&npduControlNetworkLayerMessage != 0 {
		if len(data) < offset+1 {
			return n, fmt.Errorf("datalink: NPDU missing network message type")
		}
		mt := data[offset]
		n.NetworkMessageType = &mt
		return n, nil
	}
	n.APDU = data[offset:]
	return n, nil
}
