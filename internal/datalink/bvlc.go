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

// Package datalink carries BACnet/IP (BVLC + NPDU) framing over UDP.
// It is ambient wiring for the CLI and reference responder, entirely
// separate from the codec core in package bacnet: nothing in bacnet
// imports this package.
package datalink

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// bvlcTypeBACnetIP is the BVLC Type octet for all BACnet/IP messages.
const bvlcTypeBACnetIP = 0x81

// BVLCFunction identifies a BACnet Virtual Link Control message's
// function, per Annex J.
type BVLCFunction uint8

const (
	BVLCFunctionResult               BVLCFunction = 0x00
	BVLCFunctionWriteBroadcastDistributionTable BVLCFunction = 0x01
	BVLCFunctionReadBroadcastDistributionTable  BVLCFunction = 0x02
	BVLCFunctionReadBroadcastDistributionTableAck BVLCFunction = 0x03
	BVLCFunctionForwardedNPDU        BVLCFunction = 0x04
	BVLCFunctionRegisterForeignDevice BVLCFunction = 0x05
	BVLCFunctionReadForeignDeviceTable BVLCFunction = 0x06
	BVLCFunctionReadForeignDeviceTableAck BVLCFunction = 0x07
	BVLCFunctionDeleteForeignDeviceTableEntry BVLCFunction = 0x08
	BVLCFunctionDistributeBroadcastToNetwork BVLCFunction = 0x09
	BVLCFunctionOriginalUnicastNPDU   BVLCFunction = 0x0A
	BVLCFunctionOriginalBroadcastNPDU BVLCFunction = 0x0B
)

var errShortBVLCHeader = errors.New("datalink: BVLC header shorter than 4 octets")

// EncodeBVLCHeader appends a 4-octet BVLC header (type, function,
// total length) for a message whose payload is payloadLen octets.
func EncodeBVLCHeader(buf []byte, function BVLCFunction, payloadLen int) []byte {
	total := uint16(4 + payloadLen)
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], total)
	return append(buf, bvlcTypeBACnetIP, byte(function), tmp[0], tmp[1])
}

// DecodeBVLCHeader decodes the 4-octet BVLC header at the front of
// data, returning the function and the total message length it
// declares.
func DecodeBVLCHeader(data []byte) (BVLCFunction, int, error) {
	if len(data) < 4 {
		return 0, 0, errShortBVLCHeader
	}
	if data[0] != bvlcTypeBACnetIP {
		return 0, 0, fmt.Errorf("datalink: unexpected BVLC type 0x%02x", data[0])
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length > len(data) {
		return 0, 0, fmt.Errorf("datalink: BVLC length %d exceeds received %d octets", length, len(data))
	}
	return BVLCFunction(data[1]), length, nil
}
