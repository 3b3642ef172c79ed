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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeoscada/bacnet-codec/bacnet"
	"github.com/edgeoscada/bacnet-codec/internal/datalink"
)

var decodeFile string

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a raw BACnet/IP capture (BVLC/NPDU/APDU) to text",
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if decodeFile != "" {
			raw, err = os.ReadFile(decodeFile)
			if err != nil {
				return fmt.Errorf("read capture: %w", err)
			}
		} else if len(args) == 1 {
			raw, err = hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("decode hex argument: %w", err)
			}
		} else {
			return fmt.Errorf("provide --file or a hex-encoded argument")
		}

		fn, _, err := datalink.DecodeBVLCHeader(raw)
		if err != nil {
			return fmt.Errorf("decode BVLC header: %w", err)
		}
		fmt.Printf("bvlc function: 0x%02x\n", fn)

		npdu, err := datalink.DecodeNPDU(raw[4:])
		if err != nil {
			return fmt.Errorf("decode NPDU: %w", err)
		}
		if npdu.NetworkMessageType != nil {
			fmt.Printf("npdu: network-layer message type 0x%02x\n", *npdu.NetworkMessageType)
			return nil
		}

		pduType, err := bacnet.DecodePDUType(npdu.APDU)
		if err != nil {
			return fmt.Errorf("decode PDU type: %w", err)
		}
		fmt.Printf("pdu type: %s\n", pduType)

		switch pduType {
		case bacnet.PDUTypeConfirmedRequest:
			cr, err := bacnet.DecodeConfirmedRequest(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  invoke-id: %d\n  service: %s\n  max-apdu: %d\n", cr.InvokeID, cr.Service, cr.MaxAPDU())
		case bacnet.PDUTypeUnconfirmedRequest:
			ur, err := bacnet.DecodeUnconfirmedRequest(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  service: %s\n", ur.Service)
		case bacnet.PDUTypeComplexAck:
			ca, err := bacnet.DecodeComplexAck(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  invoke-id: %d\n  service: %s\n", ca.InvokeID, ca.Service)
		case bacnet.PDUTypeSimpleAck:
			sa, err := bacnet.DecodeSimpleAck(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  invoke-id: %d\n  service: %s\n", sa.InvokeID, sa.Service)
		case bacnet.PDUTypeError:
			de, err := bacnet.DecodeErrorPDU(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  invoke-id: %d\n  service: %s\n  error: %s\n", de.InvokeID, de.Service, de.Err)
		case bacnet.PDUTypeReject:
			re, err := bacnet.DecodeRejectPDU(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  %s\n", re)
		case bacnet.PDUTypeAbort:
			ab, err := bacnet.DecodeAbortPDU(npdu.APDU)
			if err != nil {
				return err
			}
			fmt.Printf("  %s\n", ab)
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringVar(&decodeFile, "file", "", "path to a raw capture file")
	rootCmd.AddCommand(decodeCmd)
}
