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
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeoscada/bacnet-codec/bacnet"
	"github.com/edgeoscada/bacnet-codec/internal/datalink"
)

var (
	readDevice   string
	readObject   string
	readProperty string
	readTimeout  time.Duration
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Issue a ReadProperty-Request against a live device and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		objID, err := parseObjectIdentifier(readObject)
		if err != nil {
			return err
		}
		prop, err := parsePropertyIdentifier(readProperty)
		if err != nil {
			return err
		}

		link, err := datalink.NewUDPLink(bindAddr, bcastAddr)
		if err != nil {
			return err
		}
		defer link.Close()

		dest, err := resolveDevice(readDevice)
		if err != nil {
			return err
		}

		const invokeID = 1
		apdu := bacnet.EncodeConfirmedRequest(nil, bacnet.ConfirmedRequest{
			SegmentedResponseAccepted: true,
			MaxSegmentsEncoded:        0,
			MaxAPDUEncoded:            bacnet.EncodingFromMaxAPDUSize(maxAPDU),
			InvokeID:                  invokeID,
			Service:                   bacnet.ServiceConfirmedReadProperty,
			ServiceData: bacnet.EncodeReadPropertyRequest(nil, bacnet.ReadPropertyRequest{
				ObjectID: objID,
				Property: prop,
			}),
		})

		reply, err := sendConfirmed(link, dest, apdu, readTimeout)
		if err != nil {
			return err
		}

		pduType, err := bacnet.DecodePDUType(reply)
		if err != nil {
			return err
		}
		switch pduType {
		case bacnet.PDUTypeComplexAck:
			ca, err := bacnet.DecodeComplexAck(reply)
			if err != nil {
				return err
			}
			ack, err := bacnet.DecodeReadPropertyAck(ca.ServiceData)
			if err != nil {
				return err
			}
			var parts []string
			for _, v := range ack.Values {
				parts = append(parts, formatValue(v))
			}
			fmt.Println(strings.Join(parts, ","))
			return nil
		case bacnet.PDUTypeError:
			de, err := bacnet.DecodeErrorPDU(reply)
			if err != nil {
				return err
			}
			return de.Err
		case bacnet.PDUTypeReject:
			re, err := bacnet.DecodeRejectPDU(reply)
			if err != nil {
				return err
			}
			return re
		case bacnet.PDUTypeAbort:
			ab, err := bacnet.DecodeAbortPDU(reply)
			if err != nil {
				return err
			}
			return ab
		default:
			return fmt.Errorf("unexpected reply PDU type %s", pduType)
		}
	},
}

// sendConfirmed sends a confirmed-request APDU wrapped in BVLC/NPDU
// framing and waits for the matching reply's APDU bytes.
func sendConfirmed(link *datalink.UDPLink, dest *net.UDPAddr, apdu []byte, timeout time.Duration) ([]byte, error) {
	npdu := datalink.EncodeNPDU(nil, datalink.NPDU{})
	npdu = append(npdu, apdu...)
	packet := datalink.EncodeBVLCHeader(nil, 0x0A, len(npdu))
	packet = append(packet, npdu...)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := link.Send(ctx, dest, packet); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	for {
		payload, _, err := link.Receive(ctx)
		if err != nil {
			return nil, fmt.Errorf("no reply: %w", err)
		}
		if _, _, err := datalink.DecodeBVLCHeader(payload); err != nil {
			continue
		}
		npdu, err := datalink.DecodeNPDU(payload[4:])
		if err != nil || npdu.NetworkMessageType != nil {
			continue
		}
		return npdu.APDU, nil
	}
}

func init() {
	readCmd.Flags().StringVar(&readDevice, "device", "", "device address host:port")
	readCmd.Flags().StringVar(&readObject, "object", "", "object reference, e.g. analog-input:1")
	readCmd.Flags().StringVar(&readProperty, "property", "present-value", "property name")
	readCmd.Flags().DurationVar(&readTimeout, "timeout", 3*time.Second, "reply wait timeout")
	readCmd.MarkFlagRequired("object")
	rootCmd.AddCommand(readCmd)
}
