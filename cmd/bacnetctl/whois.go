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
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeoscada/bacnet-codec/bacnet"
	"github.com/edgeoscada/bacnet-codec/internal/datalink"
)

var whoisWait time.Duration

var whoisCmd = &cobra.Command{
	Use:   "whois",
	Short: "Broadcast Who-Is and print every I-Am reply received",
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := datalink.NewUDPLink(bindAddr, bcastAddr)
		if err != nil {
			return err
		}
		defer link.Close()

		apdu := bacnet.EncodeUnconfirmedRequest(nil, bacnet.UnconfirmedRequest{
			Service:     bacnet.ServiceUnconfirmedWhoIs,
			ServiceData: bacnet.EncodeWhoIsRequest(nil, bacnet.WhoIsRequest{}),
		})
		npdu := datalink.EncodeNPDU(nil, datalink.NPDU{})
		npdu = append(npdu, apdu...)
		packet := datalink.EncodeBVLCHeader(nil, 0x0B, len(npdu))
		packet = append(packet, npdu...)

		ctx, cancel := context.WithTimeout(context.Background(), whoisWait)
		defer cancel()

		if err := link.Send(ctx, link.BroadcastAddress(), packet); err != nil {
			return fmt.Errorf("send who-is: %w", err)
		}

		for {
			payload, from, err := link.Receive(ctx)
			if err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					return nil
				}
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			printIfIAm(payload, from)
		}
	},
}

func printIfIAm(payload []byte, from *net.UDPAddr) {
	if _, _, err := datalink.DecodeBVLCHeader(payload); err != nil {
		return
	}
	npdu, err := datalink.DecodeNPDU(payload[4:])
	if err != nil || npdu.NetworkMessageType != nil {
		return
	}
	pduType, err := bacnet.DecodePDUType(npdu.APDU)
	if err != nil || pduType != bacnet.PDUTypeUnconfirmedRequest {
		return
	}
	ur, err := bacnet.DecodeUnconfirmedRequest(npdu.APDU)
	if err != nil || ur.Service != bacnet.ServiceUnconfirmedIAm {
		return
	}
	iam, err := bacnet.DecodeIAmRequest(ur.ServiceData)
	if err != nil {
		return
	}
	fmt.Printf("%s: device %s, max-apdu %d, vendor %d\n", from, iam.DeviceID, iam.MaxAPDULengthAccepted, iam.VendorID)
}

func init() {
	whoisCmd.Flags().DurationVar(&whoisWait, "wait", 3*time.Second, "how long to collect I-Am replies")
	rootCmd.AddCommand(whoisCmd)
}
