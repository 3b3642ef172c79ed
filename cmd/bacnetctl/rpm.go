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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeoscada/bacnet-codec/bacnet"
)

var (
	rpmDevice     string
	rpmObject     string
	rpmProperties []string
	rpmTimeout    time.Duration
)

var rpmCmd = &cobra.Command{
	Use:   "rpm",
	Short: "Issue a ReadPropertyMultiple-Request against a live device",
	RunE: func(cmd *cobra.Command, args []string) error {
		objID, err := parseObjectIdentifier(rpmObject)
		if err != nil {
			return err
		}
		refs := make([]bacnet.PropertyReference, 0, len(rpmProperties))
		for _, name := range rpmProperties {
			prop, err := parsePropertyIdentifier(name)
			if err != nil {
				return err
			}
			refs = append(refs, bacnet.PropertyReference{Property: prop})
		}

		link, err := newDefaultLink()
		if err != nil {
			return err
		}
		defer link.Close()

		dest, err := resolveDevice(rpmDevice)
		if err != nil {
			return err
		}

		const invokeID = 3
		apdu := bacnet.EncodeConfirmedRequest(nil, bacnet.ConfirmedRequest{
			SegmentedResponseAccepted: true,
			MaxAPDUEncoded:            bacnet.EncodingFromMaxAPDUSize(maxAPDU),
			InvokeID:                  invokeID,
			Service:                   bacnet.ServiceConfirmedReadPropertyMultiple,
			ServiceData: bacnet.EncodeReadPropertyMultipleRequest(nil, bacnet.ReadPropertyMultipleRequest{
				Specs: []bacnet.ReadAccessSpec{{ObjectID: objID, Properties: refs}},
			}),
		})

		reply, err := sendConfirmed(link, dest, apdu, rpmTimeout)
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
			ack, err := bacnet.DecodeReadPropertyMultipleAck(ca.ServiceData)
			if err != nil {
				return err
			}
			for _, res := range ack.Results {
				fmt.Printf("%s:\n", res.ObjectID)
				for _, pr := range res.Results {
					if pr.Err != nil {
						fmt.Printf("  %s: error %s\n", pr.Property, pr.Err)
						continue
					}
					var parts []string
					for _, v := range pr.Values {
						parts = append(parts, formatValue(v))
					}
					fmt.Printf("  %s: %s\n", pr.Property, strings.Join(parts, ","))
				}
			}
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

func init() {
	rpmCmd.Flags().StringVar(&rpmDevice, "device", "", "device address host:port")
	rpmCmd.Flags().StringVar(&rpmObject, "object", "", "object reference, e.g. device:1001")
	rpmCmd.Flags().StringSliceVar(&rpmProperties, "properties", []string{"all"}, "comma-separated property names")
	rpmCmd.Flags().DurationVar(&rpmTimeout, "timeout", 3*time.Second, "reply wait timeout")
	rpmCmd.MarkFlagRequired("object")
	rootCmd.AddCommand(rpmCmd)
}
