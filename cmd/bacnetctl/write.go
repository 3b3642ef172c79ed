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
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeoscada/bacnet-codec/bacnet"
)

var (
	writeDevice   string
	writeObject   string
	writeProperty string
	writeValue    string
	writePriority uint8
	writeTimeout  time.Duration
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Issue a WriteProperty-Request against a live device",
	RunE: func(cmd *cobra.Command, args []string) error {
		objID, err := parseObjectIdentifier(writeObject)
		if err != nil {
			return err
		}
		prop, err := parsePropertyIdentifier(writeProperty)
		if err != nil {
			return err
		}
		value, err := parseWriteValue(writeValue)
		if err != nil {
			return err
		}

		link, err := newDefaultLink()
		if err != nil {
			return err
		}
		defer link.Close()

		dest, err := resolveDevice(writeDevice)
		if err != nil {
			return err
		}

		req := bacnet.WritePropertyRequest{ObjectID: objID, Property: prop, Values: []bacnet.Value{value}}
		if cmd.Flags().Changed("priority") {
			if writePriority < 1 || writePriority > 16 {
				return fmt.Errorf("priority must be 1-16")
			}
			req.Priority = &writePriority
		}

		const invokeID = 2
		apdu := bacnet.EncodeConfirmedRequest(nil, bacnet.ConfirmedRequest{
			SegmentedResponseAccepted: true,
			MaxAPDUEncoded:            bacnet.EncodingFromMaxAPDUSize(maxAPDU),
			InvokeID:                  invokeID,
			Service:                   bacnet.ServiceConfirmedWriteProperty,
			ServiceData:               bacnet.EncodeWritePropertyRequest(nil, req),
		})

		reply, err := sendConfirmed(link, dest, apdu, writeTimeout)
		if err != nil {
			return err
		}
		pduType, err := bacnet.DecodePDUType(reply)
		if err != nil {
			return err
		}
		switch pduType {
		case bacnet.PDUTypeSimpleAck:
			fmt.Println("ok")
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

// parseWriteValue accepts "null" or a floating-point real value. It
// produces no Enumerated value, so a Binary Value's present-value
// cannot be written through it.
func parseWriteValue(s string) (bacnet.Value, error) {
	if s == "null" {
		return bacnet.Value{Tag: bacnet.ApplicationTagNull}, nil
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return bacnet.Value{}, fmt.Errorf("value %q must be \"null\" or a real number: %w", s, err)
	}
	return bacnet.Value{Tag: bacnet.ApplicationTagReal, Real: float32(f)}, nil
}

func init() {
	writeCmd.Flags().StringVar(&writeDevice, "device", "", "device address host:port")
	writeCmd.Flags().StringVar(&writeObject, "object", "", "object reference, e.g. analog-output:1")
	writeCmd.Flags().StringVar(&writeProperty, "property", "present-value", "property name")
	writeCmd.Flags().StringVar(&writeValue, "value", "", "value to write: \"null\" or a real number")
	writeCmd.Flags().Uint8Var(&writePriority, "priority", 16, "write priority, 1-16")
	writeCmd.Flags().DurationVar(&writeTimeout, "timeout", 3*time.Second, "reply wait timeout")
	writeCmd.MarkFlagRequired("object")
	writeCmd.MarkFlagRequired("value")
	rootCmd.AddCommand(writeCmd)
}
