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
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edgeoscada/bacnet-codec/bacnet"
	"github.com/edgeoscada/bacnet-codec/internal/datalink"
)

var serveDeviceID uint32
var serveDeviceName string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a reference ReadProperty/WriteProperty/ReadPropertyMultiple responder over BACnet/IP",
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := datalink.NewUDPLink(bindAddr, bcastAddr)
		if err != nil {
			return err
		}
		defer link.Close()

		db := bacnet.NewDatabase(serveDeviceID, serveDeviceName)
		db.AddAnalogInput(1, "Outside Air Temperature", 21.5, bacnet.UnitsDegreesCelsius)
		db.AddAnalogOutput(1, "Supply Fan Speed", 0, bacnet.UnitsPercent)
		db.AddAnalogValue(1, "Setpoint", 22.0, bacnet.UnitsDegreesCelsius)
		db.AddBinaryValue(1, "Occupied", false)

		handlers := bacnet.NewHandlers(db, maxAPDU, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("serving", slog.String("bind", link.LocalAddress().String()),
			slog.Uint64("device", uint64(serveDeviceID)))

		for {
			select {
			case <-ctx.Done():
				snap := handlers.Metrics.Snapshot()
				logger.Info("shutting down",
					slog.Int64("requests_decoded", snap.RequestsDecoded),
					slog.Int64("requests_rejected", snap.RequestsRejected),
					slog.Int64("requests_aborted", snap.RequestsAborted),
					slog.Int64("responses_encoded", snap.ResponsesEncoded))
				return nil
			default:
			}

			payload, from, err := link.Receive(ctx)
			if err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					continue
				}
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("receive failed", slog.String("error", err.Error()))
				continue
			}
			reply := serveHandlePacket(handlers, payload)
			if reply == nil {
				continue
			}
			if err := link.Send(ctx, from, reply); err != nil {
				logger.Warn("send failed", slog.String("error", err.Error()))
			}
		}
	},
}

func serveHandlePacket(handlers *bacnet.Handlers, payload []byte) []byte {
	_, _, err := datalink.DecodeBVLCHeader(payload)
	if err != nil {
		logger.Debug("bad BVLC header", slog.String("error", err.Error()))
		return nil
	}
	npdu, err := datalink.DecodeNPDU(payload[4:])
	if err != nil || npdu.NetworkMessageType != nil {
		return nil
	}

	pduType, err := bacnet.DecodePDUType(npdu.APDU)
	if err != nil || pduType != bacnet.PDUTypeConfirmedRequest {
		return nil
	}
	cr, err := bacnet.DecodeConfirmedRequest(npdu.APDU)
	if err != nil {
		logger.Debug("bad confirmed-request", slog.String("error", err.Error()))
		return nil
	}

	apdu := handlers.Dispatch(cr)
	reply := datalink.EncodeNPDU(nil, datalink.NPDU{})
	reply = append(reply, apdu...)

	var out []byte
	out = datalink.EncodeBVLCHeader(out, 0x0A, len(reply))
	return append(out, reply...)
}

func init() {
	serveCmd.Flags().Uint32Var(&serveDeviceID, "device", 1001, "device object instance number")
	serveCmd.Flags().StringVar(&serveDeviceName, "name", "bacnetctl", "device object name")
	rootCmd.AddCommand(serveCmd)
}
