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

import (
	"errors"
	"log/slog"
	"time"

	"github.com/edgeoscada/bacnet-codec/bacnet/pool"
)

// Handlers glues decoded confirmed-request service data to an
// ObjectDatabase, producing the Simple-Ack/Complex-Ack/Error/Reject/
// Abort APDU bytes to send back.
type Handlers struct {
	DB      ObjectDatabase
	MaxAPDU int
	Logger  *slog.Logger
	Metrics *Metrics

	arena *pool.Arena
}

// NewHandlers builds a Handlers bound to db, building responses no
// larger than maxAPDU octets. A nil logger is replaced with
// slog.Default().
func NewHandlers(db ObjectDatabase, maxAPDU int, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{DB: db, MaxAPDU: maxAPDU, Logger: logger, Metrics: NewMetrics(), arena: pool.New(maxAPDU)}
}

// Dispatch decodes and runs the confirmed request cr carries, applying
// the segmentation and decode-failure policy common to every
// confirmed service before handing off to the specific handler:
//   - a segmented request aborts with SEGMENTATION_NOT_SUPPORTED,
//     since this codec's handler skeleton does not reassemble segments
//   - a request this codec does not recognize rejects with
//     UNRECOGNIZED_SERVICE, preserving the service choice rather than
//     aborting the session over it
func (h *Handlers) Dispatch(cr ConfirmedRequest) []byte {
	if cr.Segmented {
		h.Metrics.RequestsAborted.Inc()
		buf := h.arena.Get()
		return EncodeAbortPDU(buf, cr.InvokeID, true, AbortReasonSegmentationNotSupported)
	}

	switch cr.Service {
	case ServiceConfirmedReadProperty:
		return h.HandleReadProperty(cr.InvokeID, cr.ServiceData)
	case ServiceConfirmedReadPropertyMultiple:
		return h.HandleReadPropertyMultiple(cr.InvokeID, cr.ServiceData)
	case ServiceConfirmedWriteProperty:
		return h.HandleWriteProperty(cr.InvokeID, cr.ServiceData)
	default:
		h.Metrics.RequestsRejected.Inc()
		buf := h.arena.Get()
		return EncodeRejectPDU(buf, cr.InvokeID, RejectReasonUnrecognizedService)
	}
}

// bacnetErrorOrAbort classifies err: a *BACnetError becomes an Error
// PDU naming its class/code; anything else (a malformed request we
// could not even decode) becomes an Abort(OTHER), since there is no
// well-formed request to name in an Error PDU's echoed service choice.
func (h *Handlers) bacnetErrorOrAbort(buf []byte, invokeID uint8, service ConfirmedServiceChoice, err error) []byte {
	var bacErr *BACnetError
	if errors.As(err, &bacErr) {
		return EncodeErrorPDU(buf, invokeID, service, bacErr.Class, bacErr.Code)
	}
	h.Metrics.RequestsAborted.Inc()
	return EncodeAbortPDU(buf, invokeID, true, AbortReasonOther)
}

// HandleReadProperty decodes a ReadProperty-Request and returns the
// Complex-Ack, Error, or Abort APDU to send back.
func (h *Handlers) HandleReadProperty(invokeID uint8, requestData []byte) []byte {
	buf := h.arena.Get()
	decodeStart := time.Now()
	req, err := DecodeReadPropertyRequest(requestData)
	h.Metrics.DecodeLatency.Observe(time.Since(decodeStart).Nanoseconds())
	if err != nil {
		h.Logger.Debug("read-property request decode failed", slog.String("error", err.Error()))
		h.Metrics.RequestsAborted.Inc()
		return EncodeAbortPDU(buf, invokeID, true, AbortReasonOther)
	}
	h.Metrics.RequestsDecoded.Inc()
	h.Metrics.ReadPropertyCalls.Inc()

	values, err := h.DB.EncodeProperty(req.ObjectID, req.Property, req.ArrayIndex)
	if err != nil {
		h.Logger.Debug("read-property failed",
			slog.String("object", req.ObjectID.String()),
			slog.String("property", req.Property.String()),
			slog.String("error", err.Error()))
		return h.bacnetErrorOrAbort(buf, invokeID, ServiceConfirmedReadProperty, err)
	}

	serviceData := EncodeReadPropertyAck(nil, ReadPropertyAck{
		ObjectID:   req.ObjectID,
		Property:   req.Property,
		ArrayIndex: req.ArrayIndex,
		Values:     values,
	})
	encodeStart := time.Now()
	ack := EncodeComplexAck(buf, ComplexAck{InvokeID: invokeID, Service: ServiceConfirmedReadProperty, ServiceData: serviceData})
	h.Metrics.EncodeLatency.Observe(time.Since(encodeStart).Nanoseconds())
	if len(ack) > h.MaxAPDU {
		h.Metrics.RequestsAborted.Inc()
		return EncodeAbortPDU(buf[:0], invokeID, true, AbortReasonSegmentationNotSupported)
	}
	h.Metrics.ResponsesEncoded.Inc()
	return ack
}

// HandleWriteProperty decodes a WriteProperty-Request and returns the
// Simple-Ack, Error, or Abort APDU to send back.
func (h *Handlers) HandleWriteProperty(invokeID uint8, requestData []byte) []byte {
	buf := h.arena.Get()
	decodeStart := time.Now()
	req, err := DecodeWritePropertyRequest(requestData)
	h.Metrics.DecodeLatency.Observe(time.Since(decodeStart).Nanoseconds())
	if err != nil {
		h.Logger.Debug("write-property request decode failed", slog.String("error", err.Error()))
		h.Metrics.RequestsAborted.Inc()
		return EncodeAbortPDU(buf, invokeID, true, AbortReasonOther)
	}
	h.Metrics.RequestsDecoded.Inc()
	h.Metrics.WritePropertyCalls.Inc()

	priority := uint8(16)
	if req.Priority != nil {
		priority = *req.Priority
	}
	if err := h.DB.WriteProperty(req.ObjectID, req.Property, req.ArrayIndex, req.Values, priority); err != nil {
		h.Logger.Debug("write-property failed",
			slog.String("object", req.ObjectID.String()),
			slog.String("property", req.Property.String()),
			slog.String("error", err.Error()))
		return h.bacnetErrorOrAbort(buf, invokeID, ServiceConfirmedWriteProperty, err)
	}

	ack := EncodeSimpleAck(buf, SimpleAck{InvokeID: invokeID, Service: ServiceConfirmedWriteProperty})
	h.Metrics.ResponsesEncoded.Inc()
	return ack
}
