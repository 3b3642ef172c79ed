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
)

// HandleReadPropertyMultiple decodes a ReadPropertyMultiple-Request
// and returns the Complex-Ack or Abort APDU to send back.
//
// Each requested property is read independently: a read failure on one
// property becomes a per-property error result inside the ack (not a
// whole-request failure), except that an unsupported or unknown object
// still fails every property reference for that object the same way,
// since there is nothing to expand PropertyAll/PropertyRequired/
// PropertyOptional against without a registered property list.
//
// If the assembled ack would exceed the negotiated max-APDU, the
// partial ack built so far is discarded and the request aborts with
// SEGMENTATION_NOT_SUPPORTED rather than returning a truncated ack.
func (h *Handlers) HandleReadPropertyMultiple(invokeID uint8, requestData []byte) []byte {
	buf := h.arena.Get()
	decodeStart := time.Now()
	req, err := DecodeReadPropertyMultipleRequest(requestData)
	h.Metrics.DecodeLatency.Observe(time.Since(decodeStart).Nanoseconds())
	if err != nil {
		h.Logger.Debug("rpm request decode failed", slog.String("error", err.Error()))
		h.Metrics.RequestsAborted.Inc()
		return EncodeAbortPDU(buf, invokeID, true, AbortReasonOther)
	}
	h.Metrics.RequestsDecoded.Inc()
	h.Metrics.ReadPropertyMultipleCalls.Inc()

	var ack ReadPropertyMultipleAck
	for _, spec := range req.Specs {
		result := ReadAccessResult{ObjectID: spec.ObjectID}

		propList, hasList := h.DB.PropertyLists(spec.ObjectID.Type)
		if !hasList {
			for _, ref := range spec.Properties {
				result.Results = append(result.Results, PropertyResult{
					Property:   ref.Property,
					ArrayIndex: ref.ArrayIndex,
					Err:        NewBACnetError(ErrorClassObject, ErrorCodeUnsupportedObjectType),
				})
			}
			ack.Results = append(ack.Results, result)
			continue
		}

		for _, ref := range spec.Properties {
			for _, prop := range ExpandPropertyReference(propList, ref.Property) {
				values, err := h.DB.EncodeProperty(spec.ObjectID, prop, ref.ArrayIndex)
				if err != nil {
					var bacErr *BACnetError
					if !errors.As(err, &bacErr) {
						bacErr = NewBACnetError(ErrorClassProperty, ErrorCodeOther)
					}
					result.Results = append(result.Results, PropertyResult{
						Property:   prop,
						ArrayIndex: ref.ArrayIndex,
						Err:        bacErr,
					})
					continue
				}
				result.Results = append(result.Results, PropertyResult{
					Property:   prop,
					ArrayIndex: ref.ArrayIndex,
					Values:     values,
				})
			}
		}
		ack.Results = append(ack.Results, result)
	}

	serviceData := EncodeReadPropertyMultipleAck(nil, ack)
	encodeStart := time.Now()
	complexAck := EncodeComplexAck(buf, ComplexAck{InvokeID: invokeID, Service: ServiceConfirmedReadPropertyMultiple, ServiceData: serviceData})
	h.Metrics.EncodeLatency.Observe(time.Since(encodeStart).Nanoseconds())
	if len(complexAck) > h.MaxAPDU {
		h.Logger.Debug("rpm ack exceeds max-apdu, aborting", slog.Int("ack_len", len(complexAck)), slog.Int("max_apdu", h.MaxAPDU))
		h.Metrics.RequestsAborted.Inc()
		return EncodeAbortPDU(buf[:0], invokeID, true, AbortReasonSegmentationNotSupported)
	}
	h.Metrics.ResponsesEncoded.Inc()
	return complexAck
}
