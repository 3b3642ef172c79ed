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
	"fmt"
)

// Decode error sentinels. Every decoder in this package wraps one of
// these with fmt.Errorf("%w: ...") so callers can errors.Is/As over the
// class of failure without parsing strings.
var (
	ErrTruncated      = errors.New("bacnet: truncated")
	ErrInvalidTag     = errors.New("bacnet: invalid tag")
	ErrWrongTag       = errors.New("bacnet: wrong tag")
	ErrOutOfRange     = errors.New("bacnet: out of range")
	ErrTooManyElements = errors.New("bacnet: too many elements")
)

// Other sentinel errors used outside the tag/primitive decode path.
var (
	ErrSegmentationNotSupported = errors.New("bacnet: segmentation not supported")
	ErrUnrecognizedService      = errors.New("bacnet: unrecognized service choice")
	ErrCOVMultiValueUnsupported = errors.New("bacnet: COV property value carries more than one application-data element")
	ErrDeviceNotFound           = errors.New("bacnet: device not found")
	ErrPropertyNotFound         = errors.New("bacnet: property not found")
	ErrNotConnected             = errors.New("bacnet: not connected")
	ErrAlreadyConnected         = errors.New("bacnet: already connected")
	ErrTimeout                  = errors.New("bacnet: request timeout")
)

// ErrorClass represents BACnet error classes (ASHRAE 135 Clause 21).
type ErrorClass uint8

const (
	ErrorClassDevice        ErrorClass = 0
	ErrorClassObject        ErrorClass = 1
	ErrorClassProperty      ErrorClass = 2
	ErrorClassResources     ErrorClass = 3
	ErrorClassSecurity      ErrorClass = 4
	ErrorClassServices      ErrorClass = 5
	ErrorClassVT            ErrorClass = 6
	ErrorClassCommunication ErrorClass = 7
)

func (e ErrorClass) String() string {
	names := map[ErrorClass]string{
		ErrorClassDevice:        "device",
		ErrorClassObject:        "object",
		ErrorClassProperty:      "property",
		ErrorClassResources:     "resources",
		ErrorClassSecurity:      "security",
		ErrorClassServices:      "services",
		ErrorClassVT:            "vt",
		ErrorClassCommunication: "communication",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-class(%d)", e)
}

// ErrorCode represents BACnet error codes, scoped to the subset this
// codec's handlers and services actually produce or recognize.
type ErrorCode uint8

const (
	ErrorCodeOther                 ErrorCode = 0
	ErrorCodeConfigurationInProgress ErrorCode = 2
	ErrorCodeDeviceBusy            ErrorCode = 3
	ErrorCodeInconsistentParameters ErrorCode = 7
	ErrorCodeInvalidDataType       ErrorCode = 9
	ErrorCodeNoObjectsOfSpecifiedType ErrorCode = 17
	ErrorCodePropertyIsNotAList    ErrorCode = 22
	ErrorCodeObjectDeletionNotPermitted ErrorCode = 23
	ErrorCodeObjectIdentifierAlreadyExists ErrorCode = 24
	ErrorCodeReadAccessDenied      ErrorCode = 27
	ErrorCodeUnknownObject         ErrorCode = 31
	ErrorCodeUnknownProperty       ErrorCode = 32
	ErrorCodeUnsupportedObjectType ErrorCode = 36
	ErrorCodeValueOutOfRange       ErrorCode = 37
	ErrorCodeWriteAccessDenied     ErrorCode = 40
	ErrorCodeCharacterSetNotSupported ErrorCode = 41
	ErrorCodeInvalidArrayIndex     ErrorCode = 42
	ErrorCodeDatatypeNotSupported  ErrorCode = 47
	ErrorCodeUnknownDevice         ErrorCode = 70
	ErrorCodeUnknownRoute          ErrorCode = 71
	ErrorCodeValueTooLong          ErrorCode = 72
)

func (e ErrorCode) String() string {
	names := map[ErrorCode]string{
		ErrorCodeOther:                  "other",
		ErrorCodeConfigurationInProgress: "configuration-in-progress",
		ErrorCodeDeviceBusy:             "device-busy",
		ErrorCodeInconsistentParameters: "inconsistent-parameters",
		ErrorCodeInvalidDataType:        "invalid-data-type",
		ErrorCodeNoObjectsOfSpecifiedType: "no-objects-of-specified-type",
		ErrorCodePropertyIsNotAList:     "property-is-not-a-list",
		ErrorCodeObjectDeletionNotPermitted: "object-deletion-not-permitted",
		ErrorCodeObjectIdentifierAlreadyExists: "object-identifier-already-exists",
		ErrorCodeReadAccessDenied:       "read-access-denied",
		ErrorCodeUnknownObject:          "unknown-object",
		ErrorCodeUnknownProperty:        "unknown-property",
		ErrorCodeUnsupportedObjectType:  "unsupported-object-type",
		ErrorCodeValueOutOfRange:        "value-out-of-range",
		ErrorCodeWriteAccessDenied:      "write-access-denied",
		ErrorCodeCharacterSetNotSupported: "character-set-not-supported",
		ErrorCodeInvalidArrayIndex:      "invalid-array-index",
		ErrorCodeDatatypeNotSupported:   "datatype-not-supported",
		ErrorCodeUnknownDevice:          "unknown-device",
		ErrorCodeUnknownRoute:           "unknown-route",
		ErrorCodeValueTooLong:           "value-too-long",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-code(%d)", e)
}

// BACnetError represents the error-class/error-code pair carried by a
// BACnet-Error PDU.
type BACnetError struct {
	Class ErrorClass
	Code  ErrorCode
}

func (e *BACnetError) Error() string {
	return fmt.Sprintf("bacnet error: class=%s, code=%s", e.Class, e.Code)
}

func (e *BACnetError) Is(target error) bool {
	t, ok := target.(*BACnetError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewBACnetError creates a new BACnetError.
func NewBACnetError(class ErrorClass, code ErrorCode) *BACnetError {
	return &BACnetError{Class: class, Code: code}
}

// RejectReason represents BACnet-Reject reasons.
type RejectReason uint8

const (
	RejectReasonOther                    RejectReason = 0
	RejectReasonBufferOverflow           RejectReason = 1
	RejectReasonInconsistentParameters   RejectReason = 2
	RejectReasonInvalidParameterDataType RejectReason = 3
	RejectReasonInvalidTag               RejectReason = 4
	RejectReasonMissingRequiredParameter RejectReason = 5
	RejectReasonParameterOutOfRange      RejectReason = 6
	RejectReasonTooManyArguments         RejectReason = 7
	RejectReasonUndefinedEnumeration     RejectReason = 8
	RejectReasonUnrecognizedService      RejectReason = 9
)

func (r RejectReason) String() string {
	names := map[RejectReason]string{
		RejectReasonOther:                    "other",
		RejectReasonBufferOverflow:           "buffer-overflow",
		RejectReasonInconsistentParameters:   "inconsistent-parameters",
		RejectReasonInvalidParameterDataType: "invalid-parameter-data-type",
		RejectReasonInvalidTag:               "invalid-tag",
		RejectReasonMissingRequiredParameter: "missing-required-parameter",
		RejectReasonParameterOutOfRange:      "parameter-out-of-range",
		RejectReasonTooManyArguments:         "too-many-arguments",
		RejectReasonUndefinedEnumeration:     "undefined-enumeration",
		RejectReasonUnrecognizedService:      "unrecognized-service",
	}
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("reject-reason(%d)", r)
}

// RejectError represents a decoded BACnet-Reject PDU.
type RejectError struct {
	InvokeID uint8
	Reason   RejectReason
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("bacnet reject: invoke-id=%d, reason=%s", e.InvokeID, e.Reason)
}

// AbortReason represents BACnet-Abort reasons.
type AbortReason uint8

const (
	AbortReasonOther                         AbortReason = 0
	AbortReasonBufferOverflow                AbortReason = 1
	AbortReasonInvalidApduInThisState        AbortReason = 2
	AbortReasonPreemptedByHigherPriorityTask AbortReason = 3
	AbortReasonSegmentationNotSupported      AbortReason = 4
	AbortReasonSecurityError                 AbortReason = 5
	AbortReasonInsufficientSecurity          AbortReason = 6
	AbortReasonWindowSizeOutOfRange          AbortReason = 7
	AbortReasonApplicationExceededReplyTime  AbortReason = 8
	AbortReasonOutOfResources                AbortReason = 9
	AbortReasonTsmTimeout                    AbortReason = 10
	AbortReasonApduTooLong                   AbortReason = 11
)

func (a AbortReason) String() string {
	names := map[AbortReason]string{
		AbortReasonOther:                         "other",
		AbortReasonBufferOverflow:                "buffer-overflow",
		AbortReasonInvalidApduInThisState:        "invalid-apdu-in-this-state",
		AbortReasonPreemptedByHigherPriorityTask: "preempted-by-higher-priority-task",
		AbortReasonSegmentationNotSupported:      "segmentation-not-supported",
		AbortReasonSecurityError:                 "security-error",
		AbortReasonInsufficientSecurity:          "insufficient-security",
		AbortReasonWindowSizeOutOfRange:          "window-size-out-of-range",
		AbortReasonApplicationExceededReplyTime:  "application-exceeded-reply-time",
		AbortReasonOutOfResources:                "out-of-resources",
		AbortReasonTsmTimeout:                    "tsm-timeout",
		AbortReasonApduTooLong:                   "apdu-too-long",
	}
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("abort-reason(%d)", a)
}

// AbortError represents a decoded BACnet-Abort PDU.
type AbortError struct {
	InvokeID uint8
	Server   bool
	Reason   AbortReason
}

func (e *AbortError) Error() string {
	origin := "client"
	if e.Server {
		origin = "server"
	}
	return fmt.Sprintf("bacnet abort: invoke-id=%d, origin=%s, reason=%s", e.InvokeID, origin, e.Reason)
}

// IsAccessDenied returns true if err is a BACnetError carrying a read or
// write access-denied code.
func IsAccessDenied(err error) bool {
	var bacnetErr *BACnetError
	if errors.As(err, &bacnetErr) {
		return bacnetErr.Code == ErrorCodeReadAccessDenied || bacnetErr.Code == ErrorCodeWriteAccessDenied
	}
	return false
}

// IsDeviceNotFound returns true if err indicates an unknown device or
// object.
func IsDeviceNotFound(err error) bool {
	if errors.Is(err, ErrDeviceNotFound) {
		return true
	}
	var bacnetErr *BACnetError
	if errors.As(err, &bacnetErr) {
		return bacnetErr.Code == ErrorCodeUnknownDevice || bacnetErr.Code == ErrorCodeUnknownObject
	}
	return false
}
