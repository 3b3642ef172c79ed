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

import "fmt"

// ApplicationTag identifies the primitive application-data types a
// tagged value may carry (ASHRAE 135 Clause 20.2.1).
type ApplicationTag uint8

const (
	ApplicationTagNull ApplicationTag = iota
	ApplicationTagBoolean
	ApplicationTagUnsignedInt
	ApplicationTagSignedInt
	ApplicationTagReal
	ApplicationTagDouble
	ApplicationTagOctetString
	ApplicationTagCharacterString
	ApplicationTagBitString
	ApplicationTagEnumerated
	ApplicationTagDate
	ApplicationTagTime
	ApplicationTagObjectID
)

func (a ApplicationTag) String() string {
	names := map[ApplicationTag]string{
		ApplicationTagNull:            "null",
		ApplicationTagBoolean:         "boolean",
		ApplicationTagUnsignedInt:     "unsigned",
		ApplicationTagSignedInt:       "signed",
		ApplicationTagReal:            "real",
		ApplicationTagDouble:          "double",
		ApplicationTagOctetString:     "octet-string",
		ApplicationTagCharacterString: "character-string",
		ApplicationTagBitString:       "bit-string",
		ApplicationTagEnumerated:      "enumerated",
		ApplicationTagDate:            "date",
		ApplicationTagTime:            "time",
		ApplicationTagObjectID:        "object-identifier",
	}
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("application-tag(%d)", a)
}

// PDUType identifies the APDU's PDU type, carried in the top nibble of
// the first octet.
type PDUType uint8

const (
	PDUTypeConfirmedRequest PDUType = 0
	PDUTypeUnconfirmedRequest PDUType = 1
	PDUTypeSimpleAck        PDUType = 2
	PDUTypeComplexAck       PDUType = 3
	PDUTypeSegmentAck       PDUType = 4
	PDUTypeError            PDUType = 5
	PDUTypeReject           PDUType = 6
	PDUTypeAbort            PDUType = 7
)

func (p PDUType) String() string {
	names := map[PDUType]string{
		PDUTypeConfirmedRequest:   "confirmed-request",
		PDUTypeUnconfirmedRequest: "unconfirmed-request",
		PDUTypeSimpleAck:          "simple-ack",
		PDUTypeComplexAck:         "complex-ack",
		PDUTypeSegmentAck:         "segment-ack",
		PDUTypeError:              "error",
		PDUTypeReject:             "reject",
		PDUTypeAbort:              "abort",
	}
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("pdu-type(%d)", p)
}

// ConfirmedServiceChoice identifies which confirmed service an APDU
// carries (the subset this codec implements).
type ConfirmedServiceChoice uint8

const (
	ServiceConfirmedAcknowledgeAlarm   ConfirmedServiceChoice = 0
	ServiceConfirmedCOVNotification    ConfirmedServiceChoice = 1
	ServiceConfirmedAtomicReadFile     ConfirmedServiceChoice = 6
	ServiceConfirmedAtomicWriteFile    ConfirmedServiceChoice = 7
	ServiceConfirmedReinitializeDevice ConfirmedServiceChoice = 20
	ServiceConfirmedReadProperty       ConfirmedServiceChoice = 12
	ServiceConfirmedReadPropertyMultiple ConfirmedServiceChoice = 14
	ServiceConfirmedWriteProperty      ConfirmedServiceChoice = 15
	ServiceConfirmedWritePropertyMultiple ConfirmedServiceChoice = 16
)

func (c ConfirmedServiceChoice) String() string {
	names := map[ConfirmedServiceChoice]string{
		ServiceConfirmedAcknowledgeAlarm:     "acknowledge-alarm",
		ServiceConfirmedCOVNotification:      "confirmed-cov-notification",
		ServiceConfirmedAtomicReadFile:       "atomic-read-file",
		ServiceConfirmedAtomicWriteFile:      "atomic-write-file",
		ServiceConfirmedReinitializeDevice:   "reinitialize-device",
		ServiceConfirmedReadProperty:         "read-property",
		ServiceConfirmedReadPropertyMultiple: "read-property-multiple",
		ServiceConfirmedWriteProperty:        "write-property",
		ServiceConfirmedWritePropertyMultiple: "write-property-multiple",
	}
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("confirmed-service(%d)", c)
}

// UnconfirmedServiceChoice identifies which unconfirmed service an APDU
// carries (the subset this codec implements).
type UnconfirmedServiceChoice uint8

const (
	ServiceUnconfirmedCOVNotification UnconfirmedServiceChoice = 2
	ServiceUnconfirmedWhoHas          UnconfirmedServiceChoice = 7
	ServiceUnconfirmedWhoIs           UnconfirmedServiceChoice = 8
	ServiceUnconfirmedIAm             UnconfirmedServiceChoice = 0
	ServiceUnconfirmedIHave           UnconfirmedServiceChoice = 1
	ServiceUnconfirmedTimeSync        UnconfirmedServiceChoice = 6
	ServiceUnconfirmedUTCTimeSync     UnconfirmedServiceChoice = 9
)

func (c UnconfirmedServiceChoice) String() string {
	names := map[UnconfirmedServiceChoice]string{
		ServiceUnconfirmedCOVNotification: "unconfirmed-cov-notification",
		ServiceUnconfirmedWhoHas:          "who-has",
		ServiceUnconfirmedWhoIs:           "who-is",
		ServiceUnconfirmedIAm:             "i-am",
		ServiceUnconfirmedIHave:           "i-have",
		ServiceUnconfirmedTimeSync:        "time-synchronization",
		ServiceUnconfirmedUTCTimeSync:     "utc-time-synchronization",
	}
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("unconfirmed-service(%d)", c)
}

// ObjectType identifies a BACnet object type. The set here covers the
// object types this codec's reference object database and service
// codecs exercise; the BACnet standard defines more.
type ObjectType uint16

const (
	ObjectTypeAnalogInput ObjectType = iota
	ObjectTypeAnalogOutput
	ObjectTypeAnalogValue
	ObjectTypeBinaryInput
	ObjectTypeBinaryOutput
	ObjectTypeBinaryValue
	ObjectTypeCalendar
	ObjectTypeCommand
	ObjectTypeDevice
	ObjectTypeEventEnrollment
	ObjectTypeFile
	ObjectTypeGroup
	ObjectTypeLoop
	ObjectTypeMultiStateInput
	ObjectTypeMultiStateOutput
	ObjectTypeNotificationClass
	ObjectTypeProgram
	ObjectTypeSchedule
	ObjectTypeAveraging
	ObjectTypeMultiStateValue
	ObjectTypeTrendLog
	ObjectTypeLifeSafetyPoint
	ObjectTypeLifeSafetyZone
)

// MaxInstance is the wildcard instance number (all 22 instance bits
// set) meaning "any instance" in a Who-Is/I-Am device-instance range
// or an unspecified object reference.
const MaxInstance = 0x3FFFFF

func (o ObjectType) String() string {
	names := map[ObjectType]string{
		ObjectTypeAnalogInput:       "analog-input",
		ObjectTypeAnalogOutput:      "analog-output",
		ObjectTypeAnalogValue:       "analog-value",
		ObjectTypeBinaryInput:       "binary-input",
		ObjectTypeBinaryOutput:      "binary-output",
		ObjectTypeBinaryValue:       "binary-value",
		ObjectTypeCalendar:          "calendar",
		ObjectTypeCommand:           "command",
		ObjectTypeDevice:            "device",
		ObjectTypeEventEnrollment:   "event-enrollment",
		ObjectTypeFile:              "file",
		ObjectTypeGroup:             "group",
		ObjectTypeLoop:              "loop",
		ObjectTypeMultiStateInput:   "multi-state-input",
		ObjectTypeMultiStateOutput:  "multi-state-output",
		ObjectTypeNotificationClass: "notification-class",
		ObjectTypeProgram:           "program",
		ObjectTypeSchedule:          "schedule",
		ObjectTypeAveraging:         "averaging",
		ObjectTypeMultiStateValue:   "multi-state-value",
		ObjectTypeTrendLog:          "trend-log",
		ObjectTypeLifeSafetyPoint:   "life-safety-point",
		ObjectTypeLifeSafetyZone:    "life-safety-zone",
	}
	if name, ok := names[o]; ok {
		return name
	}
	return fmt.Sprintf("object-type(%d)", o)
}

// PropertyIdentifier identifies a BACnet object property. The set here
// covers the properties this codec's services and reference object
// database exercise.
type PropertyIdentifier uint32

const (
	PropertyObjectIdentifier PropertyIdentifier = 75
	PropertyObjectName       PropertyIdentifier = 77
	PropertyObjectType       PropertyIdentifier = 79
	PropertyPresentValue     PropertyIdentifier = 85
	PropertyStatusFlags      PropertyIdentifier = 111
	PropertyEventState       PropertyIdentifier = 36
	PropertyReliability      PropertyIdentifier = 103
	PropertyOutOfService     PropertyIdentifier = 81
	PropertyUnits            PropertyIdentifier = 117
	PropertyDescription      PropertyIdentifier = 28
	PropertyDeviceType       PropertyIdentifier = 31
	PropertyPriorityArray    PropertyIdentifier = 87
	PropertyRelinquishDefault PropertyIdentifier = 104
	PropertyObjectList       PropertyIdentifier = 76
	PropertyMaxApduLengthAccepted PropertyIdentifier = 62
	PropertySegmentationSupported PropertyIdentifier = 107
	PropertyVendorIdentifier PropertyIdentifier = 120
	PropertyVendorName       PropertyIdentifier = 121
	PropertyModelName        PropertyIdentifier = 70
	PropertyFirmwareRevision PropertyIdentifier = 44
	PropertyApplicationSoftwareVersion PropertyIdentifier = 12
	PropertyProtocolVersion  PropertyIdentifier = 98
	PropertyProtocolRevision PropertyIdentifier = 139
	PropertySystemStatus     PropertyIdentifier = 112
	PropertyDatabaseRevision PropertyIdentifier = 155
	PropertyFileSize         PropertyIdentifier = 42
	PropertyArchive          PropertyIdentifier = 13
	PropertyFileAccessMethod PropertyIdentifier = 41
	PropertyRecordCount      PropertyIdentifier = 141

	// Special property-identifier sentinels used only in a
	// ReadPropertyMultiple request's property-reference list, never as
	// a real object property.
	PropertyAll      PropertyIdentifier = 8
	PropertyRequired PropertyIdentifier = 105
	PropertyOptional PropertyIdentifier = 80
)

func (p PropertyIdentifier) String() string {
	names := map[PropertyIdentifier]string{
		PropertyObjectIdentifier:      "object-identifier",
		PropertyObjectName:            "object-name",
		PropertyObjectType:            "object-type",
		PropertyPresentValue:          "present-value",
		PropertyStatusFlags:           "status-flags",
		PropertyEventState:            "event-state",
		PropertyReliability:           "reliability",
		PropertyOutOfService:          "out-of-service",
		PropertyUnits:                 "units",
		PropertyDescription:           "description",
		PropertyDeviceType:            "device-type",
		PropertyPriorityArray:         "priority-array",
		PropertyRelinquishDefault:     "relinquish-default",
		PropertyObjectList:            "object-list",
		PropertyMaxApduLengthAccepted: "max-apdu-length-accepted",
		PropertySegmentationSupported: "segmentation-supported",
		PropertyVendorIdentifier:      "vendor-identifier",
		PropertyVendorName:            "vendor-name",
		PropertyModelName:             "model-name",
		PropertyFirmwareRevision:      "firmware-revision",
		PropertyApplicationSoftwareVersion: "application-software-version",
		PropertyProtocolVersion:       "protocol-version",
		PropertyProtocolRevision:      "protocol-revision",
		PropertySystemStatus:          "system-status",
		PropertyDatabaseRevision:      "database-revision",
		PropertyFileSize:              "file-size",
		PropertyArchive:               "archive",
		PropertyFileAccessMethod:      "file-access-method",
		PropertyRecordCount:           "record-count",
		PropertyAll:                   "all",
		PropertyRequired:              "required",
		PropertyOptional:              "optional",
	}
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("property(%d)", p)
}

// ObjectIdentifier is a BACnet object identifier: a 10-bit object type
// and a 22-bit instance number packed into a 32-bit value on the wire.
type ObjectIdentifier struct {
	Type     ObjectType
	Instance uint32
}

// Encode packs o into its 32-bit wire representation.
func (o ObjectIdentifier) Encode() uint32 {
	return (uint32(o.Type)&0x3FF)<<22 | (o.Instance & MaxInstance)
}

// DecodeObjectIdentifier unpacks a 32-bit wire value into its type and
// instance parts.
func DecodeObjectIdentifier(value uint32) ObjectIdentifier {
	return ObjectIdentifier{
		Type:     ObjectType(value >> 22 & 0x3FF),
		Instance: value & MaxInstance,
	}
}

func (o ObjectIdentifier) String() string {
	return fmt.Sprintf("%s:%d", o.Type, o.Instance)
}

// StatusFlags packs the four BACnet status-flags bits (in-alarm,
// fault, overridden, out-of-service) into a 4-bit bit string.
type StatusFlags struct {
	InAlarm     bool
	Fault       bool
	Overridden  bool
	OutOfService bool
}

// Encode returns the status flags as a 4-bit BitString.
func (s StatusFlags) Encode() BitString {
	return BitString{Bits: []bool{s.InAlarm, s.Fault, s.Overridden, s.OutOfService}}
}

// DecodeStatusFlags unpacks a 4-bit BitString into StatusFlags. Bits
// beyond the first four are ignored.
func DecodeStatusFlags(bs BitString) StatusFlags {
	var s StatusFlags
	if len(bs.Bits) > 0 {
		s.InAlarm = bs.Bits[0]
	}
	if len(bs.Bits) > 1 {
		s.Fault = bs.Bits[1]
	}
	if len(bs.Bits) > 2 {
		s.Overridden = bs.Bits[2]
	}
	if len(bs.Bits) > 3 {
		s.OutOfService = bs.Bits[3]
	}
	return s
}

// EventState enumerates the BACnet event-state values.
type EventState uint8

const (
	EventStateNormal EventState = iota
	EventStateFault
	EventStateOffnormal
	EventStateHighLimit
	EventStateLowLimit
)

// Reliability enumerates the BACnet reliability values (the subset in
// common use).
type Reliability uint8

const (
	ReliabilityNoFaultDetected Reliability = 0
	ReliabilityNoSensor        Reliability = 1
	ReliabilityOverRange       Reliability = 2
	ReliabilityUnderRange      Reliability = 3
	ReliabilityOpenLoop        Reliability = 4
	ReliabilityShortedLoop     Reliability = 5
	ReliabilityUnreliableOther Reliability = 7
)

// Segmentation enumerates a device's supported-segmentation value.
type Segmentation uint8

const (
	SegmentationBoth Segmentation = iota
	SegmentationTransmit
	SegmentationReceive
	SegmentationNone
)

// EngineeringUnits enumerates the BACnet engineering-units values (the
// subset the reference object database exercises).
type EngineeringUnits uint16

const (
	UnitsDegreesCelsius EngineeringUnits = 62
	UnitsPercent        EngineeringUnits = 98
	UnitsNoUnits        EngineeringUnits = 95
	UnitsVolts          EngineeringUnits = 5
	UnitsAmperes        EngineeringUnits = 3
)

func (u EngineeringUnits) String() string {
	names := map[EngineeringUnits]string{
		UnitsDegreesCelsius: "degrees-celsius",
		UnitsPercent:        "percent",
		UnitsNoUnits:        "no-units",
		UnitsVolts:          "volts",
		UnitsAmperes:        "amperes",
	}
	if name, ok := names[u]; ok {
		return name
	}
	return fmt.Sprintf("units(%d)", u)
}
