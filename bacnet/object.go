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
	"fmt"
	"sync"
)

// PropertyList is the required/optional/proprietary property set an
// object type publishes. ReadPropertyMultiple's PropertyAll/
// PropertyRequired/PropertyOptional sentinels expand against this.
type PropertyList struct {
	Required    []PropertyIdentifier
	Optional    []PropertyIdentifier
	Proprietary []PropertyIdentifier
}

// All returns every property in the list, required first, then
// optional, then proprietary. It always walks the full list to its
// end; a cursor that stopped advancing partway through would silently
// under-report the property set on any non-empty list.
func (p PropertyList) All() []PropertyIdentifier {
	out := make([]PropertyIdentifier, 0, len(p.Required)+len(p.Optional)+len(p.Proprietary))
	out = append(out, p.Required...)
	out = append(out, p.Optional...)
	out = append(out, p.Proprietary...)
	return out
}

// PropertyListCount returns how many properties the given sentinel
// expands to against list.
func PropertyListCount(list PropertyList, sentinel PropertyIdentifier) int {
	switch sentinel {
	case PropertyAll:
		return len(list.Required) + len(list.Optional) + len(list.Proprietary)
	case PropertyRequired:
		return len(list.Required)
	case PropertyOptional:
		return len(list.Optional)
	default:
		return 0
	}
}

// ExpandPropertyReference expands a property reference that names
// PropertyAll/PropertyRequired/PropertyOptional into the concrete
// property identifiers it stands for. A reference to a concrete
// property identifier expands to itself.
func ExpandPropertyReference(list PropertyList, prop PropertyIdentifier) []PropertyIdentifier {
	switch prop {
	case PropertyAll:
		return list.All()
	case PropertyRequired:
		return append([]PropertyIdentifier(nil), list.Required...)
	case PropertyOptional:
		return append([]PropertyIdentifier(nil), list.Optional...)
	default:
		return []PropertyIdentifier{prop}
	}
}

// ObjectDescriptor is a type-indexed dispatch table entry: the
// functions that know how to validate an instance number, publish a
// property list, and encode/write a property for one object type.
// Object types register a descriptor into a Registry at construction
// time rather than relying on a package-level type switch, so adding
// an object type never requires touching existing dispatch code.
type ObjectDescriptor struct {
	Type ObjectType

	ValidInstance  func(instance uint32) bool
	PropertyList   func() PropertyList
	EncodeProperty func(instance uint32, prop PropertyIdentifier, arrayIndex *uint32) ([]Value, error)
	WriteProperty  func(instance uint32, prop PropertyIdentifier, arrayIndex *uint32, values []Value, priority uint8) error
}

// Registry dispatches by object type to the descriptor registered for
// it. A Registry is built explicitly by its owner (never via init()),
// so tests can assemble an isolated registry with only the object
// types they need.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[ObjectType]ObjectDescriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[ObjectType]ObjectDescriptor)}
}

// Register adds or replaces the descriptor for d.Type.
func (r *Registry) Register(d ObjectDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[d.Type] = d
}

// Lookup returns the descriptor registered for t, if any.
func (r *Registry) Lookup(t ObjectType) (ObjectDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	return d, ok
}

// ObjectDatabase is the interface RP/WP/RPM handlers use to reach
// object state; it is satisfied by *Database but callers may supply
// their own implementation.
type ObjectDatabase interface {
	PropertyLists(objType ObjectType) (PropertyList, bool)
	EncodeProperty(objID ObjectIdentifier, prop PropertyIdentifier, arrayIndex *uint32) ([]Value, error)
	WriteProperty(objID ObjectIdentifier, prop PropertyIdentifier, arrayIndex *uint32, values []Value, priority uint8) error
	ValidInstance(objID ObjectIdentifier) bool
	DeviceInstanceNumber() uint32
}

// Database is the reference in-memory ObjectDatabase implementation:
// one Device object plus a handful of analog/binary objects, enough to
// exercise RP/WP/RPM end to end.
type Database struct {
	registry *Registry

	mu            sync.RWMutex
	deviceID      uint32
	deviceName    string
	objectList    []ObjectIdentifier
	analogInputs  map[uint32]*analogObject
	analogOutputs map[uint32]*analogObject
	analogValues  map[uint32]*analogObject
	binaryValues  map[uint32]*binaryObject
}

type analogObject struct {
	name              string
	presentValue      float32
	statusFlags       StatusFlags
	outOfService      bool
	units             EngineeringUnits
	priorityArray     [16]*float32
	relinquishDefault float32
}

func (a *analogObject) effectivePresentValue() float32 {
	for _, p := range a.priorityArray {
		if p != nil {
			return *p
		}
	}
	return a.relinquishDefault
}

type binaryObject struct {
	name         string
	presentValue bool
	statusFlags  StatusFlags
	outOfService bool
}

// NewDatabase builds a reference Database for the given device
// instance/name and registers the object-type descriptors it serves
// into a fresh Registry.
func NewDatabase(deviceInstance uint32, deviceName string) *Database {
	db := &Database{
		registry:      NewRegistry(),
		deviceID:      deviceInstance,
		deviceName:    deviceName,
		analogInputs:  make(map[uint32]*analogObject),
		analogOutputs: make(map[uint32]*analogObject),
		analogValues:  make(map[uint32]*analogObject),
		binaryValues:  make(map[uint32]*binaryObject),
	}
	db.objectList = []ObjectIdentifier{{Type: ObjectTypeDevice, Instance: deviceInstance}}
	db.registerDescriptors()
	return db
}

var devicePropertyList = PropertyList{
	Required: []PropertyIdentifier{
		PropertyObjectIdentifier, PropertyObjectName, PropertyObjectType,
		PropertySystemStatus, PropertyVendorName, PropertyVendorIdentifier,
		PropertyModelName, PropertyFirmwareRevision, PropertyApplicationSoftwareVersion,
		PropertyProtocolVersion, PropertyProtocolRevision, PropertyObjectList,
		PropertyMaxApduLengthAccepted, PropertySegmentationSupported,
		PropertyDatabaseRevision,
	},
	Optional: []PropertyIdentifier{PropertyDescription},
}

var analogPropertyList = PropertyList{
	Required: []PropertyIdentifier{
		PropertyObjectIdentifier, PropertyObjectName, PropertyObjectType,
		PropertyPresentValue, PropertyStatusFlags, PropertyEventState,
		PropertyOutOfService, PropertyUnits,
	},
	Optional: []PropertyIdentifier{PropertyDescription, PropertyReliability},
}

var analogOutputPropertyList = PropertyList{
	Required: append(append([]PropertyIdentifier(nil), analogPropertyList.Required...),
		PropertyPriorityArray, PropertyRelinquishDefault),
	Optional: analogPropertyList.Optional,
}

var binaryPropertyList = PropertyList{
	Required: []PropertyIdentifier{
		PropertyObjectIdentifier, PropertyObjectName, PropertyObjectType,
		PropertyPresentValue, PropertyStatusFlags, PropertyEventState,
		PropertyOutOfService,
	},
	Optional: []PropertyIdentifier{PropertyDescription},
}

func (db *Database) registerDescriptors() {
	db.registry.Register(ObjectDescriptor{
		Type:           ObjectTypeDevice,
		ValidInstance:  func(instance uint32) bool { return instance == db.deviceID },
		PropertyList:   func() PropertyList { return devicePropertyList },
		EncodeProperty: db.encodeDeviceProperty,
	})
	db.registry.Register(ObjectDescriptor{
		Type:           ObjectTypeAnalogInput,
		ValidInstance:  func(instance uint32) bool { _, ok := db.analogInputs[instance]; return ok },
		PropertyList:   func() PropertyList { return analogPropertyList },
		EncodeProperty: func(instance uint32, prop PropertyIdentifier, idx *uint32) ([]Value, error) {
			return db.encodeAnalogProperty(db.analogInputs, ObjectTypeAnalogInput, instance, prop, idx)
		},
	})
	db.registry.Register(ObjectDescriptor{
		Type: ObjectTypeAnalogOutput,
		// The positive validity test — not its negation — is what
		// decides whether an instance exists. Every sibling descriptor
		// uses the same positive form; this one is no exception.
		ValidInstance: func(instance uint32) bool { _, ok := db.analogOutputs[instance]; return ok },
		PropertyList:  func() PropertyList { return analogOutputPropertyList },
		EncodeProperty: func(instance uint32, prop PropertyIdentifier, idx *uint32) ([]Value, error) {
			return db.encodeAnalogOutputProperty(instance, prop, idx)
		},
		WriteProperty: db.writeAnalogOutputProperty,
	})
	db.registry.Register(ObjectDescriptor{
		Type:          ObjectTypeAnalogValue,
		ValidInstance: func(instance uint32) bool { _, ok := db.analogValues[instance]; return ok },
		PropertyList:  func() PropertyList { return analogPropertyList },
		EncodeProperty: func(instance uint32, prop PropertyIdentifier, idx *uint32) ([]Value, error) {
			return db.encodeAnalogProperty(db.analogValues, ObjectTypeAnalogValue, instance, prop, idx)
		},
	})
	db.registry.Register(ObjectDescriptor{
		Type:          ObjectTypeBinaryValue,
		ValidInstance: func(instance uint32) bool { _, ok := db.binaryValues[instance]; return ok },
		PropertyList:  func() PropertyList { return binaryPropertyList },
		EncodeProperty: db.encodeBinaryValueProperty,
		WriteProperty:  db.writeBinaryValueProperty,
	})
}

// AddAnalogInput registers a new Analog Input object.
func (db *Database) AddAnalogInput(instance uint32, name string, presentValue float32, units EngineeringUnits) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.analogInputs[instance] = &analogObject{name: name, presentValue: presentValue, units: units}
	db.objectList = append(db.objectList, ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: instance})
}

// AddAnalogOutput registers a new Analog Output object.
func (db *Database) AddAnalogOutput(instance uint32, name string, relinquishDefault float32, units EngineeringUnits) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.analogOutputs[instance] = &analogObject{name: name, relinquishDefault: relinquishDefault, units: units}
	db.objectList = append(db.objectList, ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: instance})
}

// AddAnalogValue registers a new Analog Value object.
func (db *Database) AddAnalogValue(instance uint32, name string, presentValue float32, units EngineeringUnits) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.analogValues[instance] = &analogObject{name: name, presentValue: presentValue, units: units}
	db.objectList = append(db.objectList, ObjectIdentifier{Type: ObjectTypeAnalogValue, Instance: instance})
}

// AddBinaryValue registers a new Binary Value object.
func (db *Database) AddBinaryValue(instance uint32, name string, presentValue bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.binaryValues[instance] = &binaryObject{name: name, presentValue: presentValue}
	db.objectList = append(db.objectList, ObjectIdentifier{Type: ObjectTypeBinaryValue, Instance: instance})
}

// DeviceInstanceNumber returns the device object's instance number.
func (db *Database) DeviceInstanceNumber() uint32 { return db.deviceID }

// PropertyLists returns the required/optional property set for
// objType, if a descriptor is registered for it.
func (db *Database) PropertyLists(objType ObjectType) (PropertyList, bool) {
	d, ok := db.registry.Lookup(objType)
	if !ok {
		return PropertyList{}, false
	}
	return d.PropertyList(), true
}

// ValidInstance reports whether objID names an object this database
// holds.
func (db *Database) ValidInstance(objID ObjectIdentifier) bool {
	d, ok := db.registry.Lookup(objID.Type)
	if !ok {
		return false
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return d.ValidInstance(objID.Instance)
}

// EncodeProperty reads prop from objID, returning its application-data
// values.
func (db *Database) EncodeProperty(objID ObjectIdentifier, prop PropertyIdentifier, arrayIndex *uint32) ([]Value, error) {
	d, ok := db.registry.Lookup(objID.Type)
	if !ok {
		return nil, NewBACnetError(ErrorClassObject, ErrorCodeUnsupportedObjectType)
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if !d.ValidInstance(objID.Instance) {
		return nil, NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	if d.EncodeProperty == nil {
		return nil, NewBACnetError(ErrorClassProperty, ErrorCodeUnknownProperty)
	}
	return d.EncodeProperty(objID.Instance, prop, arrayIndex)
}

// WriteProperty writes values to prop on objID at the given priority.
func (db *Database) WriteProperty(objID ObjectIdentifier, prop PropertyIdentifier, arrayIndex *uint32, values []Value, priority uint8) error {
	d, ok := db.registry.Lookup(objID.Type)
	if !ok {
		return NewBACnetError(ErrorClassObject, ErrorCodeUnsupportedObjectType)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if !d.ValidInstance(objID.Instance) {
		return NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	if d.WriteProperty == nil {
		return NewBACnetError(ErrorClassProperty, ErrorCodeWriteAccessDenied)
	}
	return d.WriteProperty(objID.Instance, prop, arrayIndex, values, priority)
}

func (db *Database) encodeDeviceProperty(instance uint32, prop PropertyIdentifier, _ *uint32) ([]Value, error) {
	switch prop {
	case PropertyObjectIdentifier:
		return []Value{{Tag: ApplicationTagObjectID, ObjectID: ObjectIdentifier{Type: ObjectTypeDevice, Instance: instance}}}, nil
	case PropertyObjectName:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: db.deviceName}}, nil
	case PropertyObjectType:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(ObjectTypeDevice)}}, nil
	case PropertySystemStatus:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: 0}}, nil
	case PropertyVendorName:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: "Edgeo SCADA"}}, nil
	case PropertyVendorIdentifier:
		return []Value{{Tag: ApplicationTagUnsignedInt, Unsigned: 0}}, nil
	case PropertyModelName:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: "bacnet-codec"}}, nil
	case PropertyFirmwareRevision, PropertyApplicationSoftwareVersion:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: "1.0"}}, nil
	case PropertyProtocolVersion:
		return []Value{{Tag: ApplicationTagUnsignedInt, Unsigned: 1}}, nil
	case PropertyProtocolRevision:
		return []Value{{Tag: ApplicationTagUnsignedInt, Unsigned: 14}}, nil
	case PropertyObjectList:
		objs := make([]Value, 0, len(db.objectList))
		for _, o := range db.objectList {
			objs = append(objs, Value{Tag: ApplicationTagObjectID, ObjectID: o})
		}
		return objs, nil
	case PropertyMaxApduLengthAccepted:
		return []Value{{Tag: ApplicationTagUnsignedInt, Unsigned: 1476}}, nil
	case PropertySegmentationSupported:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(SegmentationNone)}}, nil
	case PropertyDatabaseRevision:
		return []Value{{Tag: ApplicationTagUnsignedInt, Unsigned: 1}}, nil
	case PropertyDescription:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: ""}}, nil
	default:
		return nil, NewBACnetError(ErrorClassProperty, ErrorCodeUnknownProperty)
	}
}

func (db *Database) encodeAnalogProperty(store map[uint32]*analogObject, objType ObjectType, instance uint32, prop PropertyIdentifier, _ *uint32) ([]Value, error) {
	obj, ok := store[instance]
	if !ok {
		return nil, NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	switch prop {
	case PropertyObjectIdentifier:
		return []Value{{Tag: ApplicationTagObjectID, ObjectID: ObjectIdentifier{Type: objType, Instance: instance}}}, nil
	case PropertyObjectName:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: obj.name}}, nil
	case PropertyObjectType:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(objType)}}, nil
	case PropertyPresentValue:
		return []Value{{Tag: ApplicationTagReal, Real: obj.presentValue}}, nil
	case PropertyStatusFlags:
		return []Value{{Tag: ApplicationTagBitString, BitString: obj.statusFlags.Encode()}}, nil
	case PropertyEventState:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(EventStateNormal)}}, nil
	case PropertyOutOfService:
		return []Value{{Tag: ApplicationTagBoolean, Boolean: obj.outOfService}}, nil
	case PropertyUnits:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(obj.units)}}, nil
	case PropertyDescription:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: ""}}, nil
	case PropertyReliability:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(ReliabilityNoFaultDetected)}}, nil
	default:
		return nil, NewBACnetError(ErrorClassProperty, ErrorCodeUnknownProperty)
	}
}

func (db *Database) encodeAnalogOutputProperty(instance uint32, prop PropertyIdentifier, arrayIndex *uint32) ([]Value, error) {
	obj, ok := db.analogOutputs[instance]
	if !ok {
		return nil, NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	switch prop {
	case PropertyPresentValue:
		return []Value{{Tag: ApplicationTagReal, Real: obj.effectivePresentValue()}}, nil
	case PropertyPriorityArray:
		if arrayIndex != nil {
			idx := *arrayIndex
			if idx < 1 || idx > 16 {
				return nil, NewBACnetError(ErrorClassProperty, ErrorCodeInvalidArrayIndex)
			}
			p := obj.priorityArray[idx-1]
			if p == nil {
				return []Value{{Tag: ApplicationTagNull}}, nil
			}
			return []Value{{Tag: ApplicationTagReal, Real: *p}}, nil
		}
		values := make([]Value, 16)
		for i, p := range obj.priorityArray {
			if p == nil {
				values[i] = Value{Tag: ApplicationTagNull}
			} else {
				values[i] = Value{Tag: ApplicationTagReal, Real: *p}
			}
		}
		return values, nil
	case PropertyRelinquishDefault:
		return []Value{{Tag: ApplicationTagReal, Real: obj.relinquishDefault}}, nil
	default:
		return db.encodeAnalogProperty(db.analogOutputs, ObjectTypeAnalogOutput, instance, prop, arrayIndex)
	}
}

func (db *Database) writeAnalogOutputProperty(instance uint32, prop PropertyIdentifier, _ *uint32, values []Value, priority uint8) error {
	obj, ok := db.analogOutputs[instance]
	if !ok {
		return NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	if prop != PropertyPresentValue {
		return NewBACnetError(ErrorClassProperty, ErrorCodeWriteAccessDenied)
	}
	if len(values) != 1 {
		return fmt.Errorf("%w: present-value write carries %d elements", ErrTooManyElements, len(values))
	}
	if priority < 1 || priority > 16 {
		return fmt.Errorf("%w: priority %d outside 1-16", ErrOutOfRange, priority)
	}
	v := values[0]
	if v.Tag == ApplicationTagNull {
		obj.priorityArray[priority-1] = nil
		return nil
	}
	if v.Tag != ApplicationTagReal {
		return NewBACnetError(ErrorClassProperty, ErrorCodeInvalidDataType)
	}
	real := v.Real
	obj.priorityArray[priority-1] = &real
	return nil
}

func (db *Database) encodeBinaryValueProperty(instance uint32, prop PropertyIdentifier, _ *uint32) ([]Value, error) {
	obj, ok := db.binaryValues[instance]
	if !ok {
		return nil, NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	switch prop {
	case PropertyObjectIdentifier:
		return []Value{{Tag: ApplicationTagObjectID, ObjectID: ObjectIdentifier{Type: ObjectTypeBinaryValue, Instance: instance}}}, nil
	case PropertyObjectName:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: obj.name}}, nil
	case PropertyObjectType:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(ObjectTypeBinaryValue)}}, nil
	case PropertyPresentValue:
		v := uint32(0)
		if obj.presentValue {
			v = 1
		}
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: v}}, nil
	case PropertyStatusFlags:
		return []Value{{Tag: ApplicationTagBitString, BitString: obj.statusFlags.Encode()}}, nil
	case PropertyEventState:
		return []Value{{Tag: ApplicationTagEnumerated, Enumerated: uint32(EventStateNormal)}}, nil
	case PropertyOutOfService:
		return []Value{{Tag: ApplicationTagBoolean, Boolean: obj.outOfService}}, nil
	case PropertyDescription:
		return []Value{{Tag: ApplicationTagCharacterString, CharacterString: ""}}, nil
	default:
		return nil, NewBACnetError(ErrorClassProperty, ErrorCodeUnknownProperty)
	}
}

func (db *Database) writeBinaryValueProperty(instance uint32, prop PropertyIdentifier, _ *uint32, values []Value, _ uint8) error {
	obj, ok := db.binaryValues[instance]
	if !ok {
		return NewBACnetError(ErrorClassObject, ErrorCodeUnknownObject)
	}
	if prop != PropertyPresentValue {
		return NewBACnetError(ErrorClassProperty, ErrorCodeWriteAccessDenied)
	}
	if len(values) != 1 || values[0].Tag != ApplicationTagEnumerated {
		return NewBACnetError(ErrorClassProperty, ErrorCodeInvalidDataType)
	}
	obj.presentValue = values[0].Enumerated != 0
	return nil
}
