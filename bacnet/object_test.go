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
	"testing"
)

func TestPropertyListAllWalksEveryEntry(t *testing.T) {
	list := PropertyList{
		Required:    []PropertyIdentifier{PropertyObjectIdentifier, PropertyObjectName},
		Optional:    []PropertyIdentifier{PropertyDescription},
		Proprietary: []PropertyIdentifier{PropertyIdentifier(512)},
	}
	all := list.All()
	if len(all) != 4 {
		t.Fatalf("got %d properties, want 4", len(all))
	}
	if all[0] != PropertyObjectIdentifier || all[3] != PropertyIdentifier(512) {
		t.Fatalf("got %+v", all)
	}
}

func TestExpandPropertyReference(t *testing.T) {
	list := analogPropertyList
	if got := len(ExpandPropertyReference(list, PropertyAll)); got != len(list.All()) {
		t.Fatalf("got %d, want %d", got, len(list.All()))
	}
	if got := ExpandPropertyReference(list, PropertyPresentValue); len(got) != 1 || got[0] != PropertyPresentValue {
		t.Fatalf("got %+v", got)
	}
}

func TestDatabaseValidInstance(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogInput(1, "zone-temp-1", 72.5, UnitsDegreesCelsius)
	db.AddAnalogOutput(1, "zone-damper-1", 0, UnitsPercent)

	cases := []struct {
		objID ObjectIdentifier
		want  bool
	}{
		{ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001}, true},
		{ObjectIdentifier{Type: ObjectTypeDevice, Instance: 9999}, false},
		{ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}, true},
		{ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 2}, false},
		{ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1}, true},
		{ObjectIdentifier{Type: ObjectTypeBinaryInput, Instance: 1}, false}, // no descriptor registered
	}
	for _, c := range cases {
		if got := db.ValidInstance(c.objID); got != c.want {
			t.Fatalf("%+v: got %v, want %v", c.objID, got, c.want)
		}
	}
}

func TestDatabaseEncodePropertyUnknownObjectType(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	_, err := db.EncodeProperty(ObjectIdentifier{Type: ObjectTypeBinaryInput, Instance: 1}, PropertyPresentValue, nil)
	var bacnetErr *BACnetError
	if !errors.As(err, &bacnetErr) || bacnetErr.Code != ErrorCodeUnsupportedObjectType {
		t.Fatalf("got %v, want unsupported-object-type", err)
	}
}

func TestDatabaseEncodePropertyUnknownObjectInstance(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogInput(1, "zone-temp-1", 72.5, UnitsDegreesCelsius)
	_, err := db.EncodeProperty(ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 2}, PropertyPresentValue, nil)
	var bacnetErr *BACnetError
	if !errors.As(err, &bacnetErr) || bacnetErr.Code != ErrorCodeUnknownObject {
		t.Fatalf("got %v, want unknown-object", err)
	}
}

func TestDatabaseEncodePropertyPresentValue(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogInput(1, "zone-temp-1", 72.5, UnitsDegreesCelsius)
	values, err := db.EncodeProperty(ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}, PropertyPresentValue, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(values) != 1 || values[0].Real != 72.5 {
		t.Fatalf("got %+v", values)
	}
}

func TestDatabaseDeviceObjectListIncludesEveryObject(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogInput(1, "zone-temp-1", 72.5, UnitsDegreesCelsius)
	db.AddAnalogOutput(1, "zone-damper-1", 0, UnitsPercent)
	db.AddBinaryValue(1, "occupied", true)

	values, err := db.EncodeProperty(ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001}, PropertyObjectList, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(values) != 4 { // device + 3 objects
		t.Fatalf("got %d entries, want 4", len(values))
	}
}

func TestDatabaseWriteAnalogOutputPresentValueByPriority(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogOutput(1, "zone-damper-1", 0, UnitsPercent)
	objID := ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1}

	if err := db.WriteProperty(objID, PropertyPresentValue, nil, []Value{{Tag: ApplicationTagReal, Real: 50}}, 8); err != nil {
		t.Fatalf("write: %v", err)
	}
	values, err := db.EncodeProperty(objID, PropertyPresentValue, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if values[0].Real != 50 {
		t.Fatalf("got %+v, want 50", values)
	}

	// Relinquish priority 8 (write null); the value should fall back to
	// the relinquish-default.
	if err := db.WriteProperty(objID, PropertyPresentValue, nil, []Value{{Tag: ApplicationTagNull}}, 8); err != nil {
		t.Fatalf("relinquish: %v", err)
	}
	values, err = db.EncodeProperty(objID, PropertyPresentValue, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if values[0].Real != 0 {
		t.Fatalf("got %+v, want relinquish-default 0", values)
	}
}

func TestDatabaseWriteAnalogOutputInvalidPriority(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogOutput(1, "zone-damper-1", 0, UnitsPercent)
	objID := ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1}
	err := db.WriteProperty(objID, PropertyPresentValue, nil, []Value{{Tag: ApplicationTagReal, Real: 1}}, 0)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("got %v, want ErrOutOfRange", err)
	}
}

func TestDatabaseWriteAnalogOutputWrongProperty(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogOutput(1, "zone-damper-1", 0, UnitsPercent)
	objID := ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: 1}
	err := db.WriteProperty(objID, PropertyObjectName, nil, []Value{{Tag: ApplicationTagCharacterString, CharacterString: "x"}}, 8)
	var bacnetErr *BACnetError
	if !errors.As(err, &bacnetErr) || bacnetErr.Code != ErrorCodeWriteAccessDenied {
		t.Fatalf("got %v, want write-access-denied", err)
	}
}

func TestDatabaseWritePropertyNoWriteSupport(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	db.AddAnalogInput(1, "zone-temp-1", 72.5, UnitsDegreesCelsius)
	objID := ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}
	err := db.WriteProperty(objID, PropertyPresentValue, nil, []Value{{Tag: ApplicationTagReal, Real: 1}}, 8)
	var bacnetErr *BACnetError
	if !errors.As(err, &bacnetErr) || bacnetErr.Code != ErrorCodeWriteAccessDenied {
		t.Fatalf("got %v, want write-access-denied (analog-input has no WriteProperty)", err)
	}
}

func TestDatabasePropertyListsExpandsRPMSentinel(t *testing.T) {
	db := NewDatabase(1001, "test-device")
	list, ok := db.PropertyLists(ObjectTypeAnalogInput)
	if !ok {
		t.Fatal("expected a property list for analog-input")
	}
	all := ExpandPropertyReference(list, PropertyAll)
	if len(all) != len(list.Required)+len(list.Optional) {
		t.Fatalf("got %d, want %d", len(all), len(list.Required)+len(list.Optional))
	}
}
