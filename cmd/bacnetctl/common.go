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
	"net"
	"strconv"
	"strings"

	"github.com/edgeoscada/bacnet-codec/bacnet"
	"github.com/edgeoscada/bacnet-codec/internal/datalink"
)

// newDefaultLink opens a UDP link bound to the root command's
// --bind/--broadcast flags.
func newDefaultLink() (*datalink.UDPLink, error) {
	return datalink.NewUDPLink(bindAddr, bcastAddr)
}

// resolveDevice parses a "host" or "host:port" device address,
// defaulting to the standard BACnet/IP port when none is given.
func resolveDevice(s string) (*net.UDPAddr, error) {
	if _, _, err := net.SplitHostPort(s); err != nil {
		s = fmt.Sprintf("%s:%d", s, datalink.DefaultPort)
	}
	addr, err := net.ResolveUDPAddr("udp4", s)
	if err != nil {
		return nil, fmt.Errorf("resolve device address %q: %w", s, err)
	}
	return addr, nil
}

var objectTypesByName = map[string]bacnet.ObjectType{
	"analog-input":        bacnet.ObjectTypeAnalogInput,
	"analog-output":       bacnet.ObjectTypeAnalogOutput,
	"analog-value":        bacnet.ObjectTypeAnalogValue,
	"binary-input":        bacnet.ObjectTypeBinaryInput,
	"binary-output":       bacnet.ObjectTypeBinaryOutput,
	"binary-value":        bacnet.ObjectTypeBinaryValue,
	"device":              bacnet.ObjectTypeDevice,
	"multi-state-input":   bacnet.ObjectTypeMultiStateInput,
	"multi-state-output":  bacnet.ObjectTypeMultiStateOutput,
	"multi-state-value":   bacnet.ObjectTypeMultiStateValue,
}

// parseObjectIdentifier parses "type:instance" (e.g. "analog-input:1").
func parseObjectIdentifier(s string) (bacnet.ObjectIdentifier, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("object %q must be type:instance", s)
	}
	objType, ok := objectTypesByName[parts[0]]
	if !ok {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("unknown object type %q", parts[0])
	}
	instance, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("object instance %q: %w", parts[1], err)
	}
	return bacnet.ObjectIdentifier{Type: objType, Instance: uint32(instance)}, nil
}

var propertiesByName = map[string]bacnet.PropertyIdentifier{
	"object-identifier":  bacnet.PropertyObjectIdentifier,
	"object-name":        bacnet.PropertyObjectName,
	"object-type":        bacnet.PropertyObjectType,
	"present-value":      bacnet.PropertyPresentValue,
	"status-flags":       bacnet.PropertyStatusFlags,
	"event-state":        bacnet.PropertyEventState,
	"out-of-service":     bacnet.PropertyOutOfService,
	"units":              bacnet.PropertyUnits,
	"description":        bacnet.PropertyDescription,
	"priority-array":     bacnet.PropertyPriorityArray,
	"relinquish-default": bacnet.PropertyRelinquishDefault,
	"object-list":        bacnet.PropertyObjectList,
	"all":                bacnet.PropertyAll,
	"required":           bacnet.PropertyRequired,
	"optional":           bacnet.PropertyOptional,
}

func parsePropertyIdentifier(s string) (bacnet.PropertyIdentifier, error) {
	prop, ok := propertiesByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown property %q", s)
	}
	return prop, nil
}

// formatValue renders a decoded application value for terminal output.
func formatValue(v bacnet.Value) string {
	switch v.Tag {
	case bacnet.ApplicationTagNull:
		return "null"
	case bacnet.ApplicationTagBoolean:
		return strconv.FormatBool(v.Boolean)
	case bacnet.ApplicationTagUnsignedInt:
		return strconv.FormatUint(uint64(v.Unsigned), 10)
	case bacnet.ApplicationTagSignedInt:
		return strconv.FormatInt(int64(v.Signed), 10)
	case bacnet.ApplicationTagReal:
		return strconv.FormatFloat(float64(v.Real), 'g', -1, 32)
	case bacnet.ApplicationTagDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case bacnet.ApplicationTagCharacterString:
		return v.CharacterString
	case bacnet.ApplicationTagEnumerated:
		return strconv.FormatUint(uint64(v.Enumerated), 10)
	case bacnet.ApplicationTagObjectID:
		return v.ObjectID.String()
	default:
		return v.Tag.String()
	}
}
