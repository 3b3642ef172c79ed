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

// ReinitializedState enumerates the state a ReinitializeDevice request
// asks the device to transition into, per ASHRAE 135 Clause 16.4.
type ReinitializedState uint8

const (
	ReinitializedStateColdstart ReinitializedState = iota
	ReinitializedStateWarmstart
	ReinitializedStateStartBackup
	ReinitializedStateEndBackup
	ReinitializedStateStartRestore
	ReinitializedStateEndRestore
	ReinitializedStateAbortRestore
)

func (s ReinitializedState) String() string {
	names := map[ReinitializedState]string{
		ReinitializedStateColdstart:    "coldstart",
		ReinitializedStateWarmstart:    "warmstart",
		ReinitializedStateStartBackup:  "start-backup",
		ReinitializedStateEndBackup:    "end-backup",
		ReinitializedStateStartRestore: "start-restore",
		ReinitializedStateEndRestore:   "end-restore",
		ReinitializedStateAbortRestore: "abort-restore",
	}
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("reinitialized-state(%d)", s)
}

// ReinitializeDeviceRequest is a decoded ReinitializeDevice-Request
// service.
type ReinitializeDeviceRequest struct {
	State    ReinitializedState
	Password *string
}

// EncodeReinitializeDeviceRequest appends a ReinitializeDevice-Request
// service payload.
func EncodeReinitializeDeviceRequest(buf []byte, r ReinitializeDeviceRequest) []byte {
	buf = EncodeContextEnumerated(buf, 0, uint32(r.State))
	if r.Password != nil {
		buf = EncodeContextCharacterString(buf, 1, *r.Password)
	}
	return buf
}

// DecodeReinitializeDeviceRequest decodes a ReinitializeDevice-Request
// service payload.
func DecodeReinitializeDeviceRequest(data []byte) (ReinitializeDeviceRequest, error) {
	var r ReinitializeDeviceRequest
	state, n, err := DecodeContextEnumerated(data, 0, len(data))
	if err != nil {
		return r, fmt.Errorf("reinitialize-device state: %w", err)
	}
	r.State = ReinitializedState(state)
	data = data[n:]

	if len(data) > 0 && PeekIsContextTag(data, 1) {
		pw, _, err := DecodeContextCharacterString(data, 1, len(data))
		if err != nil {
			return r, fmt.Errorf("reinitialize-device password: %w", err)
		}
		r.Password = &pw
	}
	return r, nil
}
