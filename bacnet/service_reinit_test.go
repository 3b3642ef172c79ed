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

import "testing"

func TestReinitializeDeviceRequestRoundTripNoPassword(t *testing.T) {
	r := ReinitializeDeviceRequest{State: ReinitializedStateWarmstart}
	buf := EncodeReinitializeDeviceRequest(nil, r)
	got, err := DecodeReinitializeDeviceRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != r.State || got.Password != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestReinitializeDeviceRequestRoundTripWithPassword(t *testing.T) {
	pw := "supervisor"
	r := ReinitializeDeviceRequest{State: ReinitializedStateColdstart, Password: &pw}
	buf := EncodeReinitializeDeviceRequest(nil, r)
	got, err := DecodeReinitializeDeviceRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != r.State || got.Password == nil || *got.Password != pw {
		t.Fatalf("got %+v", got)
	}
}

func TestReinitializedStateString(t *testing.T) {
	if got := ReinitializedStateEndBackup.String(); got != "end-backup" {
		t.Fatalf("got %q", got)
	}
	if got := ReinitializedState(200).String(); got == "" {
		t.Fatal("expected a non-empty fallback string")
	}
}
