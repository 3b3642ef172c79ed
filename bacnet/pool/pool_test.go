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

package pool

import "testing"

func TestArenaGetReturnsZeroLengthWithCapacity(t *testing.T) {
	a := New(128)
	buf := a.Get()
	if len(buf) != 0 {
		t.Fatalf("got len %d, want 0", len(buf))
	}
	if cap(buf) < 128 {
		t.Fatalf("got cap %d, want >= 128", cap(buf))
	}
}

func TestArenaPutRecyclesBuffer(t *testing.T) {
	a := New(64)
	buf := a.Get()
	buf = append(buf, make([]byte, 64)...)
	a.Put(buf)

	got := a.Get()
	if cap(got) < 64 {
		t.Fatalf("got cap %d, want >= 64", cap(got))
	}
}

func TestArenaPutDropsUndersizedBuffer(t *testing.T) {
	a := New(128)
	small := make([]byte, 0, 16)
	a.Put(small) // must be dropped, not pooled

	got := a.Get()
	if cap(got) < 128 {
		t.Fatalf("got cap %d, want >= 128 (undersized buffer must not have been reused)", cap(got))
	}
}
