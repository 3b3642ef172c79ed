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

// Package pool provides a sync.Pool-backed scratch-buffer arena for
// building APDUs, sized to a negotiated max-APDU length. It replaces a
// single global scratch buffer shared across every request: callers
// that hold a buffer across a blocking operation no longer risk a
// concurrent handler overwriting it underneath them.
package pool

import "sync"

// Arena hands out byte slices of a fixed capacity and recycles them.
type Arena struct {
	size int
	pool sync.Pool
}

// New returns an Arena whose buffers have capacity size.
func New(size int) *Arena {
	a := &Arena{size: size}
	a.pool.New = func() any {
		return make([]byte, 0, size)
	}
	return a
}

// Get returns a zero-length buffer with at least Arena's configured
// capacity.
func (a *Arena) Get() []byte {
	buf := a.pool.Get().([]byte)
	return buf[:0]
}

// Put returns buf to the arena for reuse. Buffers smaller than the
// arena's configured size are dropped rather than pooled, since a
// pool of mixed-capacity buffers would defeat the point of sizing it
// to the negotiated max-APDU.
func (a *Arena) Put(buf []byte) {
	if cap(buf) < a.size {
		return
	}
	a.pool.Put(buf[:0])
}
