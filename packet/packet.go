/*
 * Copyright 2025 The Router Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package packet implements the copy-on-write, reference-counted
// packet object passed between elements: an owning buffer with
// headroom/tailroom for in-place header push/pull, plus a fixed-size
// annotation block.
package packet

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// DefaultHeadroom is reserved at the front of every packet made with
// Make so a handful of encapsulating headers can be pushed without
// forcing a reallocation.
const DefaultHeadroom = 28

// storage is the underlying byte buffer a Packet's data view sits in,
// shared across clones until one of them needs to mutate it.
type storage struct {
	data     []byte
	refcount int
}

// Packet is a single-owner reference to a byte buffer plus
// annotations. The zero value is not valid; construct one with Make
// or MakeFromData.
type Packet struct {
	buf   *storage
	start int
	end   int // start+length

	// networkOff/transportOff record where NetworkHeader/
	// TransportHeader begin within the data region, relative to
	// start. -1 means unset.
	networkOff   int
	transportOff int

	annotations annotations
	traceID     uuid.UUID
}

func newTraceID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Make returns a new packet of length bytes, all zero, with
// DefaultHeadroom reserved ahead of the data and no tailroom.
func Make(length int) *Packet {
	buf := make([]byte, DefaultHeadroom+length)
	return &Packet{
		buf:          &storage{data: buf, refcount: 1},
		start:        DefaultHeadroom,
		end:          DefaultHeadroom + length,
		networkOff:   -1,
		transportOff: -1,
		traceID:      newTraceID(),
	}
}

// MakeFromData returns a new packet built from a copy of data, with
// headroom bytes reserved ahead of it and tailroom bytes reserved
// after it.
func MakeFromData(headroom int, data []byte, tailroom int) *Packet {
	buf := make([]byte, headroom+len(data)+tailroom)
	copy(buf[headroom:], data)
	return &Packet{
		buf:          &storage{data: buf, refcount: 1},
		start:        headroom,
		end:          headroom + len(data),
		networkOff:   -1,
		transportOff: -1,
		traceID:      newTraceID(),
	}
}

// Length returns the packet's current data length.
func (p *Packet) Length() int { return p.end - p.start }

// Data returns a read-only view of the packet's current data region.
// The returned slice aliases the packet's buffer and must not be
// retained past the next mutating call.
func (p *Packet) Data() []byte { return p.buf.data[p.start:p.end] }

// EndData returns a read-only view starting just past the packet's
// data region (the unused tailroom).
func (p *Packet) EndData() []byte { return p.buf.data[p.end:] }

// Headroom reports how many bytes are free before the data region.
func (p *Packet) Headroom() int { return p.start }

// Tailroom reports how many bytes are free after the data region.
func (p *Packet) Tailroom() int { return len(p.buf.data) - p.end }

// TraceID returns the packet's trace identifier, assigned once at
// creation and preserved across Clone.
func (p *Packet) TraceID() uuid.UUID { return p.traceID }

// Annotations returns the packet's own mutable annotation block.
func (p *Packet) Annotations() *annotations { return &p.annotations }

// Unique reports whether p is the buffer's sole owner.
func (p *Packet) Unique() bool { return p.buf.refcount == 1 }

// Clone returns a new packet sharing the same underlying buffer
// (incrementing its reference count) with the same data view and a
// copy of the annotation block. The clone and the original are
// independent packet headers: advancing one's data pointer (Pull,
// Take) does not affect the other.
func (p *Packet) Clone() *Packet {
	p.buf.refcount++
	clone := *p
	return &clone
}

// MakeUnique returns a packet equivalent to p that is guaranteed to
// be the sole owner of its buffer, copying the underlying bytes if
// another clone is still sharing them. Callers that need to mutate
// packet content in place must call MakeUnique first.
func (p *Packet) MakeUnique() *Packet {
	if p.Unique() {
		return p
	}
	p.buf.refcount--
	newBuf := make([]byte, len(p.buf.data))
	copy(newBuf, p.buf.data)
	clone := *p
	clone.buf = &storage{data: newBuf, refcount: 1}
	return &clone
}

// Kill drops p's reference to its buffer. p must not be used again
// afterward.
func (p *Packet) Kill() {
	p.buf.refcount--
}

// Push prepends n bytes of header space, growing the buffer if
// existing headroom is insufficient, and returns the (now unique)
// packet with those bytes available (uninitialized) at the front of
// Data(). The caller must use the returned packet in place of p.
func (p *Packet) Push(n int) *Packet {
	if n < 0 {
		panic("packet: negative Push length")
	}
	q := p.MakeUnique()
	if q.Headroom() < n {
		q = q.reallocate(n+DefaultHeadroom, q.Tailroom())
	}
	q.start -= n
	return q
}

// Pull advances the data pointer by n bytes, shrinking the packet
// from the front. No copy is needed: Pull never writes to the shared
// buffer.
func (p *Packet) Pull(n int) *Packet {
	if n < 0 || n > p.Length() {
		panic("packet: Pull length out of range")
	}
	p.start += n
	return p
}

// Put extends the packet by n bytes at the tail, growing the buffer
// if existing tailroom is insufficient, and returns the (now unique)
// packet with those bytes available (uninitialized) at the new tail.
func (p *Packet) Put(n int) *Packet {
	if n < 0 {
		panic("packet: negative Put length")
	}
	q := p.MakeUnique()
	if q.Tailroom() < n {
		q = q.reallocate(q.Headroom(), n+DefaultHeadroom)
	}
	q.end += n
	return q
}

// Take shrinks the packet by n bytes at the tail. No copy is needed.
func (p *Packet) Take(n int) *Packet {
	if n < 0 || n > p.Length() {
		panic("packet: Take length out of range")
	}
	p.end -= n
	return p
}

// reallocate grows q's buffer so it has at least extraHead bytes of
// headroom and extraTail bytes of tailroom beyond the current data,
// copying the existing data into the middle of the new buffer. q must
// already be unique.
func (q *Packet) reallocate(extraHead, extraTail int) *Packet {
	length := q.Length()
	newBuf := make([]byte, extraHead+length+extraTail)
	copy(newBuf[extraHead:extraHead+length], q.Data())
	q.buf = &storage{data: newBuf, refcount: 1}
	q.start = extraHead
	q.end = extraHead + length
	return q
}

func (p *Packet) String() string {
	return fmt.Sprintf("packet(len=%d, headroom=%d, tailroom=%d, trace=%s)",
		p.Length(), p.Headroom(), p.Tailroom(), p.traceID)
}
