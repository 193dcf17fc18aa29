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

package packet

import (
	"encoding/binary"
	"math"
	"net"
	"time"
)

// AnnotationSize is the fixed size of a packet's annotation block.
const AnnotationSize = 48

const (
	offDstIP     = 0  // 4 bytes, IPv4
	offPaint     = 4  // 1 byte
	offFixIPSrc  = 5  // 1 byte, boolean
	offICMPOff   = 6  // 2 bytes, uint16
	offTimestamp = 8  // 8 bytes, unix nanoseconds
	offFwdRate   = 16 // 4 bytes, float32 bits
	offRevRate   = 20 // 4 bytes, float32 bits
	offCycles    = 24 // 8 bytes, uint64
	offUser      = 32 // remaining bytes, caller-defined
)

// annotations is the fixed-size named-slot block carried by every
// Packet, copied by value on clone.
type annotations [AnnotationSize]byte

// DstIP returns the destination-IP annotation.
func (a *annotations) DstIP() net.IP {
	return net.IP(append([]byte(nil), a[offDstIP:offDstIP+4]...))
}

// SetDstIP sets the destination-IP annotation from ip's 4-byte form.
func (a *annotations) SetDstIP(ip net.IP) {
	v4 := ip.To4()
	if v4 == nil {
		return
	}
	copy(a[offDstIP:offDstIP+4], v4)
}

// Paint returns the 8-bit paint tag used to mark packets as
// belonging to one flow/color for later demultiplexing.
func (a *annotations) Paint() byte { return a[offPaint] }

// SetPaint sets the paint tag.
func (a *annotations) SetPaint(p byte) { a[offPaint] = p }

// FixIPSrc reports whether the fix-IP-source flag is set.
func (a *annotations) FixIPSrc() bool { return a[offFixIPSrc] != 0 }

// SetFixIPSrc sets the fix-IP-source flag.
func (a *annotations) SetFixIPSrc(v bool) {
	if v {
		a[offFixIPSrc] = 1
	} else {
		a[offFixIPSrc] = 0
	}
}

// ICMPOffset returns the ICMP parameter-problem offset annotation.
func (a *annotations) ICMPOffset() uint16 {
	return binary.LittleEndian.Uint16(a[offICMPOff : offICMPOff+2])
}

// SetICMPOffset sets the ICMP parameter-problem offset annotation.
func (a *annotations) SetICMPOffset(off uint16) {
	binary.LittleEndian.PutUint16(a[offICMPOff:offICMPOff+2], off)
}

// Timestamp returns the per-packet timestamp annotation.
func (a *annotations) Timestamp() time.Time {
	ns := int64(binary.LittleEndian.Uint64(a[offTimestamp : offTimestamp+8]))
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// SetTimestamp sets the per-packet timestamp annotation.
func (a *annotations) SetTimestamp(t time.Time) {
	binary.LittleEndian.PutUint64(a[offTimestamp:offTimestamp+8], uint64(t.UnixNano()))
}

// ForwardRate returns the forward-direction rate-hint annotation.
func (a *annotations) ForwardRate() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(a[offFwdRate : offFwdRate+4]))
}

// SetForwardRate sets the forward-direction rate-hint annotation.
func (a *annotations) SetForwardRate(r float32) {
	binary.LittleEndian.PutUint32(a[offFwdRate:offFwdRate+4], math.Float32bits(r))
}

// ReverseRate returns the reverse-direction rate-hint annotation.
func (a *annotations) ReverseRate() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(a[offRevRate : offRevRate+4]))
}

// SetReverseRate sets the reverse-direction rate-hint annotation.
func (a *annotations) SetReverseRate(r float32) {
	binary.LittleEndian.PutUint32(a[offRevRate:offRevRate+4], math.Float32bits(r))
}

// CycleCount returns the cycle-counter annotation.
func (a *annotations) CycleCount() uint64 {
	return binary.LittleEndian.Uint64(a[offCycles : offCycles+8])
}

// SetCycleCount sets the cycle-counter annotation.
func (a *annotations) SetCycleCount(c uint64) {
	binary.LittleEndian.PutUint64(a[offCycles:offCycles+8], c)
}

// User returns the caller-defined annotation region, live (not
// copied): writes through the returned slice mutate the packet.
func (a *annotations) User() []byte {
	return a[offUser:]
}
