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

// SetNetworkHeader records where the network-layer header (e.g. an
// IP header) begins within the packet's current data, as an offset
// from the start of Data().
func (p *Packet) SetNetworkHeader(offset int) { p.networkOff = offset }

// NetworkHeader returns the network-layer header onward, or nil if no
// offset has been recorded.
func (p *Packet) NetworkHeader() []byte {
	if p.networkOff < 0 {
		return nil
	}
	return p.Data()[p.networkOff:]
}

// IPHeader is an alias for NetworkHeader: the router core only ever
// deals in IP-family network headers.
func (p *Packet) IPHeader() []byte { return p.NetworkHeader() }

// SetTransportHeader records where the transport-layer header (e.g. a
// TCP/UDP header) begins within the packet's current data, as an
// offset from the start of Data().
func (p *Packet) SetTransportHeader(offset int) { p.transportOff = offset }

// TransportHeader returns the transport-layer header onward, or nil
// if no offset has been recorded.
func (p *Packet) TransportHeader() []byte {
	if p.transportOff < 0 {
		return nil
	}
	return p.Data()[p.transportOff:]
}

// CopyAnnotationsFrom overwrites p's annotation block with src's,
// without touching p's data or trace identifier.
func (p *Packet) CopyAnnotationsFrom(src *Packet) {
	p.annotations = src.annotations
}
