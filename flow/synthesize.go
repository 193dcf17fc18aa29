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

package flow

import (
	"strings"

	"github.com/bittoy/router/graph"
)

// Synthesize derives a compound class's own flow code from its inner
// router: the tunnel "input" element's outputs stand in for the
// compound's inputs, the tunnel "output" element's inputs stand in
// for the compound's outputs, and Reachable determines, for each
// compound input, which compound outputs it reaches.
//
// The returned code is built from synthetic single-letter classes:
// it carries no meaning beyond reproducing the same reachability
// matrix when re-parsed with ParseCode.
func Synthesize(inner *graph.Router) string {
	inTunnel, hasIn := inner.ElementByName("input")
	outTunnel, hasOut := inner.ElementByName("output")

	nIn := 0
	if hasIn {
		nIn = inTunnel.NOutputs
	}
	nOut := 0
	if hasOut {
		nOut = outTunnel.NInputs
	}
	if nIn == 0 || nOut == 0 {
		return ""
	}

	reachesOutput := make([][]bool, nIn)
	for i := 0; i < nIn; i++ {
		seed := inTunnel.Output(i)
		reached := Reachable(inner, []graph.Port{seed}, Forward)
		row := make([]bool, nOut)
		for j := 0; j < nOut; j++ {
			row[j] = reached[outTunnel.Input(j)]
		}
		reachesOutput[i] = row
	}

	outputLetter := func(j int) byte {
		return byte('a' + j%26)
	}
	unreachableLetter := outputLetter(nOut) // first letter past the output alphabet

	var outSide strings.Builder
	for j := 0; j < nOut; j++ {
		outSide.WriteByte(outputLetter(j))
	}

	var inSide strings.Builder
	for i := 0; i < nIn; i++ {
		var letters []byte
		for j := 0; j < nOut; j++ {
			if reachesOutput[i][j] {
				letters = append(letters, outputLetter(j))
			}
		}
		switch len(letters) {
		case 0:
			inSide.WriteByte(unreachableLetter)
		case 1:
			inSide.WriteByte(letters[0])
		default:
			inSide.WriteByte('[')
			inSide.Write(letters)
			inSide.WriteByte(']')
		}
	}

	return inSide.String() + "/" + outSide.String()
}
