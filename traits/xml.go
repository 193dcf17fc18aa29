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

package traits

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// xmlElementmap mirrors the <elementmap> root element: optional
// package metadata plus a run of <entry/> children.
type xmlElementmap struct {
	XMLName   xml.Name   `xml:"elementmap"`
	Package   string     `xml:"package,attr"`
	SourceDir string     `xml:"sourcedir,attr"`
	DocHref   string     `xml:"dochref,attr"`
	Drivers   string     `xml:"drivers,attr"`
	Provides  string     `xml:"provides,attr"`
	Entries   []xmlEntry `xml:"entry"`
}

type xmlEntry struct {
	Name           string `xml:"name,attr"`
	CxxClass       string `xml:"cxxclass,attr"`
	DocName        string `xml:"docname,attr"`
	HeaderFile     string `xml:"headerfile,attr"`
	SourceFile     string `xml:"sourcefile,attr"`
	PortCountCode  string `xml:"portcount,attr"`
	ProcessingCode string `xml:"processing,attr"`
	FlowCode       string `xml:"flowcode,attr"`
	Flags          string `xml:"flags,attr"`
	Requires       string `xml:"requires,attr"`
	Provides       string `xml:"provides,attr"`
	NoExport       string `xml:"noexport,attr"`
	Libs           string `xml:"libs,attr"`
}

// entityDecl matches one internal-subset `<!ENTITY name "value">`
// declaration. Only the simple (non-parameter, non-external) form is
// supported, which is all a traits registry needs.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+(\S+)\s+"([^"]*)"\s*>`)

// extractEntities scans src for user-defined <!ENTITY> declarations
// and returns them as a name->replacement map suitable for
// xml.Decoder.Entity. Standard entities (&amp; &lt; &gt; &quot;
// &apos;) and numeric character references are handled natively by
// the decoder and never need to appear here.
func extractEntities(src string) map[string]string {
	m := make(map[string]string)
	for _, match := range entityDecl.FindAllStringSubmatch(src, -1) {
		m[match[1]] = match[2]
	}
	return m
}

func (t *Table) loadXML(src, origin string) error {
	entities := extractEntities(src)
	dec := xml.NewDecoder(strings.NewReader(src))
	dec.Entity = entities
	dec.Strict = false

	var doc xmlElementmap
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%s: %w", origin, err)
	}

	if doc.Package != "" {
		t.Package = doc.Package
	}
	if doc.SourceDir != "" {
		t.SourceDir = doc.SourceDir
	}
	if doc.DocHref != "" {
		t.DocHref = doc.DocHref
	}
	if doc.Drivers != "" {
		t.Drivers = doc.Drivers
	}
	if doc.Provides != "" {
		t.Provides = doc.Provides
	}

	for _, xe := range doc.Entries {
		e := entry{
			Name:           xe.Name,
			CxxClass:       xe.CxxClass,
			DocName:        xe.DocName,
			HeaderFile:     xe.HeaderFile,
			SourceFile:     xe.SourceFile,
			PortCountCode:  xe.PortCountCode,
			ProcessingCode: xe.ProcessingCode,
			FlowCode:       xe.FlowCode,
			Flags:          xe.Flags,
			Requires:       xe.Requires,
			Provides:       xe.Provides,
			Libs:           xe.Libs,
		}
		setEntryField(&e, "noexport", xe.NoExport)
		if err := t.applyEntry(e); err != nil {
			return fmt.Errorf("%s: %w", origin, err)
		}
	}
	return nil
}
