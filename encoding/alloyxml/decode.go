// Copyright 2025 The CUE Authors
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

// Package alloyxml decodes Alloy instances from the XML format written by
// the Alloy analyzer.
//
// An instance document looks like this:
//
//	<alloy>
//	<instance bitwidth="4" maxseq="4" command="Run show" filename="/m.als">
//	  <sig label="univ" ID="2" builtin="yes"/>
//	  <sig label="Int" ID="1" parentID="2" builtin="yes"/>
//	  <sig label="this/A" ID="4" parentID="2">
//	    <atom label="A$0"/>
//	  </sig>
//	  <field label="r" ID="5" parentID="4">
//	    <tuple><atom label="A$0"/><atom label="A$0"/></tuple>
//	    <types><type ID="4"/><type ID="4"/></types>
//	  </field>
//	  <skolem label="$show_a" ID="6">
//	    <tuple><atom label="A$0"/></tuple>
//	    <types><type ID="4"/></types>
//	  </skolem>
//	</instance>
//	</alloy>
//
// The Int signature is synthesized from the bitwidth; its atoms are not
// listed in the document.
package alloyxml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"cuelang.org/go/cue/token"

	"alloyviz.dev/go/alloy"
	"alloyviz.dev/go/internal/avizdebug"
)

// An Option configures a Decoder.
type Option func(*Decoder)

// Strict makes the decoder check that every tuple atom belongs to the
// declared type of its column.
func Strict() Option {
	return func(d *Decoder) { d.strict = true }
}

// Decoder implements the decoding state.
type Decoder struct {
	xmlDec    *xml.Decoder
	fileName  string
	tokenFile *token.File
	strict    bool

	// Decode can only run once for a Decoder instance.
	decoderRan bool
}

// An element is a node of the document tree.
type element struct {
	name     string
	attr     []xml.Attr
	pos      token.Pos
	children []*element
}

// NewDecoder creates a decoder from a stream of XML input. Strict checking
// is enabled by default if AVIZ_DEBUG=strict is set.
func NewDecoder(fileName string, r io.Reader, opts ...Option) (*Decoder, error) {
	xmlText, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec := &Decoder{
		xmlDec:   xml.NewDecoder(bytes.NewReader(xmlText)),
		fileName: fileName,
		strict:   avizdebug.Flags.Strict,
	}
	for _, o := range opts {
		o(dec)
	}
	// Create a token file to report positions within the XML content.
	dec.tokenFile = token.NewFile(fileName, 0, len(xmlText))
	dec.tokenFile.SetLinesForContent(xmlText)
	return dec, nil
}

// Parse decodes the instance in src.
func Parse(fileName string, src []byte, opts ...Option) (*alloy.Instance, error) {
	dec, err := NewDecoder(fileName, bytes.NewReader(src), opts...)
	if err != nil {
		return nil, err
	}
	return dec.Decode()
}

// Decode parses the input stream and builds the instance it holds.
func (dec *Decoder) Decode() (*alloy.Instance, error) {
	if dec.decoderRan {
		return nil, io.EOF
	}
	dec.decoderRan = true
	root, err := dec.readTree()
	if err != nil {
		return nil, err
	}
	inst := root
	if inst == nil || inst.name != "instance" {
		if inst != nil && inst.name == "alloy" {
			inst = inst.child("instance")
		}
		if inst == nil {
			pos := token.NoPos
			if root != nil {
				pos = root.pos
			}
			return nil, alloy.Errorf(alloy.MissingElement, pos, "no <instance> element")
		}
	}
	b := &builder{dec: dec}
	res, err := b.build(inst)
	if err != nil {
		return nil, err
	}
	if dec.strict {
		if err := res.Validate(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// readTree reads the whole document and returns its root element.
func (dec *Decoder) readTree() (*element, error) {
	var root *element
	var stack []*element
	for {
		startOffset := dec.xmlDec.InputOffset()
		t, err := dec.xmlDec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch x := t.(type) {
		case xml.StartElement:
			e := &element{
				name: x.Name.Local,
				attr: x.Attr,
				pos:  dec.tokenFile.Pos(int(startOffset), token.NoRelPos),
			}
			if len(stack) == 0 {
				if root != nil {
					// Only the first top-level element is considered.
					return root, nil
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	return root, nil
}

func (e *element) attrValue(name string) (string, bool) {
	for _, a := range e.attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (e *element) childrenNamed(name string) []*element {
	var res []*element
	for _, c := range e.children {
		if c.name == name {
			res = append(res, c)
		}
	}
	return res
}

// required returns the value of a required attribute.
func (e *element) required(name string) (string, error) {
	v, ok := e.attrValue(name)
	if !ok {
		return "", alloy.Errorf(alloy.MissingAttribute, e.pos, "<%s> has no %s attribute", e.name, name)
	}
	return v, nil
}

func (e *element) intAttr(name string) (int, error) {
	v, err := e.required(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, alloy.Errorf(alloy.Structural, e.pos, "invalid %s %q", name, v)
	}
	return n, nil
}
