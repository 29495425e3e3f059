// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"strings"
)

// An Element is one node of a configuration document: a name, a flat
// set of attributes, and nested elements.
type Element struct {
	// Name is the element name. A namespace prefix such as "zk:" is
	// ignored.
	Name string
	// Attrs maps attribute names to their values.
	Attrs map[string]string
	// Children holds the nested elements in document order.
	Children []Element
}

// LocalName returns the element name without any namespace prefix.
func (el Element) LocalName() string {
	return localName(el.Name)
}

// Attr returns the value of the named attribute and whether the
// attribute is present with non-blank text.
func (el Element) Attr(name string) (string, bool) {
	v, ok := el.Attrs[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Expand returns a copy of el in which every ${VAR} or $VAR reference in
// an attribute value is replaced by mapping(VAR).
func (el Element) Expand(mapping func(string) string) Element {
	out := Element{Name: el.Name}
	if el.Attrs != nil {
		out.Attrs = make(map[string]string, len(el.Attrs))
		for k, v := range el.Attrs {
			out.Attrs[k] = os.Expand(v, mapping)
		}
	}
	for _, child := range el.Children {
		out.Children = append(out.Children, child.Expand(mapping))
	}
	return out
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Refs maps reference names used in "-ref" attributes to the shared
// objects they denote.
type Refs map[string]interface{}
