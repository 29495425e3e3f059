// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrNoRoot is returned by the decoders when a document does not
// consist of exactly one root element.
var ErrNoRoot = errors.New("zkx/config: document must contain exactly one root element")

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
}

// DecodeXML reads an XML document. Namespace prefixes and namespace
// declarations are dropped.
func DecodeXML(r io.Reader) (Element, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); errors.Is(err, io.EOF) {
		return Element{}, ErrNoRoot
	} else if err != nil {
		return Element{}, err
	}
	return root.element(), nil
}

func (n xmlNode) element() Element {
	el := Element{Name: n.XMLName.Local, Attrs: make(map[string]string, len(n.Attrs))}
	for _, a := range n.Attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		el.Attrs[a.Name.Local] = a.Value
	}
	for _, child := range n.Children {
		el.Children = append(el.Children, child.element())
	}
	return el
}

// DecodeYAML reads a YAML document whose top level is a mapping with a
// single key, the root element name. Scalar values are attributes,
// mappings are nested elements, and a sequence of mappings is a
// repeated element. A key with no value is an empty nested element.
func DecodeYAML(r io.Reader) (Element, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); errors.Is(err, io.EOF) {
		return Element{}, ErrNoRoot
	} else if err != nil {
		return Element{}, err
	}

	if len(doc.Content) != 1 {
		return Element{}, ErrNoRoot
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || len(root.Content) != 2 {
		return Element{}, ErrNoRoot
	}
	return yamlElement(root.Content[0].Value, root.Content[1])
}

func yamlElement(name string, n *yaml.Node) (Element, error) {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	el := Element{Name: name, Attrs: map[string]string{}}
	if isYAMLNull(n) {
		return el, nil
	} else if n.Kind != yaml.MappingNode {
		return Element{}, fmt.Errorf("zkx/config: line %d: element %q must be a mapping", n.Line, name)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		for value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		switch {
		case value.Kind == yaml.ScalarNode && !isYAMLNull(value):
			el.Attrs[key] = value.Value
		case value.Kind == yaml.SequenceNode:
			for _, item := range value.Content {
				child, err := yamlElement(key, item)
				if err != nil {
					return Element{}, err
				}
				el.Children = append(el.Children, child)
			}
		default:
			child, err := yamlElement(key, value)
			if err != nil {
				return Element{}, err
			}
			el.Children = append(el.Children, child)
		}
	}
	return el, nil
}

func isYAMLNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// DecodeTOML reads a TOML document whose only top-level key is a table
// named after the root element. Keys with scalar values are
// attributes, tables are nested elements, and arrays of tables are
// repeated elements. Keys are visited in lexical order.
func DecodeTOML(r io.Reader) (Element, error) {
	var doc map[string]interface{}
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return Element{}, err
	}
	if len(doc) != 1 {
		return Element{}, ErrNoRoot
	}
	var name string
	for name = range doc {
	}
	table, ok := doc[name].(map[string]interface{})
	if !ok {
		return Element{}, ErrNoRoot
	}
	return tomlElement(name, table)
}

func tomlElement(name string, table map[string]interface{}) (Element, error) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	el := Element{Name: name, Attrs: map[string]string{}}
	for _, k := range keys {
		switch v := table[k].(type) {
		case map[string]interface{}:
			child, err := tomlElement(k, v)
			if err != nil {
				return Element{}, err
			}
			el.Children = append(el.Children, child)
		case []map[string]interface{}:
			for _, item := range v {
				child, err := tomlElement(k, item)
				if err != nil {
					return Element{}, err
				}
				el.Children = append(el.Children, child)
			}
		case []interface{}:
			for _, item := range v {
				t, ok := item.(map[string]interface{})
				if !ok {
					return Element{}, fmt.Errorf("zkx/config: key %q in %q must be a table or scalar", k, name)
				}
				child, err := tomlElement(k, t)
				if err != nil {
					return Element{}, err
				}
				el.Children = append(el.Children, child)
			}
		default:
			el.Attrs[k] = fmt.Sprint(v)
		}
	}
	return el, nil
}
