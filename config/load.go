// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogama/zkx"
	"github.com/joho/godotenv"
)

// A LoadOption configures LoadFile.
type LoadOption func(*loadOptions)

type loadOptions struct {
	envFiles []string
	refs     Refs
}

// WithEnvFiles adds .env files to the variables available for ${VAR}
// expansion. Variables set in the process environment take precedence
// over the files, and later files take precedence over earlier ones.
func WithEnvFiles(files ...string) LoadOption {
	return func(o *loadOptions) {
		o.envFiles = append(o.envFiles, files...)
	}
}

// WithRefs supplies the shared objects named by "-ref" attributes.
func WithRefs(refs Refs) LoadOption {
	return func(o *loadOptions) {
		o.refs = refs
	}
}

// Decoder returns the document decoder for a file extension: ".xml",
// ".yaml", ".yml" or ".toml". The match is case-insensitive.
func Decoder(ext string) (func(io.Reader) (Element, error), error) {
	switch strings.ToLower(ext) {
	case ".xml":
		return DecodeXML, nil
	case ".yaml", ".yml":
		return DecodeYAML, nil
	case ".toml":
		return DecodeTOML, nil
	default:
		return nil, fmt.Errorf("zkx/config: unsupported document type %q", ext)
	}
}

// LoadFile reads the client document at path, expands environment
// variable references in its attribute values, and parses it into a
// zkx.Config. The document format is chosen by the file extension.
func LoadFile(path string, opts ...LoadOption) (*zkx.Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	decode, err := Decoder(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	el, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("zkx/config: %s: %w", path, err)
	}

	env, err := environment(o.envFiles)
	if err != nil {
		return nil, err
	}
	return Parse(el.Expand(env), o.refs)
}

func environment(files []string) (func(string) string, error) {
	var dotenv map[string]string
	if len(files) > 0 {
		var err error
		if dotenv, err = godotenv.Read(files...); err != nil {
			return nil, err
		}
	}
	return func(name string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return dotenv[name]
	}, nil
}
