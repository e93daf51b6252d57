// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package control

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadYAML decodes a YAML document into an option map.
// Nested mappings are flattened into dotted keys, so
//
//	restarts:
//	  max: 5
//
// and `restarts.max: 5` are equivalent.
func ReadYAML(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse control yaml: %w", err)
	}
	opts := make(map[string]any, len(doc))
	flatten("", doc, opts)
	return opts, nil
}

func flatten(prefix string, doc map[string]any, opts map[string]any) {
	for k, v := range doc {
		if prefix != "" {
			k = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(k, m, opts)
			continue
		}
		opts[k] = v
	}
}

// ParseYAML parses and resolves the controls of a YAML document for dimension n.
func ParseYAML(n int, data []byte) (Control, error) {
	opts, err := ReadYAML(data)
	if err != nil {
		return Control{}, err
	}
	c, err := Resolve(n, opts)
	if err != nil {
		return Control{}, fmt.Errorf("invalid control: %w", err)
	}
	return c, nil
}

// LoadOptions reads the option map stored in a YAML file.
func LoadOptions(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read control file %s: %w", path, err)
	}
	opts, err := ReadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse control file %s: %w", path, err)
	}
	return opts, nil
}

// Load reads and resolves the controls stored in a YAML file for dimension n.
func Load(n int, path string) (Control, error) {
	opts, err := LoadOptions(path)
	if err != nil {
		return Control{}, err
	}
	c, err := Resolve(n, opts)
	if err != nil {
		return Control{}, fmt.Errorf("invalid control file %s: %w", path, err)
	}
	return c, nil
}

// ParseAssignments parses `key=value` pairs into opts.
// Values are decoded as YAML scalars, so `tol=1e-8` yields a number
// and `trace=true` a boolean.
func ParseAssignments(opts map[string]any, pairs []string) error {
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return fmt.Errorf("invalid assignment %q, want key=value", p)
		}
		var val any
		if err := yaml.Unmarshal([]byte(v), &val); err != nil {
			return fmt.Errorf("invalid value for %s: %w", k, err)
		}
		opts[k] = val
	}
	return nil
}
