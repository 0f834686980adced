// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	yamlv3 "gopkg.in/yaml.v3"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/yaml"
)

// Unmarshal unmarshals a kubeconfig file from a byte slice.
func (c *Config) Unmarshal(b []byte) error {
	b, err := yaml.YAMLToJSON(b)
	if err != nil {
		return fmt.Errorf("unmarshall: convert yaml to json: %w", err)
	}
	err = json.Unmarshal(b, c)
	if err != nil {
		return fmt.Errorf("unmarshall json: %w", err)
	}
	return nil
}

// Marshal marshals a kubeconfig file to a byte slice.
//
// The output is canonical: a "---" document start, mapping keys sorted at
// every level, string values double quoted, empty mappings and sequences
// written inline. Sequences are indented two spaces under their key.
// Marshalling the same config always yields the same bytes.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	if out.APIVersion == "" {
		out.APIVersion = version
	}
	if out.Kind == "" {
		out.Kind = kind
	}
	if out.Clusters == nil {
		out.Clusters = []*ClusterConfig{}
	}
	if out.Contexts == nil {
		out.Contexts = []*ContextConfig{}
	}
	if out.Users == nil {
		out.Users = []*UserConfig{}
	}

	j, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshall: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("marshall: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(generic)); err != nil {
		return nil, fmt.Errorf("marshall yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshall yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// toNode converts a decoded JSON value into a yaml node with sorted keys and
// quoted strings.
func toNode(v interface{}) *yamlv3.Node {
	switch t := v.(type) {
	case map[string]interface{}:
		n := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
		if len(t) == 0 {
			n.Style = yamlv3.FlowStyle
			return n
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.Content = append(n.Content,
				&yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: k},
				toNode(t[k]),
			)
		}
		return n
	case []interface{}:
		n := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
		if len(t) == 0 {
			n.Style = yamlv3.FlowStyle
			return n
		}
		for _, item := range t {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case string:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: t, Style: yamlv3.DoubleQuotedStyle}
	case json.Number:
		tag := "!!int"
		if _, err := t.Int64(); err != nil {
			tag = "!!float"
		}
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tag, Value: t.String()}
	case bool:
		value := "false"
		if t {
			value = "true"
		}
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!bool", Value: value}
	default:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// Verify checks that b loads with the same loader kubectl uses.
func Verify(b []byte) error {
	if _, err := clientcmd.Load(b); err != nil {
		return fmt.Errorf("verify kubeconfig: %w", err)
	}
	return nil
}
