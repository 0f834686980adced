// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Parse parses the content of a whole-file kubeconfig credential.
//
// The returned config is exactly what the file declares: entries keep their
// order and nothing is defaulted other than apiVersion and kind. A document
// declaring no entries is valid; a blank or null one is not. Any failure
// wraps ErrMalformedDocument.
func Parse(b []byte, validate ...ValidationFunc) (*Config, error) {
	c := &Config{}

	if err := c.Unmarshal(b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if c.Kind != "" && c.Kind != kind {
		return nil, fmt.Errorf("%w: unexpected kind %q", ErrMalformedDocument, c.Kind)
	}
	if c.APIVersion != "" && c.APIVersion != version {
		return nil, fmt.Errorf("%w: unexpected apiVersion %q", ErrMalformedDocument, c.APIVersion)
	}
	if err := checkNotEmpty(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if err := checkEntries(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	for _, v := range validate {
		if verr := v(c); verr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, verr)
		}
	}

	c.APIVersion = version
	c.Kind = kind
	if c.Clusters == nil {
		c.Clusters = []*ClusterConfig{}
	}
	if c.Contexts == nil {
		c.Contexts = []*ContextConfig{}
	}
	if c.Users == nil {
		c.Users = []*UserConfig{}
	}

	return c, nil
}

func checkNotEmpty(c *Config) error {
	if c == nil {
		return fmt.Errorf("config %w", errIsNil)
	}
	if cmp.Equal(c, &Config{}, cmpopts.EquateEmpty()) {
		return fmt.Errorf("config %w", errIsEmpty)
	}
	return nil
}

// checkEntries rejects null or unnamed entries, which kubectl cannot address.
func checkEntries(c *Config) error {
	for i, cl := range c.Clusters {
		if cl == nil || cl.Name == "" {
			return fmt.Errorf("cluster at index %d has no name", i)
		}
	}
	for i, ctx := range c.Contexts {
		if ctx == nil || ctx.Name == "" {
			return fmt.Errorf("context at index %d has no name", i)
		}
	}
	for i, u := range c.Users {
		if u == nil || u.Name == "" {
			return fmt.Errorf("user at index %d has no name", i)
		}
	}
	return nil
}

func sortConfigEntries(c *Config) {
	sort.SliceStable(
		c.Clusters, func(i, j int) bool {
			return c.Clusters[i].Name < c.Clusters[j].Name
		},
	)
	sort.SliceStable(
		c.Users, func(i, j int) bool {
			return c.Users[i].Name < c.Users[j].Name
		},
	)
	sort.SliceStable(
		c.Contexts, func(i, j int) bool {
			return c.Contexts[i].Name < c.Contexts[j].Name
		},
	)
}
