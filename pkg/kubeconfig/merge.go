// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import (
	"encoding/json"
	"fmt"

	"github.com/imdario/mergo"
)

// Merge merges credential fragments and whole kubeconfigs into one config.
//
// The order of the inputs is important: entries sharing a name are merged
// field by field, and a non-empty field of a later input overwrites the same
// field of an earlier one. A user's credential payload is replaced as a whole
// when the later entry carries one. Each category is then sorted by name.
//
// A cluster entry never ends up with both a certificate authority and
// insecure-skip-tls-verify: whichever of the two the later input sets wins.
//
// The current context is the last non-empty current context of the inputs.
// When no input sets one, it falls back to the single context of the first
// input, and is otherwise left empty.
//
// Inputs are never modified. Merging no inputs yields an empty config.
func Merge(cc ...*Config) (*Config, error) {
	r := New()

	clusters := map[string]*ClusterConfig{}
	contexts := map[string]*ContextConfig{}
	users := map[string]*UserConfig{}

	var primary *Config
	for _, c := range cc {
		if c == nil {
			continue
		}
		if primary == nil {
			primary = c
		}

		for _, cl := range c.Clusters {
			if cl == nil {
				continue
			}
			entry, err := clone(cl)
			if err != nil {
				return nil, fmt.Errorf("merge: cluster %q: %w", cl.Name, err)
			}
			existing, ok := clusters[cl.Name]
			if !ok {
				clusters[cl.Name] = entry
				r.Clusters = append(r.Clusters, entry)
				continue
			}
			if err := mergo.Merge(&existing.Cluster, entry.Cluster, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge: cluster %q: %w", cl.Name, err)
			}
			// the later input decides between a CA and skipping verification
			hasCA := entry.Cluster.CertificateAuthorityData != "" || entry.Cluster.CertificateAuthority != ""
			switch {
			case hasCA && !entry.Cluster.InsecureSkipTLSVerify:
				existing.Cluster.InsecureSkipTLSVerify = false
			case !hasCA && entry.Cluster.InsecureSkipTLSVerify:
				existing.Cluster.CertificateAuthorityData = ""
				existing.Cluster.CertificateAuthority = ""
			}
		}

		for _, ctx := range c.Contexts {
			if ctx == nil {
				continue
			}
			entry, err := clone(ctx)
			if err != nil {
				return nil, fmt.Errorf("merge: context %q: %w", ctx.Name, err)
			}
			existing, ok := contexts[ctx.Name]
			if !ok {
				contexts[ctx.Name] = entry
				r.Contexts = append(r.Contexts, entry)
				continue
			}
			if err := mergo.Merge(&existing.Context, entry.Context, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge: context %q: %w", ctx.Name, err)
			}
		}

		for _, u := range c.Users {
			if u == nil {
				continue
			}
			entry, err := clone(u)
			if err != nil {
				return nil, fmt.Errorf("merge: user %q: %w", u.Name, err)
			}
			existing, ok := users[u.Name]
			if !ok {
				users[u.Name] = entry
				r.Users = append(r.Users, entry)
				continue
			}
			if entry.User.hasPayload() {
				existing.User.clearPayload()
			}
			if err := mergo.Merge(&existing.User, entry.User, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge: user %q: %w", u.Name, err)
			}
		}

		if c.CurrentContext != "" {
			r.CurrentContext = c.CurrentContext
		}
		if c.Extensions != nil {
			r.Extensions = c.Extensions
		}
	}

	if r.CurrentContext == "" && primary != nil && len(primary.Contexts) == 1 && primary.Contexts[0] != nil {
		r.CurrentContext = primary.Contexts[0].Name
	}

	sortConfigEntries(r)

	return r, nil
}

// clone deep copies an entry so that merging into it never reaches back into
// the caller's inputs through shared pointers, slices or maps.
func clone[T any](v *T) (*T, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
