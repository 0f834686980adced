// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import (
	"errors"
	"fmt"
)

var (
	errIsNil   = errors.New("is nil")
	errIsEmpty = errors.New("is empty")
)

// ErrMalformedDocument is returned when a whole-file credential does not
// parse as a kubeconfig.
var ErrMalformedDocument = errors.New("malformed kubeconfig")

// ValidationFunc is used to validate a kubeconfig.
type ValidationFunc func(*Config) error

// WithValidContexts checks that each context references a known cluster and
// user. Empty references are allowed, kubectl treats them as unset.
func WithValidContexts(c *Config) error {
	clusterSet := make(map[string]struct{})
	userSet := make(map[string]struct{})

	for _, cluster := range c.Clusters {
		clusterSet[cluster.Name] = struct{}{}
	}
	for _, user := range c.Users {
		userSet[user.Name] = struct{}{}
	}

	var ee []error
	for _, ctx := range c.Contexts {
		if _, ok := clusterSet[ctx.Context.Cluster]; ctx.Context.Cluster != "" && !ok {
			ee = append(ee, fmt.Errorf(
				"context %q references unknown cluster %q",
				ctx.Name,
				ctx.Context.Cluster,
			))
		}
		if _, ok := userSet[ctx.Context.User]; ctx.Context.User != "" && !ok {
			ee = append(ee, fmt.Errorf(
				"context %q references unknown user %q",
				ctx.Name,
				ctx.Context.User,
			))
		}
	}
	return errors.Join(ee...)
}

// WithValidCurrentContext checks that a non-empty current context names an
// existing context.
func WithValidCurrentContext(c *Config) error {
	if c.CurrentContext == "" || c.ContextExists(c.CurrentContext) {
		return nil
	}
	return fmt.Errorf("current context %q does not exist", c.CurrentContext)
}
