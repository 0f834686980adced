// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import (
	"fmt"
	"reflect"
)

const (
	version = "v1"
	kind    = "Config"
)

// New creates a new kubeconfig.
func New() *Config {
	return &Config{
		APIVersion: version,
		Kind:       kind,
		Clusters:   []*ClusterConfig{},
		Users:      []*UserConfig{},
		Contexts:   []*ContextConfig{},
	}
}

// Config is a kubeconfig.
type Config struct {
	Kind           string           `json:"kind"`
	APIVersion     string           `json:"apiVersion"`
	Preferences    Preferences      `json:"preferences"`
	CurrentContext string           `json:"current-context"`
	Clusters       []*ClusterConfig `json:"clusters"`
	Contexts       []*ContextConfig `json:"contexts"`
	Users          []*UserConfig    `json:"users"`
	// +optional
	Extensions interface{} `json:"extensions,omitempty"`
}

// UserConfig is a user in a kubeconfig.
type UserConfig struct {
	Name string   `json:"name"`
	User AuthInfo `json:"user"`
}

// ContextConfig is a context in a kubeconfig.
type ContextConfig struct {
	Name    string  `json:"name"`
	Context Context `json:"context"`
}

// ClusterConfig is a cluster in a kubeconfig.
type ClusterConfig struct {
	Name    string  `json:"name"`
	Cluster Cluster `json:"cluster"`
}

// AddCluster appends a cluster entry. The cluster must have a payload.
func (c *Config) AddCluster(cluster *ClusterConfig) error {
	if err := checkEntry("add cluster", cluster, func(e *ClusterConfig) bool {
		return reflect.ValueOf(e.Cluster).IsZero()
	}); err != nil {
		return err
	}
	c.Clusters = append(c.Clusters, cluster)
	return nil
}

// AddUser appends a user entry. The user must carry credential material.
func (c *Config) AddUser(user *UserConfig) error {
	if err := checkEntry("add user", user, func(e *UserConfig) bool {
		return !e.User.hasPayload()
	}); err != nil {
		return err
	}
	c.Users = append(c.Users, user)
	return nil
}

// AddContext appends a context entry.
func (c *Config) AddContext(context *ContextConfig) error {
	if err := checkEntry("add context", context, func(e *ContextConfig) bool {
		return reflect.ValueOf(e.Context).IsZero()
	}); err != nil {
		return err
	}
	c.Contexts = append(c.Contexts, context)
	return nil
}

func checkEntry[T any](op string, entry *T, empty func(*T) bool) error {
	if entry == nil {
		return fmt.Errorf("%s: %w", op, errIsNil)
	}
	if empty(entry) {
		return fmt.Errorf("%s: %w", op, errIsEmpty)
	}
	return nil
}

func (c *ClusterConfig) entryName() string { return c.Name }
func (c *ContextConfig) entryName() string { return c.Name }
func (u *UserConfig) entryName() string    { return u.Name }

// find returns the first non-nil entry called name.
func find[T interface {
	comparable
	entryName() string
}](entries []T, name string) T {
	var zero T
	for _, e := range entries {
		if e != zero && e.entryName() == name {
			return e
		}
	}
	return zero
}

func (c *Config) GetCluster(name string) *ClusterConfig { return find(c.Clusters, name) }
func (c *Config) GetContext(name string) *ContextConfig { return find(c.Contexts, name) }
func (c *Config) GetUser(name string) *UserConfig       { return find(c.Users, name) }

// ContextExists reports whether a context called name is present.
func (c *Config) ContextExists(name string) bool {
	return c.GetContext(name) != nil
}

// Secrets lists the non-empty secret values held by the users, for masking.
func (c *Config) Secrets() []string {
	var out []string
	for _, u := range c.Users {
		if u != nil {
			out = append(out, u.User.Secrets()...)
		}
	}
	return out
}
