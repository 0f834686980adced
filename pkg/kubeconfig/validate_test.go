// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithValidContexts(t *testing.T) {
	tests := []struct {
		name    string
		give    *Config
		wantErr string
	}{
		{
			name: "valid",
			give: fragment("cred1234", "https://localhost:6443", "", AuthInfo{Token: "t"}),
		},
		{
			name: "empty references are allowed",
			give: func() *Config {
				c, _ := Parse([]byte(sampleFile))
				return c
			}(),
		},
		{
			name: "unknown cluster and user",
			give: &Config{Contexts: []*ContextConfig{{Name: "x", Context: Context{Cluster: "nope", User: "nobody"}}}},
			wantErr: "context \"x\" references unknown cluster \"nope\"\n" +
				"context \"x\" references unknown user \"nobody\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WithValidContexts(tt.give)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestWithValidCurrentContext(t *testing.T) {
	c := fragment("cred1234", "", "", AuthInfo{Token: "t"})
	assert.NoError(t, WithValidCurrentContext(c))

	c.CurrentContext = "cred1234"
	assert.NoError(t, WithValidCurrentContext(c))

	c.CurrentContext = "missing"
	assert.EqualError(t, WithValidCurrentContext(c), `current context "missing" does not exist`)
}
