// Copyright 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

package kubeconfig

import "sort"

// TAKEN FROM: https://github.com/kubernetes/kubernetes/blob/master/staging/src/k8s.io/client-go/tools/clientcmd/api/v1/types.go
// -----------------------------------------------------------------------------
// KUBERNETES TYPES
//
// These types are copied from the kubernetes client-go package.
// They have been adapted to be compatible with the json and yaml package.
// All the []byte fields have been changed to string.
// Extensions have been changed from runtime.Object to interface{}.
// Fields that are never serialized (LocationOfOrigin, StdinUnavailable...) are dropped.

// Preferences holds general information to be use for cli interactions.
type Preferences struct {
	// +optional
	Colors bool `json:"colors,omitempty"`
	// +optional
	Extensions interface{} `json:"extensions,omitempty"`
}

// Cluster contains information about how to communicate with a kubernetes cluster
type Cluster struct {
	// Server is the address of the kubernetes cluster (https://hostname:port).
	Server string `json:"server"`
	// TLSServerName is used to check server certificate. If TLSServerName is empty, the hostname used to contact the server is used.
	// +optional
	TLSServerName string `json:"tls-server-name,omitempty"`
	// InsecureSkipTLSVerify skips the validity check for the server's certificate. This will make your HTTPS connections insecure.
	// +optional
	InsecureSkipTLSVerify bool `json:"insecure-skip-tls-verify,omitempty"`
	// CertificateAuthority is the path to a cert file for the certificate authority.
	// +optional
	CertificateAuthority string `json:"certificate-authority,omitempty"`
	// CertificateAuthorityData contains PEM-encoded certificate authority certificates. Overrides CertificateAuthority
	// +optional
	CertificateAuthorityData string `json:"certificate-authority-data,omitempty"`
	// ProxyURL is the URL to the proxy to be used for all requests made by this client.
	// +optional
	ProxyURL string `json:"proxy-url,omitempty"`
	// DisableCompression allows client to opt-out of response compression for all requests to the server.
	// +optional
	DisableCompression bool `json:"disable-compression,omitempty"`
	// +optional
	Extensions interface{} `json:"extensions,omitempty"`
}

// AuthInfo contains information that describes identity information.  This authenticate the user to the kubernetes cluster.
type AuthInfo struct {
	// ClientCertificate is the path to a client cert file for TLS.
	// +optional
	ClientCertificate string `json:"client-certificate,omitempty"`
	// ClientCertificateData contains PEM-encoded data from a client cert file for TLS. Overrides ClientCertificate
	// +optional
	ClientCertificateData string `json:"client-certificate-data,omitempty" datapolicy:"security-key"`
	// ClientKey is the path to a client key file for TLS.
	// +optional
	ClientKey string `json:"client-key,omitempty"`
	// ClientKeyData contains PEM-encoded data from a client key file for TLS. Overrides ClientKey
	// +optional
	ClientKeyData string `json:"client-key-data,omitempty" datapolicy:"security-key"`
	// Token is the bearer token for authentication to the kubernetes cluster.
	// +optional
	Token string `json:"token,omitempty" datapolicy:"token"`
	// TokenFile is a pointer to a file that contains a bearer token (as described above).  If both Token and TokenFile are present, Token takes precedence.
	// +optional
	TokenFile string `json:"tokenFile,omitempty"`
	// Impersonate is the username to act-as.
	// +optional
	Impersonate string `json:"as,omitempty"`
	// ImpersonateUID is the uid to impersonate.
	// +optional
	ImpersonateUID string `json:"as-uid,omitempty"`
	// ImpersonateGroups is the groups to impersonate.
	// +optional
	ImpersonateGroups []string `json:"as-groups,omitempty"`
	// ImpersonateUserExtra contains additional information for impersonated user.
	// +optional
	ImpersonateUserExtra map[string][]string `json:"as-user-extra,omitempty"`
	// Username is the username for basic authentication to the kubernetes cluster.
	// +optional
	Username string `json:"username,omitempty"`
	// Password is the password for basic authentication to the kubernetes cluster.
	// +optional
	Password string `json:"password,omitempty" datapolicy:"password"`
	// AuthProvider specifies a custom authentication plugin for the kubernetes cluster.
	// +optional
	AuthProvider *AuthProviderConfig `json:"auth-provider,omitempty"`
	// Exec specifies a custom exec-based authentication plugin for the kubernetes cluster.
	// +optional
	Exec *ExecConfig `json:"exec,omitempty"`
	// +optional
	Extensions interface{} `json:"extensions,omitempty"`
}

// AuthProviderConfig holds the configuration for a specified auth provider.
type AuthProviderConfig struct {
	Name string `json:"name"`
	// +optional
	Config map[string]string `json:"config,omitempty"`
}

// Context is a tuple of references to a cluster (how do I communicate with a kubernetes cluster), a user (how do I identify myself), and a namespace (what subset of resources do I want to work with)
type Context struct {
	// Cluster is the name of the cluster for this context
	Cluster string `json:"cluster"`
	// AuthInfo is the name of the authInfo for this context
	User string `json:"user"`
	// Namespace is the default namespace to use on unspecified requests
	// +optional
	Namespace string `json:"namespace,omitempty"`
	// +optional
	Extensions interface{} `json:"extensions,omitempty"`
}

// ExecConfig specifies a command to provide client credentials. The command is exec'd
// and outputs structured stdout holding credentials.
type ExecConfig struct {
	// Command to execute.
	Command string `json:"command"`
	// Arguments to pass to the command when executing it.
	// +optional
	Args []string `json:"args"`
	// Env defines additional environment variables to expose to the process.
	// +optional
	Env []ExecEnvVar `json:"env"`
	// Preferred input version of the ExecInfo.
	APIVersion string `json:"apiVersion,omitempty"`
	// This text is shown to the user when the executable doesn't seem to be present.
	InstallHint string `json:"installHint,omitempty"`
	// ProvideClusterInfo determines whether or not to provide cluster information to this exec plugin.
	ProvideClusterInfo bool `json:"provideClusterInfo"`
	// InteractiveMode determines this plugin's relationship with standard input.
	// +optional
	InteractiveMode string `json:"interactiveMode,omitempty"`
}

// ExecEnvVar is used for setting environment variables when executing an exec-based credential plugin.
type ExecEnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// hasPayload reports whether any credential material is set.
func (a AuthInfo) hasPayload() bool {
	return a.Token != "" || a.TokenFile != "" ||
		a.Username != "" || a.Password != "" ||
		a.ClientCertificate != "" || a.ClientCertificateData != "" ||
		a.ClientKey != "" || a.ClientKeyData != "" ||
		a.AuthProvider != nil || a.Exec != nil
}

// clearPayload drops all credential material, leaving impersonation and extensions.
func (a *AuthInfo) clearPayload() {
	a.Token, a.TokenFile = "", ""
	a.Username, a.Password = "", ""
	a.ClientCertificate, a.ClientCertificateData = "", ""
	a.ClientKey, a.ClientKeyData = "", ""
	a.AuthProvider = nil
	a.Exec = nil
}

// Secrets returns the secret values of the user: basic auth, token and
// client key material, auth provider config values and exec env values.
// Exec args are not included.
func (a AuthInfo) Secrets() []string {
	var out []string
	for _, v := range []string{a.Token, a.Username, a.Password, a.ClientCertificateData, a.ClientKeyData} {
		if v != "" {
			out = append(out, v)
		}
	}
	if a.AuthProvider != nil {
		keys := make([]string, 0, len(a.AuthProvider.Config))
		for k := range a.AuthProvider.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := a.AuthProvider.Config[k]; v != "" {
				out = append(out, v)
			}
		}
	}
	if a.Exec != nil {
		for _, e := range a.Exec.Env {
			if e.Value != "" {
				out = append(out, e.Value)
			}
		}
	}
	return out
}
