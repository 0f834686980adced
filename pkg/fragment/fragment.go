// Package fragment turns one resolved credential into the kubeconfig
// entries that use it.
package fragment

import (
	"encoding/base64"
	"fmt"

	"github.com/common-fate/clio"
	"github.com/common-fate/kubecred/pkg/credential"
	"github.com/common-fate/kubecred/pkg/kubeconfig"
)

// Overrides are the optional connection details supplied next to a
// credential ID.
type Overrides struct {
	ServerURL string
	// CAData is the PEM encoded certificate authority of the server.
	CAData      string
	ClusterName string
	ContextName string
	Namespace   string
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Build returns the kubeconfig fragment for credential id.
//
// The user entry is always named after id. The cluster and context default
// to id unless named by the overrides. A cluster is only emitted when a
// server URL or CA is known; a server without a CA skips TLS verification.
//
// A KubeconfigFile bundle is parsed and returned as a complete config. The
// overrides are not applied to it.
func Build(id string, b credential.Bundle, o Overrides) (*kubeconfig.Config, error) {
	if f, ok := b.(credential.KubeconfigFile); ok {
		if !o.IsZero() {
			clio.Warnf("overrides are ignored for kubeconfig file credential %s", id)
		}
		c, err := kubeconfig.Parse(f.Content)
		if err != nil {
			return nil, fmt.Errorf("credential %q: %w", id, err)
		}
		return c, nil
	}

	user, err := authInfo(b)
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}

	c := kubeconfig.New()
	context := kubeconfig.Context{User: id, Namespace: o.Namespace}

	if o.ServerURL != "" || o.CAData != "" {
		cluster := kubeconfig.Cluster{Server: o.ServerURL}
		if o.CAData != "" {
			cluster.CertificateAuthorityData = base64.StdEncoding.EncodeToString([]byte(o.CAData))
		} else {
			cluster.InsecureSkipTLSVerify = true
		}
		name := withDefault(o.ClusterName, id)
		err = c.AddCluster(&kubeconfig.ClusterConfig{Name: name, Cluster: cluster})
		if err != nil {
			return nil, fmt.Errorf("credential %q: %w", id, err)
		}
		context.Cluster = name
	}

	err = c.AddUser(&kubeconfig.UserConfig{Name: id, User: user})
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}
	err = c.AddContext(&kubeconfig.ContextConfig{Name: withDefault(o.ContextName, id), Context: context})
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}

	return c, nil
}

func authInfo(b credential.Bundle) (kubeconfig.AuthInfo, error) {
	switch v := b.(type) {
	case credential.UsernamePassword:
		return kubeconfig.AuthInfo{Username: v.Username, Password: v.Password}, nil
	case credential.SecretText:
		return kubeconfig.AuthInfo{Token: v.Text}, nil
	case credential.BearerToken:
		return kubeconfig.AuthInfo{Token: v.Token}, nil
	case credential.CertificatePair:
		return kubeconfig.AuthInfo{
			ClientCertificateData: base64.StdEncoding.EncodeToString([]byte(v.Certificate)),
			ClientKeyData:         base64.StdEncoding.EncodeToString([]byte(v.Key)),
		}, nil
	default:
		return kubeconfig.AuthInfo{}, fmt.Errorf("%w: %T", credential.ErrUnsupportedType, b)
	}
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
