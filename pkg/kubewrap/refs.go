package kubewrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type refsFile struct {
	Credential []struct {
		ID                string `toml:"id"`
		ServerURL         string `toml:"server-url"`
		CACertificate     string `toml:"ca-certificate"`
		CACertificateFile string `toml:"ca-certificate-file"`
		ClusterName       string `toml:"cluster-name"`
		ContextName       string `toml:"context-name"`
		Namespace         string `toml:"namespace"`
	} `toml:"credential"`
}

// LoadRefs reads credential references from a TOML file:
//
//	[[credential]]
//	id = "cred1234"
//	server-url = "https://localhost:6443"
//	ca-certificate-file = "ca.pem"
//	namespace = "apps"
//
// A relative ca-certificate-file is resolved against the file's directory.
func LoadRefs(path string) ([]CredentialRef, error) {
	var f refsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("reading credentials file %s: %w", path, err)
	}

	refs := make([]CredentialRef, 0, len(f.Credential))
	for i, c := range f.Credential {
		if c.ID == "" {
			return nil, fmt.Errorf("reading credentials file %s: credential %d has no id", path, i+1)
		}
		ref := CredentialRef{
			ID:            c.ID,
			ServerURL:     c.ServerURL,
			CACertificate: c.CACertificate,
			ClusterName:   c.ClusterName,
			ContextName:   c.ContextName,
			Namespace:     c.Namespace,
		}
		if c.CACertificateFile != "" {
			if c.CACertificate != "" {
				return nil, fmt.Errorf("reading credentials file %s: credential %q sets both ca-certificate and ca-certificate-file", path, c.ID)
			}
			caPath := c.CACertificateFile
			if !filepath.IsAbs(caPath) {
				caPath = filepath.Join(filepath.Dir(path), caPath)
			}
			ca, err := os.ReadFile(caPath)
			if err != nil {
				return nil, fmt.Errorf("reading CA certificate for credential %q: %w", c.ID, err)
			}
			ref.CACertificate = string(ca)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
