// Package credential resolves opaque credential IDs into typed secret
// bundles. Bundles are consumed by the fragment builder and never logged.
package credential

import "errors"

var (
	// ErrNotFound is returned when no credential exists for an ID.
	ErrNotFound = errors.New("credential not found")
	// ErrUnsupportedType is returned for credential kinds that cannot be
	// turned into a kubeconfig.
	ErrUnsupportedType = errors.New("credential type unsupported")
)

// Bundle is the typed secret material behind a credential ID. The set of
// variants is closed: UsernamePassword, SecretText, CertificatePair,
// BearerToken and KubeconfigFile.
type Bundle interface {
	// Secrets returns the non-empty secret values the bundle carries.
	Secrets() []string
	bundle()
}

// UsernamePassword is a basic auth credential.
type UsernamePassword struct {
	Username string
	Password string
}

// SecretText is an opaque secret used verbatim as a bearer token.
type SecretText struct {
	Text string
}

// CertificatePair is a PEM encoded client certificate and its private key.
type CertificatePair struct {
	Certificate string
	Key         string
}

// BearerToken is a kubernetes bearer token.
type BearerToken struct {
	Token string
}

// KubeconfigFile is a complete kubeconfig document.
type KubeconfigFile struct {
	Content []byte
}

func (UsernamePassword) bundle() {}
func (SecretText) bundle()       {}
func (CertificatePair) bundle()  {}
func (BearerToken) bundle()      {}
func (KubeconfigFile) bundle()   {}

func (b UsernamePassword) Secrets() []string { return nonEmpty(b.Username, b.Password) }
func (b SecretText) Secrets() []string       { return nonEmpty(b.Text) }
func (b CertificatePair) Secrets() []string  { return nonEmpty(b.Certificate, b.Key) }
func (b BearerToken) Secrets() []string      { return nonEmpty(b.Token) }

// Secrets of a whole file are the secret fields of its users, which are only
// known once the file is parsed. The raw content is never echoed.
func (b KubeconfigFile) Secrets() []string { return nil }

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
