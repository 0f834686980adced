package credential

import "fmt"

// Type names a credential kind in the stored form of a bundle.
type Type string

const (
	TypeUsernamePassword Type = "username-password"
	TypeSecretText       Type = "secret-text"
	TypeCertificate      Type = "certificate"
	TypeToken            Type = "token"
	TypeKubeconfig       Type = "kubeconfig"
)

// Types lists the supported credential kinds.
var Types = []Type{TypeUsernamePassword, TypeSecretText, TypeCertificate, TypeToken, TypeKubeconfig}

// Record is the stored form of a bundle, shared by every backend: a TOML
// table in the file store, a JSON payload in the keyring and in SSM, and the
// secret data map in Vault.
type Record struct {
	Type        Type   `json:"type" toml:"type"`
	Username    string `json:"username,omitempty" toml:"username,omitempty"`
	Password    string `json:"password,omitempty" toml:"password,omitempty"`
	Secret      string `json:"secret,omitempty" toml:"secret,omitempty"`
	Token       string `json:"token,omitempty" toml:"token,omitempty"`
	Certificate string `json:"certificate,omitempty" toml:"certificate,omitempty"`
	Key         string `json:"key,omitempty" toml:"key,omitempty"`
	Kubeconfig  string `json:"kubeconfig,omitempty" toml:"kubeconfig,omitempty"`
}

// Bundle converts the record into its typed bundle.
func (r Record) Bundle() (Bundle, error) {
	switch r.Type {
	case TypeUsernamePassword:
		return UsernamePassword{Username: r.Username, Password: r.Password}, nil
	case TypeSecretText:
		return SecretText{Text: r.Secret}, nil
	case TypeCertificate:
		return CertificatePair{Certificate: r.Certificate, Key: r.Key}, nil
	case TypeToken:
		return BearerToken{Token: r.Token}, nil
	case TypeKubeconfig:
		return KubeconfigFile{Content: []byte(r.Kubeconfig)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, r.Type)
	}
}

// RecordFor returns the stored form of b.
func RecordFor(b Bundle) (Record, error) {
	switch v := b.(type) {
	case UsernamePassword:
		return Record{Type: TypeUsernamePassword, Username: v.Username, Password: v.Password}, nil
	case SecretText:
		return Record{Type: TypeSecretText, Secret: v.Text}, nil
	case CertificatePair:
		return Record{Type: TypeCertificate, Certificate: v.Certificate, Key: v.Key}, nil
	case BearerToken:
		return Record{Type: TypeToken, Token: v.Token}, nil
	case KubeconfigFile:
		return Record{Type: TypeKubeconfig, Kubeconfig: string(v.Content)}, nil
	default:
		return Record{}, fmt.Errorf("%w: %T", ErrUnsupportedType, b)
	}
}
