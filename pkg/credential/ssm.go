package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMStore resolves credentials from AWS Systems Manager Parameter Store.
// The parameter <prefix><id> holds a JSON encoded Record, usually as a
// SecureString.
type SSMStore struct {
	client ssmAPI
	prefix string
}

// NewSSMStore loads the default AWS config chain. region may be empty.
func NewSSMStore(ctx context.Context, region, prefix string) (*SSMStore, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SSMStore{client: ssm.NewFromConfig(cfg), prefix: prefix}, nil
}

func (s *SSMStore) Resolve(ctx context.Context, id string) (Bundle, error) {
	name := s.prefix + id
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	var pnf *types.ParameterNotFound
	if errors.As(err, &pnf) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, notFound(id)
	}

	var r Record
	if err := json.Unmarshal([]byte(*out.Parameter.Value), &r); err != nil {
		return nil, fmt.Errorf("credential %q: parameter %s is not a credential record", id, name)
	}
	b, err := r.Bundle()
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}
	return b, nil
}
