package credential

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	params map[string]string
	inputs []*ssm.GetParameterInput
}

func (f *fakeSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.inputs = append(f.inputs, params)
	v, ok := f.params[aws.ToString(params.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("parameter not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: params.Name, Value: aws.String(v)}}, nil
}

func TestSSMStore(t *testing.T) {
	fake := &fakeSSM{params: map[string]string{
		"/ci/kube/cred1234": `{"type":"token","token":"faketoken:bob:s3cr3t"}`,
		"/ci/kube/broken":   `not json s3cr3t`,
	}}
	s := &SSMStore{client: fake, prefix: "/ci/kube/"}

	b, err := s.Resolve(context.Background(), "cred1234")
	require.NoError(t, err)
	assert.Equal(t, BearerToken{Token: "faketoken:bob:s3cr3t"}, b)
	require.Len(t, fake.inputs, 1)
	assert.True(t, aws.ToBool(fake.inputs[0].WithDecryption))

	_, err = s.Resolve(context.Background(), "cred9999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Resolve(context.Background(), "broken")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "s3cr3t")
}
