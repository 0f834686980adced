package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/common-fate/clio/clierr"
	"github.com/common-fate/kubecred/internal/build"
	"github.com/common-fate/kubecred/pkg/config"
	"github.com/common-fate/kubecred/pkg/credential"
	"github.com/common-fate/kubecred/pkg/kubeconfig"
	"github.com/common-fate/kubecred/pkg/kubewrap"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
)

// credentialFlags select the credentials a kubeconfig is built from.
var credentialFlags = []cli.Flag{
	&cli.StringSliceFlag{Name: "credential", Aliases: []string{"c"}, Usage: "ID of a stored credential, repeat to merge several"},
	&cli.StringFlag{Name: "server-url", Usage: "Kubernetes API server URL for the first --credential"},
	&cli.PathFlag{Name: "ca-certificate", Usage: "PEM file with the certificate authority of the server"},
	&cli.StringFlag{Name: "cluster-name", Usage: "Cluster entry name, defaults to the credential ID"},
	&cli.StringFlag{Name: "context-name", Usage: "Context entry name, defaults to the credential ID"},
	&cli.StringFlag{Name: "namespace", Usage: "Default namespace of the context"},
	&cli.PathFlag{Name: "credentials-file", Usage: "TOML file of [[credential]] references, merged before --credential"},
	&cli.BoolFlag{Name: "validate-contexts", Usage: "Fail when a context references an unknown cluster, user or current context"},
	&cli.PathFlag{Name: "temp-dir", Usage: "Directory for the ephemeral kubeconfig"},
}

var overrideFlags = []string{"server-url", "ca-certificate", "cluster-name", "context-name", "namespace"}

// credentialRefs collects the references from --credentials-file then
// --credential. The override flags apply to the first --credential.
func credentialRefs(c *cli.Context) ([]kubewrap.CredentialRef, error) {
	var refs []kubewrap.CredentialRef
	if p := c.Path("credentials-file"); p != "" {
		fileRefs, err := kubewrap.LoadRefs(p)
		if err != nil {
			return nil, err
		}
		refs = append(refs, fileRefs...)
	}

	ids := c.StringSlice("credential")
	if len(ids) == 0 {
		for _, f := range overrideFlags {
			if c.IsSet(f) {
				return nil, clierr.New(fmt.Sprintf("--%s requires --credential", f))
			}
		}
	}
	for i, id := range ids {
		ref := kubewrap.CredentialRef{ID: id}
		if i == 0 {
			ref.ServerURL = c.String("server-url")
			ref.ClusterName = c.String("cluster-name")
			ref.ContextName = c.String("context-name")
			ref.Namespace = c.String("namespace")
			if p := c.Path("ca-certificate"); p != "" {
				ca, err := os.ReadFile(p)
				if err != nil {
					return nil, fmt.Errorf("reading CA certificate: %w", err)
				}
				ref.CACertificate = string(ca)
			}
		}
		refs = append(refs, ref)
	}

	if len(refs) == 0 {
		return nil, clierr.New("no credentials were provided",
			clierr.Info("pass --credential <ID> or --credentials-file <FILE>"),
		)
	}
	return refs, nil
}

func validations(c *cli.Context) []kubeconfig.ValidationFunc {
	if !c.Bool("validate-contexts") {
		return nil
	}
	return []kubeconfig.ValidationFunc{kubeconfig.WithValidContexts, kubeconfig.WithValidCurrentContext}
}

func tempDir(c *cli.Context, cfg *config.Config) string {
	if p := c.Path("temp-dir"); p != "" {
		return p
	}
	return cfg.TempDirectory()
}

func stepLevel(c *cli.Context) zapcore.Level {
	if c.Bool("verbose") {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// cliError adds hints to the errors a user can act on.
func cliError(err error) error {
	if err == nil {
		return nil
	}
	var fsErr *kubewrap.FilesystemError
	switch {
	case errors.Is(err, credential.ErrNotFound):
		return clierr.New(err.Error(),
			clierr.Infof("run '%s credentials list' to see the stored credentials", build.BinaryName()),
		)
	case errors.Is(err, credential.ErrUnsupportedType):
		return clierr.New(err.Error(),
			clierr.Infof("supported credential types are %v", credential.Types),
		)
	case errors.Is(err, kubeconfig.ErrMalformedDocument):
		return clierr.New(err.Error(),
			clierr.Info("check the kubeconfig stored for this credential, it must be a valid kubeconfig document"),
		)
	case errors.As(err, &fsErr):
		return clierr.New(err.Error(),
			clierr.Info("check that the temp directory exists and is writable, or pass --temp-dir"),
		)
	}
	return err
}
