package kubewrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"time"

	"github.com/common-fate/kubecred/pkg/credential"
	"github.com/common-fate/kubecred/pkg/fragment"
	"github.com/common-fate/kubecred/pkg/kubeconfig"
	"github.com/common-fate/kubecred/pkg/secretguard"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const waitDelay = 5 * time.Second

// CredentialRef names a credential and the connection details to use it with.
type CredentialRef struct {
	ID            string
	ServerURL     string
	CACertificate string
	ClusterName   string
	ContextName   string
	Namespace     string
}

// Overrides returns the fragment overrides of the reference.
func (r CredentialRef) Overrides() fragment.Overrides {
	return fragment.Overrides{
		ServerURL:   r.ServerURL,
		CAData:      r.CACertificate,
		ClusterName: r.ClusterName,
		ContextName: r.ContextName,
		Namespace:   r.Namespace,
	}
}

// ExitError is returned when the wrapped command exits with a non-zero code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// Step runs a command with KUBECONFIG pointing at a kubeconfig built from
// the referenced credentials.
type Step struct {
	Resolver credential.Resolver
	// Refs are merged in order; later references win on conflicting fields.
	Refs    []CredentialRef
	Command []string
	// Env is added to the process environment of the command.
	Env map[string]string
	// Dir is where the kubeconfig file is created. Defaults to os.TempDir().
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Masker masks secrets in the command output and the step log.
	// A new one is used when nil.
	Masker *secretguard.Masker
	// Log is the step log. Defaults to an info level logger on Stderr
	// through Masker.
	Log *zap.SugaredLogger
	// Validate runs against the merged kubeconfig before it is written.
	Validate []kubeconfig.ValidationFunc
}

// Build resolves the references and returns the merged kubeconfig. Every
// secret seen along the way is registered with the step's masker.
func (s *Step) Build(ctx context.Context) (*kubeconfig.Config, error) {
	s.init()

	if s.Resolver == nil {
		return nil, errors.New("no credential resolver was configured")
	}
	if len(s.Refs) == 0 {
		return nil, errors.New("no credentials were provided")
	}

	// resolve everything first so that an unknown ID fails the step
	// before any output is produced
	bundles := make([]credential.Bundle, 0, len(s.Refs))
	for _, ref := range s.Refs {
		b, err := s.Resolver.Resolve(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	for _, b := range bundles {
		s.Masker.Register(b.Secrets()...)
	}

	fragments := make([]*kubeconfig.Config, 0, len(bundles))
	for i, b := range bundles {
		f, err := fragment.Build(s.Refs[i].ID, b, s.Refs[i].Overrides())
		if err != nil {
			return nil, err
		}
		s.Masker.Register(f.Secrets()...)
		fragments = append(fragments, f)
	}

	doc, err := kubeconfig.Merge(fragments...)
	if err != nil {
		return nil, err
	}
	for _, validate := range s.Validate {
		if err := validate(doc); err != nil {
			return nil, fmt.Errorf("invalid kubeconfig: %w", err)
		}
	}
	s.Log.Debugw("built kubeconfig",
		"credentials", len(s.Refs),
		"clusters", len(doc.Clusters),
		"contexts", len(doc.Contexts),
		"users", len(doc.Users),
		"current-context", doc.CurrentContext,
	)
	return doc, nil
}

// Run builds the kubeconfig and runs the command against it. The file is
// removed before Run returns.
func (s *Step) Run(ctx context.Context) error {
	s.init()

	if len(s.Command) == 0 {
		return errors.New("no command was provided")
	}
	// bail out early if the command doesn't exist
	argv0, err := osexec.LookPath(s.Command[0])
	if err != nil {
		return fmt.Errorf("couldn't find the executable '%s': %w", s.Command[0], err)
	}

	doc, err := s.Build(ctx)
	if err != nil {
		return err
	}

	_, err = WithConfig(ctx, doc, Options{Dir: s.Dir, Log: s.Log}, func(ctx context.Context, path string) (struct{}, error) {
		return struct{}{}, s.exec(ctx, argv0, path)
	})
	return err
}

func (s *Step) exec(ctx context.Context, argv0, path string) error {
	cmd := osexec.CommandContext(ctx, argv0, s.Command[1:]...)

	env := envAsMap()
	for k, v := range s.Env {
		env[k] = v
	}
	env["KUBECONFIG"] = path
	cmd.Env = env.StringSlice()

	stdout := s.Masker.Writer(s.Stdout)
	stderr := stdout
	if s.Stderr != s.Stdout {
		stderr = s.Masker.Writer(s.Stderr)
	}
	cmd.Stdin = s.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// children of a killed command may keep the output pipes open
	cmd.WaitDelay = waitDelay

	s.Log.Debugw("running command", "command", s.Command[0], "args", len(s.Command)-1)

	err := cmd.Run()
	_ = stdout.Close()
	_ = stderr.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return err
}

func (s *Step) init() {
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
	if s.Masker == nil {
		s.Masker = secretguard.New()
	}
	if s.Log == nil {
		s.Log = NewLogger(s.Masker, s.Stderr, zapcore.InfoLevel)
	}
}
