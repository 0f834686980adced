package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/common-fate/clio/clierr"
	"github.com/common-fate/grab"
	"github.com/common-fate/kubecred/pkg/config"
	"github.com/common-fate/kubecred/pkg/kubeconfig"
	"github.com/common-fate/kubecred/pkg/kubewrap"
	"github.com/common-fate/kubecred/pkg/testable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	configPath string
	storePath  string
	tempDir    string
}

// newTestEnv writes a config using the file credential store under a temp dir.
func newTestEnv(t *testing.T) testEnv {
	dir := t.TempDir()
	env := testEnv{
		configPath: filepath.Join(dir, "config"),
		storePath:  filepath.Join(dir, "credentials.toml"),
		tempDir:    filepath.Join(dir, "kube"),
	}
	require.NoError(t, os.Mkdir(env.tempDir, 0700))

	cfg := config.Config{
		Store:     config.StoreFile,
		FileStore: &config.FileStoreConfig{Path: grab.Ptr(env.storePath)},
		TempDir:   grab.Ptr(env.tempDir),
	}
	require.NoError(t, cfg.SaveTo(env.configPath))
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := GetCliApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"kubecred", "--config", e.configPath}, args...))
	return out.String(), err
}

func (e testEnv) addToken(t *testing.T, id, token string) {
	testable.BeginTesting()
	t.Cleanup(testable.EndTesting)
	testable.WithNextSurveyInputFunc(testable.NextFuncFromSlice(t, testable.SurveyInputs{token}))

	_, err := e.run(t, "credentials", "add", "--type", "token", id)
	require.NoError(t, err)
}

func TestCredentialsAddListRemove(t *testing.T) {
	e := newTestEnv(t)

	testable.BeginTesting()
	defer testable.EndTesting()
	testable.WithNextSurveyInputFunc(testable.NextFuncFromSlice(t, testable.SurveyInputs{
		"cred1234",
		"username-password",
		"user name",
		"pass word",
	}))
	_, err := e.run(t, "credentials", "add")
	require.NoError(t, err)

	e.addToken(t, "cred9999", "faketoken")

	out, err := e.run(t, "credentials", "list")
	require.NoError(t, err)
	assert.Equal(t, "cred1234\ncred9999\n", out)

	fi, err := os.Stat(e.storePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	_, err = e.run(t, "credentials", "remove", "cred1234")
	require.NoError(t, err)

	out, err = e.run(t, "credentials", "list")
	require.NoError(t, err)
	assert.Equal(t, "cred9999\n", out)
}

func TestCredentialsAddKubeconfig(t *testing.T) {
	e := newTestEnv(t)
	good := filepath.Join(t.TempDir(), "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("apiVersion: v1\nkind: Config\ncurrent-context: test-sample\ncontexts:\n- name: test-sample\n"), 0600))
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- not\n- a kubeconfig\n"), 0600))

	_, err := e.run(t, "credentials", "add", "--type", "kubeconfig", "--kubeconfig-file", good, "test-sample")
	require.NoError(t, err)

	_, err = e.run(t, "credentials", "add", "--type", "kubeconfig", "--kubeconfig-file", bad, "broken")
	var cerr *clierr.Err
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Err, "malformed kubeconfig")

	out, err := e.run(t, "credentials", "list")
	require.NoError(t, err)
	assert.Equal(t, "test-sample\n", out)
}

func TestCredentialsAddCertificateRequiresFiles(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "credentials", "add", "--type", "certificate", "cert1234")
	assert.EqualError(t, err, "the certificate type needs --cert-file and --key-file")
}

func TestCredentialsAddUnsupportedType(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "credentials", "add", "--type", "ssh-key", "cred1234")
	var cerr *clierr.Err
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Err, `credential type unsupported: "ssh-key"`)
}

func TestExec(t *testing.T) {
	e := newTestEnv(t)
	e.addToken(t, "cred9999", "faketoken:bob:s3cr3t")

	out, err := e.run(t, "exec",
		"--credential", "cred9999",
		"--server-url", "https://localhost:6443",
		"--namespace", "build",
		"--", "sh", "-c", `cat "$KUBECONFIG"`,
	)
	require.NoError(t, err)

	assert.Contains(t, out, `server: "https://localhost:6443"`)
	assert.Contains(t, out, `namespace: "build"`)
	assert.Contains(t, out, `token: "****"`)
	assert.NotContains(t, out, "s3cr3t")

	entries, err := os.ReadDir(e.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecEnvFile(t *testing.T) {
	e := newTestEnv(t)
	e.addToken(t, "cred9999", "faketoken")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GREETING=hello\n"), 0600))

	out, err := e.run(t, "exec", "--credential", "cred9999", "--env-file", envFile,
		"--", "sh", "-c", `echo "$GREETING"`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hello\n"), out)
}

func TestExecExitCode(t *testing.T) {
	e := newTestEnv(t)
	e.addToken(t, "cred9999", "faketoken")

	_, err := e.run(t, "exec", "--credential", "cred9999", "--", "sh", "-c", "exit 3")
	var exitErr *kubewrap.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestExecErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantHint clierr.Printer
	}{
		{
			name:     "no command",
			args:     []string{"exec", "--credential", "cred9999"},
			wantErr:  "no command was provided",
			wantHint: clierr.Infof("for example: %s exec --credential <ID> -- kubectl get pods", "dkubecred"),
		},
		{
			name:     "no credentials",
			args:     []string{"exec", "--", "true"},
			wantErr:  "no credentials were provided",
			wantHint: clierr.Info("pass --credential <ID> or --credentials-file <FILE>"),
		},
		{
			name:    "override without credential",
			args:    []string{"exec", "--namespace", "build", "--", "true"},
			wantErr: "--namespace requires --credential",
		},
		{
			name:     "unknown credential",
			args:     []string{"exec", "--credential", "missing", "--", "true"},
			wantErr:  `credential not found: "missing"`,
			wantHint: clierr.Infof("run '%s credentials list' to see the stored credentials", "dkubecred"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.addToken(t, "cred9999", "faketoken")

			_, err := e.run(t, tt.args...)
			var cerr *clierr.Err
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, cerr.Err, tt.wantErr)
			if tt.wantHint != nil {
				assert.Contains(t, cerr.Messages, tt.wantHint)
			}
		})
	}
}

func TestExecCredentialsFile(t *testing.T) {
	e := newTestEnv(t)
	e.addToken(t, "cred9999", "faketoken")
	e.addToken(t, "cred1234", "othertoken")

	refs := filepath.Join(t.TempDir(), "refs.toml")
	require.NoError(t, os.WriteFile(refs, []byte(`
[[credential]]
id = "cred1234"
server-url = "https://one.example.com"
`), 0600))

	out, err := e.run(t, "exec",
		"--credentials-file", refs,
		"--credential", "cred9999",
		"--server-url", "https://two.example.com",
		"--", "sh", "-c", `cat "$KUBECONFIG"`,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "https://one.example.com")
	assert.Contains(t, out, "https://two.example.com")
	// the first input supplies the current context
	assert.Contains(t, out, `current-context: "cred1234"`)
}

func TestRender(t *testing.T) {
	e := newTestEnv(t)
	e.addToken(t, "cred9999", "faketoken")
	output := filepath.Join(t.TempDir(), "kubeconfig")
	// an existing file is truncated and tightened
	require.NoError(t, os.WriteFile(output, []byte(strings.Repeat("x", 4096)), 0644))

	_, err := e.run(t, "render", "--credential", "cred9999", "--server-url", "https://localhost:6443", "-o", output)
	require.NoError(t, err)

	fi, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	doc, err := kubeconfig.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, "cred9999", doc.CurrentContext)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "faketoken", doc.Users[0].User.Token)
}

func TestRenderValidateContexts(t *testing.T) {
	e := newTestEnv(t)
	kc := filepath.Join(t.TempDir(), "kubeconfig.yaml")
	require.NoError(t, os.WriteFile(kc, []byte("apiVersion: v1\nkind: Config\ncontexts:\n- name: dangling\n  context:\n    cluster: nope\n"), 0600))
	_, err := e.run(t, "credentials", "add", "--type", "kubeconfig", "--kubeconfig-file", kc, "dangling")
	require.NoError(t, err)
	output := filepath.Join(t.TempDir(), "kubeconfig")

	_, err = e.run(t, "render", "--credential", "dangling", "-o", output)
	require.NoError(t, err)
	require.NoError(t, os.Remove(output))

	_, err = e.run(t, "render", "--credential", "dangling", "--validate-contexts", "-o", output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `context "dangling" references unknown cluster "nope"`)
	assert.NoFileExists(t, output)
}
