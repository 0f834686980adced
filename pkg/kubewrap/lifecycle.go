// Package kubewrap runs work against an ephemeral kubeconfig file.
//
// The file only exists while the work runs: it is created with owner-only
// permissions in a temp directory and removed on every exit path.
package kubewrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/common-fate/kubecred/pkg/kubeconfig"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// CleanedUpMessage is logged once the kubeconfig file has been removed.
const CleanedUpMessage = "kubectl configuration cleaned up"

// Options configure WithConfig.
type Options struct {
	// Dir is the directory the file is created in. Defaults to os.TempDir().
	Dir string
	// Log receives lifecycle messages. Optional.
	Log *zap.SugaredLogger
}

// FilesystemError is returned when the kubeconfig file cannot be created,
// written or removed.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s kubeconfig %s: %s", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// WithConfig writes doc to a new file and calls body with its path. The file
// is removed when WithConfig returns, whether body succeeds, fails or panics,
// or ctx is cancelled. body is not called if ctx is already done.
func WithConfig[R any](ctx context.Context, doc *kubeconfig.Config, opts Options, body func(ctx context.Context, path string) (R, error)) (result R, err error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	b, err := doc.Marshal()
	if err != nil {
		return result, err
	}
	if err := kubeconfig.Verify(b); err != nil {
		return result, err
	}

	path, err := writeFile(opts.Dir, b)
	if err != nil {
		return result, err
	}
	log.Debugw("wrote kubeconfig", "path", path)

	defer func() {
		rerr := os.Remove(path)
		if rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			log.Errorw("removing kubeconfig", "path", path, zap.Error(rerr))
			if err == nil {
				err = &FilesystemError{Op: "remove", Path: path, Err: rerr}
			}
			return
		}
		log.Info(CleanedUpMessage)
	}()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return body(ctx, path)
}

// writeFile creates a uniquely named file in dir holding b, readable only by
// the current user. Nothing is left behind on failure.
func writeFile(dir string, b []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "kubeconfig-"+ksuid.New().String())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", &FilesystemError{Op: "create", Path: path, Err: err}
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", &FilesystemError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", &FilesystemError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}
