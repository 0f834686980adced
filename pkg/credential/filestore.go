package credential

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// FileStore keeps credentials in a TOML file, one table per ID:
//
//	[credentials.cred1234]
//	type = "token"
//	token = "..."
//
// The file is written with mode 0600.
type FileStore struct {
	Path string
}

type credentialsFile struct {
	Credentials map[string]Record `toml:"credentials"`
}

func (s *FileStore) Resolve(ctx context.Context, id string) (Bundle, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	r, ok := f.Credentials[id]
	if !ok {
		return nil, notFound(id)
	}
	b, err := r.Bundle()
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}
	return b, nil
}

func (s *FileStore) Put(ctx context.Context, id string, b Bundle) error {
	r, err := RecordFor(b)
	if err != nil {
		return err
	}
	f, err := s.load()
	if err != nil {
		return err
	}
	f.Credentials[id] = r
	return s.save(f)
}

func (s *FileStore) Remove(ctx context.Context, id string) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := f.Credentials[id]; !ok {
		return notFound(id)
	}
	delete(f.Credentials, id)
	return s.save(f)
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(f.Credentials))
	for id := range f.Credentials {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// load reads the credentials file. A missing file is an empty store.
func (s *FileStore) load() (*credentialsFile, error) {
	f := &credentialsFile{}
	_, err := toml.DecodeFile(s.Path, f)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		// toml parse errors quote the offending line, which may hold a secret
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("reading credentials file %s: line %d: invalid TOML", s.Path, perr.Position.Line)
		}
		return nil, fmt.Errorf("reading credentials file %s: %w", s.Path, err)
	}
	if f.Credentials == nil {
		f.Credentials = map[string]Record{}
	}
	return f, nil
}

func (s *FileStore) save(f *credentialsFile) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	file, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(f)
}
