package db

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"busticket/internal/domain"
)

// FileStore keeps every document as <Dir>/<name>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FileStore{}, domain.DocumentIOError{Document: dir, Op: "mkdir", Err: err}
	}
	return FileStore{Dir: dir}, nil
}

func (s FileStore) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s FileStore) Read(_ context.Context, name string) ([]json.RawMessage, error) {
	body, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, domain.DocumentIOError{Document: name, Op: "read", Err: err}
	}
	return decodeDocument(name, body), nil
}

// Write replaces the document through a temp file and rename, so readers never
// observe a half-written file.
func (s FileStore) Write(_ context.Context, name string, records []json.RawMessage) error {
	body, err := encodeDocument(records)
	if err != nil {
		return domain.DocumentIOError{Document: name, Op: "encode", Err: err}
	}
	tmp, err := os.CreateTemp(s.Dir, name+"-*.json.tmp")
	if err != nil {
		return domain.DocumentIOError{Document: name, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return domain.DocumentIOError{Document: name, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return domain.DocumentIOError{Document: name, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return domain.DocumentIOError{Document: name, Op: "rename", Err: err}
	}
	return nil
}
