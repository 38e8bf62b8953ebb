// Package filesystem stores the snapshot and statistics as JSON files.
package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"rtmsync/internal/application"
)

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// readJSON decodes path into out. It reports false when the file does not exist.
func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &application.PersistenceError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &application.PersistenceError{Op: "decode", Path: path, Err: err}
	}
	return true, nil
}

// writeJSON replaces path atomically: temp file, fsync, rename
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &application.PersistenceError{Op: "encode", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &application.PersistenceError{Op: "write", Path: path, Err: err}
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return &application.PersistenceError{Op: "write", Path: path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tempPath := tempFile.Name()

	fail := func(err error) error {
		tempFile.Close()
		os.Remove(tempPath)
		return &application.PersistenceError{Op: "write", Path: path, Err: err}
	}

	if _, err := tempFile.Write(data); err != nil {
		return fail(err)
	}
	if err := tempFile.Sync(); err != nil {
		return fail(err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return &application.PersistenceError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return &application.PersistenceError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
