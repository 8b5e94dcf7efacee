package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"GoNFA/internal/automaton"
)

// FilePerm is the mode of files written by WriteFile.
const FilePerm os.FileMode = 0644

// WriteFile encodes nfa and replaces path with the result atomically: the
// document goes to a temporary file next to path, is fsynced, renamed over
// path, and the parent directory is fsynced.
func WriteFile(path, pattern string, nfa *automaton.NFA, format Format) error {
	var buf bytes.Buffer
	if err := Write(&buf, pattern, nfa, format); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gonfa-*")
	if err != nil {
		return fmt.Errorf("write %s: create temp: %w", path, err)
	}
	tmpPath := tmp.Name()

	// Clean up temp file on any error.
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(FilePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: chmod: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: fsync: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: close: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("write %s: rename: %w", path, err)
	}
	if err := fsyncDir(dir); err != nil {
		return fmt.Errorf("write %s: fsync parent dir: %w", path, err)
	}

	success = true
	return nil
}

// fsyncDir makes the rename in dir durable.
func fsyncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}
