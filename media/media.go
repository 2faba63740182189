// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotImage       = errors.New("file is not an image")
	ErrUnknownLocator = errors.New("locator does not belong to this store")
)

// Store persists uploaded images and hands back an opaque locator.
type Store interface {
	Save(name string, r io.Reader) (string, error)
	Remove(locator string) error
}

// LocalStore keeps images in a directory and returns locators under a URL prefix.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore creates dir if needed. Locators look like prefix + "/" + file.
func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, prefix: strings.TrimRight(prefix, "/")}, nil
}

// Save sniffs the content, rejects anything that is not an image, and writes
// the file under a fresh UUID name keeping the original extension.
func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotImage
	}

	file := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	f, err := os.OpenFile(filepath.Join(s.dir, file), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, br); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.prefix + "/" + file, nil
}

// Remove deletes the file behind a locator returned by Save. Missing files
// are not an error.
func (s *LocalStore) Remove(locator string) error {
	file, ok := strings.CutPrefix(locator, s.prefix+"/")
	if !ok || file == "" || file != path.Base(file) {
		return ErrUnknownLocator
	}

	if err := os.Remove(filepath.Join(s.dir, file)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
