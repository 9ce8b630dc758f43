// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path under which the server exposes local uploads.
const URLPrefix = "/uploads/"

// Local stores images on the filesystem below root. Objects are served by
// the API under URLPrefix.
type Local struct {
	root   string
	folder string
}

// NewLocal creates a filesystem store rooted at root. Images are written
// to root/folder.
func NewLocal(root, folder string) (*Local, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(absRoot, folder), 0755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Local{root: absRoot, folder: folder}, nil
}

// Root returns the absolute directory served under URLPrefix.
func (l *Local) Root() string {
	return l.root
}

// Upload writes img under a fresh random name.
func (l *Local) Upload(_ context.Context, img *Image) (Object, error) {
	key := path.Join(l.folder, uuid.NewString()+img.Ext)

	target, err := l.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.WriteFile(target, img.Data, 0644); err != nil {
		return Object{}, fmt.Errorf("saving image: %w", err)
	}

	return Object{URL: URLPrefix + key, PublicID: key}, nil
}

// Delete removes the file for publicID. A missing file is ignored.
func (l *Local) Delete(_ context.Context, publicID string) error {
	target, err := l.resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

// List returns every file below the image folder.
func (l *Local) List(ctx context.Context) ([]StoredObject, error) {
	var objects []StoredObject
	dir := filepath.Join(l.root, l.folder)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		objects = append(objects, StoredObject{
			PublicID: filepath.ToSlash(rel),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	return objects, nil
}

// resolve maps an object key to a path and verifies it stays below root.
func (l *Local) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid image reference %q", key)
	}
	target := filepath.Join(l.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.root, target)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("image reference %q escapes uploads directory", key)
	}
	return target, nil
}
