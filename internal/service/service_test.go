// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/olegiv/kampus-go/internal/imagestore"
)

// fakeImages is an in-memory imagestore.Store.
type fakeImages struct {
	mu        sync.Mutex
	objects   map[string][]byte
	n         int
	uploadErr error
	deleteErr error
	onDelete  func()
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: make(map[string][]byte)}
}

func (f *fakeImages) Upload(_ context.Context, img *imagestore.Image) (imagestore.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return imagestore.Object{}, f.uploadErr
	}
	f.n++
	key := fmt.Sprintf("event-kampus-uploads/img%d%s", f.n, img.Ext)
	f.objects[key] = img.Data
	return imagestore.Object{URL: "/uploads/" + key, PublicID: key}, nil
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, publicID)
	if f.onDelete != nil {
		f.onDelete()
	}
	return nil
}

func (f *fakeImages) has(publicID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[publicID]
	return ok
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var errUnavailable = errors.New("image store unavailable")

func pngReader(t *testing.T) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		img.Set(x, x, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}
