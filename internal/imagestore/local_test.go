// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "")
	require.NoError(t, err)

	obj, err := store.Upload(context.Background(), &Image{Data: []byte("jpegdata"), Ext: ".jpg"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.PublicID, DefaultFolder+"/"))
	assert.True(t, strings.HasSuffix(obj.PublicID, ".jpg"))
	assert.Equal(t, URLPrefix+obj.PublicID, obj.URL)

	onDisk := filepath.Join(root, filepath.FromSlash(obj.PublicID))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	require.NoError(t, store.Delete(context.Background(), obj.PublicID))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(context.Background(), obj.PublicID))
}

func TestLocalUploadsGetDistinctNames(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "imgs")
	require.NoError(t, err)

	a, err := store.Upload(context.Background(), &Image{Data: []byte("a"), Ext: ".png"})
	require.NoError(t, err)
	b, err := store.Upload(context.Background(), &Image{Data: []byte("b"), Ext: ".png"})
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicID, b.PublicID)
	assert.True(t, strings.HasPrefix(a.PublicID, "imgs/"))
}

func TestLocalDeleteRejectsEscapingReferences(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	for _, ref := range []string{"", "../secret", "event-kampus-uploads/../../x", "/etc/passwd"} {
		assert.Error(t, store.Delete(context.Background(), ref), "ref %q", ref)
	}
}

func TestLocalList(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "posters")
	require.NoError(t, err)

	empty, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)

	a, err := store.Upload(context.Background(), &Image{Data: []byte("a"), Ext: ".png"})
	require.NoError(t, err)
	b, err := store.Upload(context.Background(), &Image{Data: []byte("b"), Ext: ".jpg"})
	require.NoError(t, err)

	objects, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 2)

	ids := []string{objects[0].PublicID, objects[1].PublicID}
	assert.ElementsMatch(t, []string{a.PublicID, b.PublicID}, ids)
	for _, o := range objects {
		assert.True(t, strings.HasPrefix(o.PublicID, "posters/"), o.PublicID)
		assert.False(t, o.Modified.IsZero())
	}
}
