// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import "strings"

// bundledAssets maps the logical image names used by seed events to
// assets shipped with the client.
var bundledAssets = map[string]string{
	"SeminarIlkom": "assets/SeminarIlkom.png",
	"Pelatihan":    "assets/Pelatihan.png",
}

// ResolveImage turns an event's image value into something displayable.
// Logical names map to bundled assets, server-relative upload paths get
// the API origin prepended and anything else is returned unchanged.
func ResolveImage(origin, image string) string {
	if asset, ok := bundledAssets[image]; ok {
		return asset
	}
	if strings.HasPrefix(image, "/uploads") {
		return strings.TrimRight(origin, "/") + image
	}
	return image
}
