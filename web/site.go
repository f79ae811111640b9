// Package web embeds the static homepage served as the router's fallback.
package web

import "embed"

//go:embed index.html assets
var FS embed.FS
