// Package web embeds the single-page upload frontend served under /app.
package web

import "embed"

// FS holds index.html at its root
//
//go:embed index.html
var FS embed.FS
