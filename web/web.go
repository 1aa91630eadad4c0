// Package web embeds the HTML fragment templates.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
