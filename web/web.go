// Package web embeds the single-page frontend so the binary ships
// self-contained.
package web

import (
	"embed"
	"net/http"
)

//go:embed index.html
var content embed.FS

// Handler serves the embedded page.
func Handler() http.Handler {
	return http.FileServer(http.FS(content))
}
