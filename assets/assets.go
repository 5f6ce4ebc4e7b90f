// Package assets carries the default content pack compiled into the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed content
var content embed.FS

// Content returns the pack rooted at <lang>/facts/<topic>.json.
func Content() fs.FS {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		panic(err)
	}
	return sub
}
