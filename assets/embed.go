package assets

import (
	"embed"
)

//go:embed index.html
var FS embed.FS

// Index returns the browser client page.
func Index() []byte {
	b, err := FS.ReadFile("index.html")
	if err != nil {
		return []byte("<!doctype html><title>matrix</title><p>client missing</p>")
	}
	return b
}
