// Package web embeds the HTML templates and static assets served by the blog.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var content embed.FS

// Templates returns the template tree; names are paths relative to templates/ without the extension.
func Templates() fs.FS {
	return mustSub("templates")
}

// Static returns the files served under /static.
func Static() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
