// Package web embeds the browser assets and page templates.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// Scripts and styles the page templates link to under /static/.
var staticAssets = []string{
	"style.css",
	"form.js",
	"capture.js",
	"map.js",
	"picker.js",
}

// StaticFS returns the assets served under /static/. It fails if any asset
// the templates reference is missing from the build.
func StaticFS() (fs.FS, error) {
	sub, err := subdir("static")
	if err != nil {
		return nil, err
	}
	for _, name := range staticAssets {
		if _, err := fs.Stat(sub, name); err != nil {
			return nil, fmt.Errorf("static asset %s: %w", name, err)
		}
	}
	return sub, nil
}

// TemplatesFS returns the page templates.
func TemplatesFS() (fs.FS, error) {
	return subdir("templates")
}

func subdir(dir string) (fs.FS, error) {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		return nil, fmt.Errorf("opening embedded %s: %w", dir, err)
	}
	return sub, nil
}
