// Package web holds the embedded HTML templates and static assets of the pages.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap is available to every template
var FuncMap = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006 3:04 PM")
	},
	// dict builds the argument map of a nested template call
	"dict": func(pairs ...interface{}) (map[string]interface{}, error) {
		if len(pairs)%2 != 0 {
			return nil, errors.New("dict: odd number of arguments")
		}
		m := make(map[string]interface{}, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, errors.New("dict: keys must be strings")
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}

// Templates parses all page templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}

// Static returns the static asset tree served under /static
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
