// Package scalar serves the Scalar API reference UI for the OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/pulse/pkg/routes"
)

//go:embed index.html
var staticFS embed.FS

var tmpl = template.Must(template.ParseFS(staticFS, "index.html"))

// Routes returns a group serving the reference page at prefix. specURL is the
// path of the OpenAPI JSON document the page loads.
func Routes(prefix, title, specURL string) routes.Group {
	var page bytes.Buffer
	tmpl.Execute(&page, map[string]string{"Title": title, "SpecURL": specURL})
	body := page.Bytes()

	return routes.Group{
		Prefix: prefix,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Write(body)
			}},
		},
	}
}
