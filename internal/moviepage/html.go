package moviepage

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
)

// PageTemplate is the name of the full-page template
const PageTemplate = "page"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Templates returns the parsed page templates, ready for gin's SetHTMLTemplate
func Templates() *template.Template {
	return templates
}

// WriteHTML renders a view as a full HTML document
func WriteHTML(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, PageTemplate, v)
}

// Static returns the embedded stylesheet directory
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
