package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/skydev929/us-resume-v2/internal/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

// DefaultTemplate is used when the request does not name a template.
const DefaultTemplate = "modern"

var (
	templateCache = make(map[string]*template.Template)
	templateMutex sync.RWMutex
)

// HasTemplate reports whether a named template exists in the embedded store.
// An empty name resolves to the default and always exists.
func HasTemplate(name string) bool {
	if name == "" {
		return true
	}
	_, err := templateFiles.ReadFile("templates/" + name + ".html")
	return err == nil
}

// Render executes the named template against the rendering context and
// returns the resulting HTML document.
func Render(name string, renderCtx *types.RenderingContext) (string, error) {
	if name == "" {
		name = DefaultTemplate
	}

	tmpl, err := lookup(name)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, renderCtx); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template " + name,
			Cause:   err,
		}
	}
	return result.String(), nil
}

// lookup returns the parsed template from cache, parsing it on first use.
func lookup(name string) (*template.Template, error) {
	templateMutex.RLock()
	tmpl, ok := templateCache[name]
	templateMutex.RUnlock()
	if ok {
		return tmpl, nil
	}

	content, err := templateFiles.ReadFile("templates/" + name + ".html")
	if err != nil {
		return nil, &TemplateNotFoundError{Name: name}
	}

	tmpl, err = template.New(name).Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template " + name,
			Cause:   err,
		}
	}

	templateMutex.Lock()
	templateCache[name] = tmpl
	templateMutex.Unlock()

	return tmpl, nil
}
