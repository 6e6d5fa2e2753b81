// Package views renders the server-side HTML pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names.
const (
	PageAuth      = "auth"
	PageDashboard = "dashboard"
	PagePosts     = "posts"
)

// Page is the data every template receives. User drives the navbar.
type Page struct {
	Title string
	User  *domain.User
	Body  any
}

// AuthForm is the body of the auth page.
type AuthForm struct {
	Mode  string
	Error string
	Name  string
	Email string
	Role  string
	Roles []string
}

var funcs = template.FuncMap{
	"title": func(s string) string {
		for i, r := range s {
			return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
		}
		return s
	},
	// markdown emits rendered post HTML, falling back to the escaped source.
	"markdown": func(rendered, source string) any {
		if rendered == "" {
			return source
		}
		return template.HTML(rendered)
	},
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageAuth, PageDashboard, PagePosts} {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[strings.TrimSuffix(name, ".html")]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
