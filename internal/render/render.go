// Package render builds the embedded HTML template set for public and admin pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile = "templates/layout.html"
	layoutName = "layout"
)

type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// View is the data every template receives.
type View struct {
	Lang        i18n.Lang
	SiteName    string
	Title       string
	Description string
	Path        string
	Nav         []NavItem
	Data        interface{}
}

// SwitchLangURL links to the current path in the other language.
func (v View) SwitchLangURL() string {
	return v.Path + "?lang=" + v.Lang.Other().String()
}

// Renderer holds one template tree per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
	md    goldmark.Markdown
}

func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}

	base, err := template.New(layoutName).Funcs(r.funcs()).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		tmpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tmpl.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"t":        i18n.Pick,
		"lines":    i18n.Lines,
		"markdown": r.Markdown,
		"upper":    strings.ToUpper,
		"card":     newProductCard,
	}
}

// ProductCard feeds the shared product-card partial.
type ProductCard struct {
	Lang    i18n.Lang
	Product model.Product
}

func newProductCard(lang i18n.Lang, p model.Product) ProductCard {
	return ProductCard{Lang: lang, Product: p}
}

// Markdown renders GFM to HTML. Raw HTML in the source is not passed through.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// Bytes executes the named page so the result can be cached.
func (r *Renderer) Bytes(name string, view View) ([]byte, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Instance lets gin's c.HTML use the renderer.
func (r *Renderer) Instance(name string, data interface{}) render.Render {
	return render.HTML{
		Template: r.pages[name],
		Name:     layoutName,
		Data:     data,
	}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
