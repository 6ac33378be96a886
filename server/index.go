package server

import (
	"embed"
	"html/template"
	"net/http"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"deckgen/catalog"
)

//go:embed pages/*.html
var pagesFS embed.FS

var pages = template.Must(template.New("pages").Funcs(sprig.HtmlFuncMap()).ParseFS(pagesFS, "pages/*.html"))

type indexData struct {
	Templates       []string
	Images          []string
	ImageToTemplate map[string]string
}

// Index renders the template picker page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	matched, templates, images, err := catalog.ImageTemplates(&h.env.Cfg.Catalog)
	if err != nil {
		h.log.Error("Unable to read catalog", zap.Error(err))
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, "index.html", indexData{
		Templates:       templates,
		Images:          images,
		ImageToTemplate: matched,
	})
}

// Tutorial renders the usage walkthrough page.
func (h *Handler) Tutorial(w http.ResponseWriter, r *http.Request) {
	h.render(w, "tutorial.html", nil)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("Unable to render page", zap.String("page", name), zap.Error(err))
	}
}
