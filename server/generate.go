package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"deckgen/catalog"
	"deckgen/deck"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Generate builds a deck from the posted form and streams it back as a
// download. The produced file never outlives the request.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseForm(); err != nil {
		http.Error(w, "unable to parse form", http.StatusBadRequest)
		return
	}
	templateFile := r.PostFormValue("template")
	topText := r.PostFormValue("top_text")
	bottomText := r.PostFormValue("bottom_text")
	rawName := strings.TrimSpace(r.PostFormValue("pptx_name"))

	if templateFile == "" {
		http.Error(w, "no template selected", http.StatusBadRequest)
		return
	}
	templatePath, err := catalog.Resolve(&h.env.Cfg.Catalog, templateFile)
	if err != nil {
		h.log.Warn("Rejected template request", zap.String("template", templateFile), zap.Error(err))
		http.Error(w, "template not available", http.StatusBadRequest)
		return
	}

	if h.env.Rpt != nil {
		h.env.Rpt.StoreData("requests/generate.txt",
			[]byte(fmt.Sprintf("template: %s\nname: %s\n--- top ---\n%s\n--- bottom ---\n%s\n",
				templateFile, rawName, topText, bottomText)))
	}

	out, err := deck.Generate(r.Context(), deck.Request{
		TemplatePath: templatePath,
		TopText:      topText,
		BottomText:   bottomText,
	})
	if err != nil {
		h.log.Error("Generation failed", zap.String("template", templateFile), zap.Error(err))
		http.Error(w, "generation error", http.StatusInternalServerError)
		return
	}
	defer os.Remove(out)

	fallback := strings.TrimSuffix(templateFile, filepath.Ext(templateFile)) + "_export"
	name := SafeDownloadName(rawName, fallback, h.env.Cfg.Deck.FileNameTransliterate)

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, out)
}
