package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"deckgen/catalog"
)

// Thumbnail serves a scaled-down catalog image.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["image"]
	data, contentType, err := catalog.Thumbnail(&h.env.Cfg.Catalog, name)
	if err != nil {
		h.log.Debug("Thumbnail request failed", zap.String("image", name), zap.Error(err))
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}
