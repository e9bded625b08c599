package languages

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/language"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/response"
)

type LanguageHandler struct {
	registry language.ILanguageRegistry
}

func NewLanguageHandler(registry language.ILanguageRegistry) *LanguageHandler {
	return &LanguageHandler{registry: registry}
}

func (h *LanguageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/languages", h.ListLanguages).Methods("GET")
}

type languageEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Compiled bool   `json:"compiled"`
}

// ListLanguages reports the languages submissions may use
func (h *LanguageHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	profiles := h.registry.List()
	entries := make([]languageEntry, 0, len(profiles))
	for _, profile := range profiles {
		entries = append(entries, languageEntry{
			ID:       profile.ID,
			Name:     profile.Name,
			Compiled: profile.NeedsCompile(),
		})
	}
	response.WriteSuccess(w, map[string][]languageEntry{"languages": entries})
}
