package quality

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the document assessment API.
func RegisterRoutes(r chi.Router) {
	r.Post("/api/assess", handleAssess)
}

func handleAssess(w http.ResponseWriter, r *http.Request) {
	var doc StructuredDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, `{"error":"invalid document body"}`, http.StatusBadRequest)
		return
	}

	report := Assess(doc)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
