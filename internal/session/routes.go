package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/reqpilot/internal/confirm"
	"github.com/ziadkadry99/reqpilot/internal/facts"
)

// RegisterRoutes mounts the session API.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreate(engine))
		r.Get("/{id}", handleGet(engine))
		r.Post("/{id}/answers", handleAnswer(engine))
		r.Get("/{id}/completeness", handleCompleteness(engine))
		r.Get("/{id}/question", handleQuestion(engine))
		r.Post("/{id}/summary", handleSummary(engine))
		r.Post("/{id}/adjustments", handleAdjust(engine))
		r.Post("/{id}/confirm", handleConfirm(engine))
		r.Post("/{id}/restart", handleRestart(engine))
		r.Get("/{id}/digest", handleDigest(engine))
	})
}

type createRequest struct {
	UserID string `json:"user_id"`
}

func handleCreate(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		// An empty body is fine; user_id defaults to anonymous.
		_ = json.NewDecoder(r.Body).Decode(&req)

		sess, err := engine.CreateSession(r.Context(), req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func handleGet(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := engine.Store().GetSession(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func handleAnswer(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req answerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		result, err := engine.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.Answer)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleCompleteness(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := engine.Completeness(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, score)
	}
}

func handleQuestion(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := engine.NextQuestion(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleSummary(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := engine.GenerateSummary(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

type adjustRequest struct {
	Adjustments []confirm.Adjustment `json:"adjustments"`
}

func handleAdjust(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adjustRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		st, err := engine.Adjust(r.Context(), chi.URLParam(r, "id"), req.Adjustments)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleConfirm(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := engine.Confirm(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleRestart(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := engine.Restart(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleDigest(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := engine.Digest(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, facts.ErrInvalidInput), errors.Is(err, confirm.ErrInvalidAdjustment):
		status = http.StatusBadRequest
	case errors.Is(err, confirm.ErrInvalidTransition):
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
