package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ziadkadry99/reqpilot/internal/db"
	"github.com/ziadkadry99/reqpilot/internal/llm"
	"github.com/ziadkadry99/reqpilot/internal/quality"
	"github.com/ziadkadry99/reqpilot/internal/session"
)

type stubProvider struct {
	content string
}

func (s *stubProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: s.content}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	provider := &stubProvider{content: `{
		"product_type": "web app",
		"core_goal": "track daily habits",
		"target_users": "students",
		"user_scope": "personal",
		"core_features": ["habit list"]
	}`}
	engine := session.NewEngine(session.NewStore(database), provider, "stub-model")

	srv := New(Config{Port: 0, AllowAll: true}, database, engine, provider)
	session.RegisterRoutes(srv.Router(), engine)
	quality.RegisterRoutes(srv.Router())
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestRequestLoggingIsOptIn(t *testing.T) {
	quiet := New(Config{}, nil, nil, nil)
	loud := New(Config{LogRequests: true}, nil, nil, nil)

	if got, want := len(loud.Router().Middlewares()), len(quiet.Router().Middlewares())+1; got != want {
		t.Errorf("middleware count with logging = %d, want %d", got, want)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/sessions", map[string]string{"user_id": "u1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var sess struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("session ID empty")
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/answers",
		map[string]string{"answer": "I want a habit tracker"})
	if rec.Code != http.StatusOK {
		t.Fatalf("answer status = %d: %s", rec.Code, rec.Body)
	}
	var turn struct {
		Degraded bool `json:"degraded"`
		Score    struct {
			Critical float64 `json:"critical"`
		} `json:"score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatal(err)
	}
	if turn.Degraded {
		t.Error("degraded extraction with a healthy stub")
	}
	if turn.Score.Critical != 1 {
		t.Errorf("critical = %v, want 1", turn.Score.Critical)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/sessions/"+sess.ID+"/completeness", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("completeness status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/adjustments",
		map[string]any{"adjustments": []map[string]any{
			{"field_path": "coreGoal", "new_value": "track habits with reminders"},
		}})
	if rec.Code != http.StatusOK {
		t.Fatalf("adjust status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/sessions/"+sess.ID+"/digest", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("digest status = %d: %s", rec.Code, rec.Body)
	}
	var d struct {
		CoreGoal string `json:"core_goal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.CoreGoal != "track habits with reminders" {
		t.Errorf("digest goal = %q", d.CoreGoal)
	}
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	t.Run("unknown session is 404", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/sessions/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("empty answer is 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/sessions", nil)
		var sess struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
			t.Fatal(err)
		}

		rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/answers",
			map[string]string{"answer": " "})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad adjustment is 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/sessions", nil)
		var sess struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
			t.Fatal(err)
		}
		doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/answers",
			map[string]string{"answer": "habit tracker"})
		doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/summary", nil)

		rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/adjustments",
			map[string]any{"adjustments": []map[string]any{{"field_path": "bogus", "new_value": "x"}}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
		}
	})

	t.Run("confirm before summary is 409", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/sessions", nil)
		var sess struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
			t.Fatal(err)
		}

		rec = doRequest(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/confirm", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestAssessEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doc := map[string]any{
		"title":    "Habit Tracker",
		"overview": map[string]any{"description": "A habit tracking app for students."},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/assess", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var report struct {
		Completeness    float64  `json:"completeness"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Completeness > 0.8 {
		t.Errorf("completeness = %v for a mostly empty document", report.Completeness)
	}
	if len(report.Recommendations) == 0 {
		t.Error("recommendations empty")
	}

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/assess", bytes.NewBufferString("not json"))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
