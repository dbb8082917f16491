package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"hoodreport/api/internal/report"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
	log        *zap.SugaredLogger
}

func NewHTTPServer(service *Service, corsOrigin string, log *zap.SugaredLogger) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin, log: log}
}

// Handler builds the router. Local report operations are open; sync routes
// require a technician bearer token.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/session", s.handleSession)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListLocal)
			r.Post("/", s.handleSaveLocal)
			r.Delete("/", s.handleDeleteLocal)
			r.Post("/export", s.handleExport)
			r.Post("/email", s.handleEmail)
		})

		r.Get("/clients/suggest", s.handleSuggest)

		r.Route("/sync/reports", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleListRemote)
			r.Post("/", s.handleSaveRemote)
			r.Delete("/{id}", s.handleDeleteRemote)
		})
	})

	return r
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Infow("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

type sessionKey struct{}

func (s *HTTPServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, CodeAuthFailed, "Missing bearer token", nil)
			return
		}
		session, err := s.service.SessionFromToken(token)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Passcode string `json:"passcode"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.Register(r.Context(), body.Email, body.Name, body.Passcode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Passcode string `json:"passcode"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.Login(r.Context(), body.Email, body.Passcode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	session, err := s.service.SessionFromToken(token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"technicianId":  session.TechnicianID,
		"email":         session.Email,
		"name":          session.Name,
	})
}

func (s *HTTPServer) handleListLocal(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListLocal(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []report.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": records})
}

func (s *HTTPServer) handleSaveLocal(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.SaveLocal(r.Context(), rec); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

func (s *HTTPServer) handleDeleteLocal(w http.ResponseWriter, r *http.Request) {
	id := report.Identity{
		Email: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email"))),
		Name:  strings.TrimSpace(r.URL.Query().Get("name")),
	}
	if err := s.service.DeleteLocal(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *HTTPServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	matches := s.service.Suggest(r.URL.Query().Get("q"))
	if matches == nil {
		matches = []report.ClientInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": matches})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	result, exportErr := s.service.Export(r.Context(), rec)
	if exportErr != nil {
		writeDomainError(w, exportErr)
		return
	}
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (s *HTTPServer) handleEmail(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.EmailReport(r.Context(), rec); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sent": true})
}

func (s *HTTPServer) handleListRemote(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	reports, err := s.service.ListRemote(r.Context(), session.TechnicianID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(reports))
	for _, stored := range reports {
		out = append(out, map[string]any{
			"id":        stored.ID,
			"createdAt": stored.CreatedAt,
			"report":    stored.Record,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": out})
}

func (s *HTTPServer) handleSaveRemote(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	stored, saveErr := s.service.SaveRemote(r.Context(), session.TechnicianID, rec)
	if saveErr != nil {
		writeDomainError(w, saveErr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": stored.ID, "report": stored.Record})
}

func (s *HTTPServer) handleDeleteRemote(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if err := s.service.DeleteRemote(r.Context(), session.TechnicianID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func sessionResponse(session Session) map[string]any {
	return map[string]any{
		"token":        session.Token,
		"technicianId": session.TechnicianID,
		"email":        session.Email,
		"name":         session.Name,
	}
}

// decodeRecord accepts both the canonical record shape and the legacy ones.
func decodeRecord(r *http.Request) (report.Record, error) {
	if r.Body == nil {
		return report.Record{}, errors.New("missing request body")
	}
	defer r.Body.Close()
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return report.Record{}, errors.New("invalid JSON body")
	}
	rec, err := report.DecodeRecord(raw)
	if err != nil {
		return report.Record{}, errors.New("invalid report body")
	}
	return rec, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func writeDomainError(w http.ResponseWriter, err error) {
	derr := asDomainError(err)
	writeError(w, derr.Status, derr.Code, derr.Message, derr.Details)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return errors.New("missing request body")
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func withSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func sessionFrom(r *http.Request) Session {
	session, _ := r.Context().Value(sessionKey{}).(Session)
	return session
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
