package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"atlas/api/internal/auth"
	"atlas/api/internal/search"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"snapshots": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["snapshots"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "user": nil})
			return
		}
		if _, err := s.service.SessionFromToken(token); err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "user": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": s.service.CurrentUser()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/login" {
		var body LoginInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, identity, err := s.service.Login(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token":     session.Token,
			"expiresAt": session.ExpiresAt,
			"user":      identity,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		s.service.Logout(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodPut && r.URL.Path == "/api/session/user" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		var body UpdateUserInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		identity, err := s.service.UpdateUser(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": identity})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/feed" {
		query := r.URL.Query()
		pages, _ := strconv.Atoi(query.Get("pages"))
		writeJSON(w, http.StatusOK, s.service.Feed(query.Get("tone"), pages))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/stories" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		var body ShareStoryInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		story, err := s.service.ShareStory(r.Context(), body.Content)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, story)
		return
	}

	parts := splitPath(r.URL.Path)

	// /api/stories/{id} and nested comment routes
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "stories" {
		storyID := parts[2]

		if r.Method == http.MethodPut && len(parts) == 3 {
			if _, ok := s.requireSession(w, r); !ok {
				return
			}
			var body ShareStoryInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			story, found, err := s.service.EditStory(r.Context(), storyID, body.Content)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			if !found {
				writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": false})
				return
			}
			writeJSON(w, http.StatusOK, story)
			return
		}

		if r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "uplift" {
			story, found := s.service.UpliftStory(storyID)
			if !found {
				writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": false})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "upliftCount": story.UpliftCount})
			return
		}

		if r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "comments" {
			if _, ok := s.requireSession(w, r); !ok {
				return
			}
			var body AddCommentInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			comment, err := s.service.AddComment(r.Context(), storyID, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, comment)
			return
		}

		if r.Method == http.MethodDelete && len(parts) == 5 && parts[3] == "comments" {
			if _, ok := s.requireSession(w, r); !ok {
				return
			}
			s.service.DeleteComment(storyID, parts[4])
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}

		if r.Method == http.MethodPost && len(parts) == 6 && parts[3] == "comments" && parts[5] == "helpful" {
			s.service.MarkCommentHelpful(storyID, parts[4])
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/connections" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"connections": s.service.Connections()})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/connections" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		var body SendConnectionInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		request, err := s.service.SendConnectionRequest(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, request)
		return
	}

	if r.Method == http.MethodPut && len(parts) == 3 && parts[0] == "api" && parts[1] == "connections" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		var body UpdateConnectionInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		request, found, err := s.service.UpdateConnection(parts[2], body.Status)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": false})
			return
		}
		writeJSON(w, http.StatusOK, request)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/moods" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"moods": s.service.MoodLog(),
			"types": s.service.MoodTypes(),
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/moods" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		var body AddMoodInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		entry, err := s.service.AddMood(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/tone-check" {
		var body ShareStoryInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"feedback": s.service.ToneCheck(r.Context(), body.Content)})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/crisis" {
		writeJSON(w, http.StatusOK, s.service.CrisisNotice())
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/crisis/dismiss" {
		s.service.DismissCrisis()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))
		offset, _ := strconv.Atoi(query.Get("offset"))
		writeJSON(w, http.StatusOK, s.service.Search(search.Query{
			Text:   query.Get("q"),
			Limit:  limit,
			Offset: offset,
		}))
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/sanctuary/tracks" {
		writeJSON(w, http.StatusOK, map[string]any{
			"tracks":     s.service.SanctuaryTracks(r.Context()),
			"categories": s.service.SanctuaryCategories(),
		})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
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

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
