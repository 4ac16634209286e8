package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pt-autofill/internal/autofill"
	"pt-autofill/internal/config"
	"pt-autofill/internal/models"
	"pt-autofill/pkg/logger"
)

type classifyReq struct {
	MediaInfo string `json:"mediainfo"`
	Title     string `json:"title"`
}

type batchReq struct {
	Items []models.Payload `json:"items"`
}

type fillReq struct {
	Payload *models.Payload `json:"payload"`
	HTML    string          `json:"html"`
	Mode    string          `json:"mode"`
}

type fillResp struct {
	Result models.FillResult `json:"result"`
	HTML   string            `json:"html"`
}

func newMux(svc *autofill.Service, cfg config.Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /classify  { "mediainfo": "...", "title": "..." }
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		if !allowPost(w, r) {
			return
		}
		var req classifyReq
		if !decodeBody(w, r, cfg.MaxBodyBytes, &req) {
			return
		}
		if strings.TrimSpace(req.MediaInfo) == "" && strings.TrimSpace(req.Title) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mediainfo or title required"})
			return
		}
		writeJSON(w, http.StatusOK, svc.Classify(req.MediaInfo, req.Title))
	})

	// POST /classify/batch  { "items": [{ "title": "...", "mediainfo": "..." }] }
	mux.HandleFunc("/classify/batch", func(w http.ResponseWriter, r *http.Request) {
		if !allowPost(w, r) {
			return
		}
		var req batchReq
		if !decodeBody(w, r, cfg.MaxBodyBytes, &req) {
			return
		}
		if len(req.Items) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
		defer cancel()
		writeJSON(w, http.StatusOK, svc.ClassifyBatch(ctx, req.Items, cfg.Concurrency))
	})

	// POST /fill  { "payload": {...}, "html": "<html>...", "mode": "json|title" }
	mux.HandleFunc("/fill", func(w http.ResponseWriter, r *http.Request) {
		if !allowPost(w, r) {
			return
		}
		var req fillReq
		if !decodeBody(w, r, cfg.MaxBodyBytes, &req) {
			return
		}
		if strings.TrimSpace(req.HTML) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "html required"})
			return
		}
		doc, err := svc.ParsePage(strings.NewReader(req.HTML), "text/html; charset=utf-8")
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		res, filled, err := svc.Fill(doc, req.Mode, req.Payload)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		var sb strings.Builder
		if err := filled.Render(&sb); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, fillResp{Result: res, HTML: sb.String()})
	})

	return mux
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		l.With("request_id", id).Infof("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}
