package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sozercan/log-doctor/apimodels"
	"github.com/sozercan/log-doctor/internal/analyzer"
)

const (
	msgEmptyLog  = "Log content cannot be empty."
	msgTooLarge  = "The log is too large to analyze. Please paste only the relevant error and traceback."
	kindRequest  = "invalid_request"
	kindTooLarge = "request_too_large"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())

	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge, kindTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error(), kindRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Log) == "" {
		writeError(w, http.StatusBadRequest, msgEmptyLog, kindRequest)
		return
	}

	if int64(len(req.Log)) > s.cfg.Analysis.MaxLogBytes {
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge, kindTooLarge)
		return
	}

	slog.Debug("Received analysis request", "log_bytes", len(req.Log))

	result, err := s.analyze(r.Context(), req.Log)
	if err != nil {
		writeError(w, http.StatusBadGateway, analyzer.UserMessage(err), analyzer.Kind(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// analyze runs one analysis under the configured model deadline and wraps the
// result with response metadata.
func (s *Server) analyze(ctx context.Context, logText string) (*apimodels.AnalysisResponse, error) {
	if s.cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LLM.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	analysis, err := s.analyzer.Analyze(ctx, logText)
	if err != nil {
		return nil, err
	}

	provider := s.analyzer.Provider()
	return &apimodels.AnalysisResponse{
		Analysis: analysis,
		Metadata: apimodels.AnalysisMetadata{
			ID:       uuid.NewString(),
			Duration: time.Since(startTime).String(),
			Provider: provider.Name(),
			Model:    provider.Model(),
		},
	}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// maxBodyBytes leaves room for JSON or form encoding overhead around the log.
func (s *Server) maxBodyBytes() int64 {
	return s.cfg.Analysis.MaxLogBytes*2 + 1024
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, kind string) {
	writeJSON(w, status, apimodels.ErrorResponse{Error: message, Kind: kind})
}
