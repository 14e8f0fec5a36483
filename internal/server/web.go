package server

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sozercan/log-doctor/apimodels"
	"github.com/sozercan/log-doctor/internal/analyzer"
	"github.com/sozercan/log-doctor/internal/render"
)

//go:embed templates/*.html templates/sample.log
var templateFS embed.FS

type pages struct {
	index     *template.Template
	sampleLog string
}

type indexPage struct {
	Log      string
	Result   *apimodels.AnalysisResponse
	Error    string
	Domain   string
	Language string
}

func mustLoadPages() *pages {
	funcs := template.FuncMap{
		"segments": render.Segments,
		"inc":      func(i int) int { return i + 1 },
	}
	index := template.Must(template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html"))

	sample, err := templateFS.ReadFile("templates/sample.log")
	if err != nil {
		panic(err)
	}

	return &pages{index: index, sampleLog: string(sample)}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, indexPage{Log: s.pages.sampleLog})
}

func (s *Server) handleFormAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.renderIndex(w, http.StatusRequestEntityTooLarge, indexPage{Error: msgTooLarge})
			return
		}
		s.renderIndex(w, http.StatusBadRequest, indexPage{Error: "Invalid form submission."})
		return
	}

	page := indexPage{Log: r.PostFormValue("log")}
	switch {
	case strings.TrimSpace(page.Log) == "":
		page.Error = msgEmptyLog
		s.renderIndex(w, http.StatusBadRequest, page)
		return
	case int64(len(page.Log)) > s.cfg.Analysis.MaxLogBytes:
		page.Error = msgTooLarge
		s.renderIndex(w, http.StatusRequestEntityTooLarge, page)
		return
	}

	result, err := s.analyze(r.Context(), page.Log)
	if err != nil {
		page.Error = analyzer.UserMessage(err)
		s.renderIndex(w, http.StatusBadGateway, page)
		return
	}

	page.Result = result
	s.renderIndex(w, http.StatusOK, page)
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, page indexPage) {
	page.Domain = s.cfg.Analysis.Domain
	page.Language = s.cfg.Analysis.Language

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.index.Execute(w, page); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
}
