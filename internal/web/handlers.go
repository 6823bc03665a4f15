package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karangattu/csv-anonymizer/internal/core"
	"github.com/karangattu/csv-anonymizer/internal/logging"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// uploadResponse is returned after a successful ingestion.
type uploadResponse struct {
	FileID    string   `json:"file_id"`
	Columns   []string `json:"columns"`
	RowCount  int      `json:"row_count"`
	Encoding  string   `json:"encoding"`
	Delimiter string   `json:"delimiter"`
}

// handleUpload accepts a multipart CSV upload and returns the detected
// column names and format parameters.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		logging.FromContext(r.Context()).Warn("multipart parse failed", "error", err)
		respondErrorJSON(w, core.MapError(fmt.Errorf("request body too large or invalid form: %w", err)),
			http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErrorJSON(w, core.UserMessage{
			Message: "No file provided",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE000",
		}, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondErrorJSON(w, core.UserMessage{
			Message: "No file selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE000",
		}, http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}

	res, err := s.service.Ingest(r.Context(), data, header.Filename)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, uploadResponse{
		FileID:    res.Handle,
		Columns:   res.Columns,
		RowCount:  res.RowCount,
		Encoding:  res.Encoding,
		Delimiter: res.DelimiterLabel,
	})
}

// anonymizeRequest is the JSON body for the anonymize endpoint.
type anonymizeRequest struct {
	FileID    string   `json:"file_id"`
	Columns   []string `json:"columns"`
	SecretKey string   `json:"secret_key"`
}

// anonymizeResponse reports which columns were anonymized.
type anonymizeResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	AnonymizedColumns []string `json:"anonymized_columns"`
}

// handleAnonymize replaces the selected columns with keyed digests and
// stores the result for download.
func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorJSON(w, core.UserMessage{
			Message: "Invalid request body",
			Action:  "Send JSON with file_id, columns and secret_key",
			Code:    "REQ001",
		}, http.StatusBadRequest)
		return
	}

	res, err := s.service.Anonymize(r.Context(), req.FileID, req.Columns, req.SecretKey)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, anonymizeResponse{
		Success:           true,
		Message:           fmt.Sprintf("Successfully anonymized %d column(s)", len(res.AnonymizedColumns)),
		AnonymizedColumns: res.AnonymizedColumns,
	})
}

// handleDownload streams the anonymized CSV as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	rc, filename, err := s.service.FetchResult(r.Context(), fileID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := io.Copy(w, rc); err != nil {
		// Headers already sent; just record the broken transfer.
		logging.FromContext(r.Context()).Warn("download interrupted",
			"file_id", fileID, "error", err)
	}
}

// handleCleanup releases the upload's files and handle. It always
// succeeds, including for unknown handles.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	s.service.Release(r.Context(), fileID)
	writeJSON(w, map[string]bool{"success": true})
}
