package adapthttp

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

func (s *Server) handlePutEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string  `json:"date"`
		Weight float64 `json:"weight"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := s.entries.LogWeight(r.Context(), userFrom(r.Context()), req.Date, req.Weight)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.entries.Delete(r.Context(), userFrom(r.Context()), chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, errors.New("entry not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleRecentEntries(w http.ResponseWriter, r *http.Request) {
	items, err := s.entries.Recent(r.Context(), intQuery(r, "limit", 10))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleImport accepts a multipart upload in field "file" or a raw CSV body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var src io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("missing upload field \"file\""))
			return
		}
		defer file.Close()
		src = file
	}

	res, err := s.entries.Import(r.Context(), src)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": s.entries.ExportFilename(),
	}))
	if err := s.entries.Export(r.Context(), w); err != nil {
		logrus.Errorf("export: %s", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
	}
}
