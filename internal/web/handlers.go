package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ringoptima/ringoptima/internal/contact"
	"github.com/ringoptima/ringoptima/internal/logging"
)

// multipartMemory bounds the in-memory portion of a multipart parse;
// larger files spill to temp files.
const multipartMemory = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport accepts a multipart CSV upload under the "file" field
// and runs the full import pipeline on it.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusBadRequest)
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	defer s.limiter.Release()

	log := logging.WithFields(r.Context(), "file", header.Filename, "size", len(data))
	log.Info("import started")

	// Imports outlive the request middleware timeout. Shed the request
	// deadline but keep its values, then apply the import budget.
	importCtx := context.WithoutCancel(r.Context())
	if s.opts.ImportTimeout > 0 {
		var cancel context.CancelFunc
		importCtx, cancel = context.WithTimeout(importCtx, s.opts.ImportTimeout)
		defer cancel()
	}

	result, err := s.service.ImportCSV(importCtx, header.Filename, data)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	log.Info("import finished",
		"batch_id", result.BatchID,
		"imported", result.Imported,
		"skipped", result.Skipped.Total(),
		"duration_ms", result.Duration.Milliseconds(),
	)
	writeJSON(w, http.StatusOK, result)
}

// handleExport streams the filtered contact list as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	fileName, content := s.service.ExportCSV(parseFilter(r))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, content)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts := s.service.FilteredContacts(parseFilter(r))
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	c, err := s.service.GetContact(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	var upd contact.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.respondError(w, r, fmt.Errorf("decode update: %w", err), http.StatusBadRequest)
		return
	}

	c, err := s.service.UpdateContact(r.Context(), id, upd)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	if err := s.service.DeleteContact(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	logs, err := s.service.CallLogs(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	if logs == nil {
		logs = []contact.CallLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type logCallRequest struct {
	Note            string              `json:"note"`
	Outcome         contact.CallOutcome `json:"outcome"`
	DurationSeconds int                 `json:"durationSeconds"`
}

func (s *Server) handleLogCall(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	var req logCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode call: %w", err), http.StatusBadRequest)
		return
	}
	if !validOutcome(req.Outcome) {
		s.respondError(w, r, fmt.Errorf("invalid outcome %q", req.Outcome), http.StatusBadRequest)
		return
	}

	logged, err := s.service.LogCall(r.Context(), contact.CallLog{
		ContactID:       id,
		Note:            strings.TrimSpace(req.Note),
		Outcome:         req.Outcome,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusCreated, logged)
}

func validOutcome(o contact.CallOutcome) bool {
	switch o {
	case contact.OutcomeAnswered, contact.OutcomeNoAnswer, contact.OutcomeVoicemail,
		contact.OutcomeCallback, contact.OutcomeWrongNumber:
		return true
	}
	return false
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches := s.service.Batches()
	if batches == nil {
		batches = []contact.Batch{}
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	if err := s.service.DeleteBatch(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Stats())
}

func (s *Server) handleOperatorStats(w http.ResponseWriter, r *http.Request) {
	shares := s.service.OperatorDistribution()
	if shares == nil {
		shares = []contact.OperatorShare{}
	}
	writeJSON(w, http.StatusOK, shares)
}

type saveFilterRequest struct {
	Name   string         `json:"name"`
	Filter contact.Filter `json:"filter"`
}

func (s *Server) handleSaveFilter(w http.ResponseWriter, r *http.Request) {
	var req saveFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode filter: %w", err), http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.respondError(w, r, errors.New("filter name is required"), http.StatusBadRequest)
		return
	}

	sf, err := s.service.SaveFilter(r.Context(), req.Name, req.Filter)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusCreated, sf)
}

func (s *Server) handleListFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := s.service.SavedFilters(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	if filters == nil {
		filters = []contact.SavedFilter{}
	}
	writeJSON(w, http.StatusOK, filters)
}

func (s *Server) handleDeleteFilter(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	if err := s.service.DeleteSavedFilter(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// idParam parses the {id} route parameter, responding 400 on junk.
func (s *Server) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, r, fmt.Errorf("invalid id %q", raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseFilter builds a contact.Filter from query parameters. Absent
// parameters leave their fields at the zero value, meaning no
// constraint.
func parseFilter(r *http.Request) contact.Filter {
	q := r.URL.Query()

	f := contact.Filter{
		Search:   strings.TrimSpace(q.Get("search")),
		Operator: strings.TrimSpace(q.Get("operator")),
		Status:   contact.Status(q.Get("status")),
		Priority: contact.Priority(q.Get("priority")),
		City:     strings.TrimSpace(q.Get("city")),
		Sort:     q.Get("sort"),
	}
	if raw := q.Get("batch"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			f.BatchID = id
		}
	}
	return f
}
