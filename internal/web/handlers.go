package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/personsvc/internal/core"
	"github.com/JonMunkholm/personsvc/internal/logging"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds the create request body.
const maxJSONBody = 1 << 20

// importDeadlineSlack is added to the import timeout for the connection
// deadlines, leaving room to read the upload and write the result.
const importDeadlineSlack = 30 * time.Second

// handlerFunc is an HTTP handler that reports failure by returning an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to http.HandlerFunc; a returned error is written by
// respondError.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.respondError(w, r, err)
		}
	}
}

// handleGetPersons returns a page of persons.
// Query: offset (row offset, default 0), limit (default and max from config).
func (s *Server) handleGetPersons(w http.ResponseWriter, r *http.Request) error {
	offset, err := queryInt(r, "offset")
	if err != nil {
		return err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return err
	}

	persons, err := s.service.GetPersons(r.Context(), offset, limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, persons)
	return nil
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id %q is not a number", core.ErrMalformedRequest, raw)
	}

	p, err := s.service.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

func (s *Server) handleGetPersonsByColor(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "colorName")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	color, err := core.ParseColor(raw)
	if err != nil {
		return err
	}

	persons, err := s.service.GetByColor(r.Context(), color)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, persons)
	return nil
}

// handleCreatePerson decodes a PersonCreateModel and answers 201 with the
// stored person and its Location.
func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var model core.PersonCreateModel
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&model); err != nil {
		if errors.Is(err, core.ErrInvalidColor) {
			return err
		}
		return fmt.Errorf("%w: decode body: %w", core.ErrMalformedRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", core.ErrMalformedRequest)
	}

	p, err := s.service.CreatePerson(r.Context(), model)
	if err != nil {
		return err
	}

	// BasePath carries no trailing slash, so "/" yields "/person/1".
	w.Header().Set("Location", fmt.Sprintf("%s/person/%d", s.cfg.Server.BasePath, p.ID))
	writeJSON(w, http.StatusCreated, p)
	return nil
}

// handleImport streams the multipart field "file" into the CSV import.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) error {
	s.extendDeadlines(w, r)

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: file too large or invalid form: %w", core.ErrInvalidUpload, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: no file provided: %w", core.ErrInvalidUpload, err)
	}
	defer file.Close()

	logging.FromContext(r.Context()).Debug("import upload received",
		"file", header.Filename,
		"size", header.Size,
	)

	result, err := s.service.ImportCSV(r.Context(), header.Filename, file)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

// extendDeadlines lifts the server read and write timeouts for the import
// request so that only the import timeout bounds it.
func (s *Server) extendDeadlines(w http.ResponseWriter, r *http.Request) {
	deadline := time.Now().Add(s.cfg.Import.Timeout + importDeadlineSlack)
	rc := http.NewResponseController(w)
	for _, set := range []func(time.Time) error{rc.SetReadDeadline, rc.SetWriteDeadline} {
		if err := set(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
			logging.FromContext(r.Context()).Warn("extend import deadline", "error", err)
		}
	}
}

// healthResponse reports liveness and import capacity.
type healthResponse struct {
	Status  string                   `json:"status"`
	Imports core.ImportLimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Imports: s.service.ImportStatus()})
	return nil
}

// queryInt parses an optional integer query parameter. Absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", core.ErrMalformedRequest, name, raw)
	}
	return v, nil
}

