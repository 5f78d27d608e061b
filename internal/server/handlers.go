package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/brandkit/internal/colour"
	imageloader "github.com/jmylchreest/brandkit/internal/image"
	"github.com/jmylchreest/brandkit/internal/version"
)

const (
	imageField       = "image"
	paletteSizeField = "paletteSize"
	rawField         = "raw"

	// multipartMemory is how much of an upload is buffered in memory before
	// spilling to temporary files.
	multipartMemory = 8 << 20
)

var (
	errNoImage    = errors.New("no image file provided")
	errPOST       = errors.New("POST method required for this endpoint")
	errGET        = errors.New("GET method required for this endpoint")
	errUploadSize = errors.New("uploaded image is too large")
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// POST /extract-colors
func (s *Server) extractColours(w http.ResponseWriter, r *http.Request) {
	logger := hclog.FromContext(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errPOST)
		return
	}

	if r.ContentLength > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, errUploadSize)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, errUploadSize)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	size := s.cfg.PaletteSize
	if v := r.FormValue(paletteSizeField); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid %s: %q", paletteSizeField, v))
			return
		}
		size = n
	}

	raw := false
	if v := r.FormValue(rawField); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid %s: %q", rawField, v))
			return
		}
		raw = b
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		writeError(w, http.StatusBadRequest, errNoImage)
		return
	}
	defer file.Close()

	img, format, err := imageloader.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	logger.Debug("decoded upload", "filename", header.Filename, "format", format, "bounds", img.Bounds().Size())

	var palette *colour.Palette
	if raw {
		palette, err = s.extractor.Extract(img, size)
	} else {
		palette, err = s.extractor.ExtractPalette(img, size)
	}
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("extraction failed", "error", err)
		}
		writeError(w, status, err)
		return
	}

	logger.Info("extracted palette", "colours", palette.Len(), "samples", palette.TotalSamples, "fallback", palette.FellBack, "raw", raw)
	writeJSON(w, http.StatusOK, colour.NewResponse(palette))
}

// GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, errGET)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "brandkit",
		Version: version.Short(),
	})
}

// statusFor maps extraction errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, colour.ErrEmptySample):
		return http.StatusUnprocessableEntity
	case errors.Is(err, colour.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, colour.NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
