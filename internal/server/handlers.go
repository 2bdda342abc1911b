package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/errors"
	"github.com/vonderheiden/bannerforge/pkg/export"
)

// exportRequest is the POST /api/export payload: the banner document
// plus capture options.
type exportRequest struct {
	Banner     banner.Document `json:"banner"`
	PixelRatio float64         `json:"pixel_ratio,omitempty"`
	Persist    bool            `json:"persist,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"`
}

// exportResponseMeta is surfaced in headers next to the PNG body.
const (
	headerFilename = "Content-Disposition"
	headerWarnings = "X-Export-Warnings"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, banner.Dimensions())
}

func (s *Server) handleBackgrounds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, banner.Backgrounds())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode request"))
		return
	}
	st, err := req.Banner.ToState()
	if err != nil {
		writeError(w, err)
		return
	}
	s.mount(st)

	res, err := s.runner.Execute(r.Context(), export.Options{
		PixelRatio: req.PixelRatio,
		Persist:    req.Persist,
		Refresh:    req.Refresh,
		// server captures need no settle frame: the surface is
		// composed synchronously from already awaited assets
		SettleDelay: -1,
		CacheTTL:    24 * time.Hour,
		Logger:      s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if len(res.Warnings) > 0 {
		if encoded, err := json.Marshal(res.Warnings); err == nil {
			w.Header().Set(headerWarnings, string(encoded))
		}
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set(headerFilename, `attachment; filename="`+res.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

func (s *Server) handleListBanners(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no catalog configured"))
		return
	}
	list, err := s.deps.Catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetBanner(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no catalog configured"))
		return
	}
	rec, err := s.deps.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetBannerImage(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no catalog configured"))
		return
	}
	rec, err := s.deps.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if len(rec.PNG) == 0 {
		writeError(w, errors.New(errors.ErrCodeNotFound, "record %s has no artifact", rec.ID))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.PNG)
}

func (s *Server) handleDeleteBanner(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no catalog configured"))
		return
	}
	if err := s.deps.Catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errorBody is the JSON error envelope: a machine code plus the same
// actionable guidance the CLI prints.
type errorBody struct {
	Code     errors.Code `json:"code"`
	Message  string      `json:"message"`
	Guidance string      `json:"guidance,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{
		Code:     code,
		Message:  errors.UserMessage(err),
		Guidance: errors.Guidance(err),
	})
}

// statusFor maps domain error codes onto HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDimension,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidBackground:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeRecordNotFound:
		return http.StatusNotFound
	case errors.ErrCodeExportInFlight:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout, errors.ErrCodeSyncTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
