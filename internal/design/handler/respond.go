package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/catalog"
	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/middleware"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrEmptyQuery),
		errors.Is(err, model.ErrUnsupportedFile),
		errors.Is(err, catalog.ErrUnknownAction),
		errors.Is(err, catalog.ErrFieldNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrEmptyCatalog),
		errors.Is(err, catalog.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotDesignFile),
		errors.Is(err, model.ErrMissingRating):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail: 4xx отдаёт текст ошибки клиенту, 5xx только пишет в лог.
func fail(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		msg = "internal server error"
	}
	if werr := writeJSON(w, status, errorBody{Error: msg}); werr != nil {
		log.Error().Err(werr).Msg("write json")
	}
}

func respond(w http.ResponseWriter, log zerolog.Logger, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func requestLogger(r *http.Request, logger zerolog.Logger) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("rid", rid).Logger()
	}
	return logger
}
