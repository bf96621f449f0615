package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 1 << 20

// fieldIssue is one entry of a ValidationError response.
type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Error   string       `json:"error"`
	Details []fieldIssue `json:"details"`
}

func decodeJSON(r *http.Request, dest interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return decodeStrict(body, dest)
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict(body []byte, dest interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondValidation(w http.ResponseWriter, details []fieldIssue) {
	respondJSON(w, http.StatusBadRequest, validationResponse{Error: "ValidationError", Details: details})
}

// respondDecodeError reports a malformed body with the ValidationError shape.
func respondDecodeError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		respondValidation(w, []fieldIssue{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type),
		}})
		return
	}
	if errors.Is(err, io.EOF) {
		respondValidation(w, []fieldIssue{{Field: "body", Message: "request body is required"}})
		return
	}
	respondValidation(w, []fieldIssue{{Field: "body", Message: err.Error()}})
}

func respondServerError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondError(w, http.StatusInternalServerError, err.Error())
}
