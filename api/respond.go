package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rs/zerolog"
)

const (
	problemBaseURL        = "https://www.jhipster.tech/problem/"
	problemDefaultType    = problemBaseURL + "problem-with-message"
	problemConstraintType = problemBaseURL + "constraint-violation"
	problemContentType    = "application/problem+json"
)

// Problem is the error body returned for every failed request.
type Problem struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Path        string       `json:"path"`
	Message     string       `json:"message"`
	Params      string       `json:"params,omitempty"`
	EntityName  string       `json:"entityName,omitempty"`
	ErrorKey    string       `json:"errorKey,omitempty"`
	Field       string       `json:"field,omitempty"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

type FieldError struct {
	ObjectName string `json:"objectName,omitempty"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

type Responder struct {
	logger  zerolog.Logger
	appName string
}

func NewResponder(logger zerolog.Logger, appName string) Responder {
	return Responder{logger: logger, appName: appName}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	r.writeJSON(w, status, "application/json", data)
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, contentType string, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(Problem{
			Type:    problemDefaultType,
			Title:   "Response too large",
			Status:  status,
			Message: "error.http.500",
		})
		contentType = problemContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Str("path", req.URL.Path).Msg("unexpected error")
		r.writeJSON(w, http.StatusInternalServerError, problemContentType, Problem{
			Type:    problemDefaultType,
			Title:   http.StatusText(http.StatusInternalServerError),
			Status:  http.StatusInternalServerError,
			Path:    req.URL.Path,
			Message: "error.http.500",
		})
		return
	}

	problem := Problem{
		Type:    problemDefaultType,
		Title:   http.StatusText(apiErr.StatusCode),
		Status:  apiErr.StatusCode,
		Detail:  apiErr.Error(),
		Path:    req.URL.Path,
		Message: apiErr.MessageKey(),
	}

	switch {
	case apiErr.ErrorKey != "":
		problem.Title = apiErr.Details
		problem.Detail = ""
		problem.EntityName = apiErr.EntityName
		problem.ErrorKey = apiErr.ErrorKey
		problem.Params = apiErr.EntityName
		failureAlert(w, r.appName, apiErr.EntityName, apiErr.ErrorKey)
	case apiErr.Field != "":
		problem.Type = problemConstraintType
		problem.Title = "Method argument not valid"
		problem.Field = apiErr.Field
		problem.FieldErrors = []FieldError{{Field: apiErr.Field, Message: apiErr.Details}}
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		// Details of server-side failures stay in the logs.
		r.logger.Error().Str("path", req.URL.Path).Msg(apiErr.GetFullError())
		problem.Detail = apiErr.Message()
	}
	if apiErr.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", wwwAuthenticate(apiErr))
	}

	r.writeJSON(w, apiErr.StatusCode, problemContentType, problem)
}

func wwwAuthenticate(apiErr *errs.ApiErr) string {
	if errs.IsMissingTokenError(apiErr) {
		return "Bearer"
	}
	return `Bearer error="invalid_token", error_description="` + apiErr.Message() + `"`
}
