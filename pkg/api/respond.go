package api

import (
	"encoding/json"
	"errors"
	"net/http"

	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/store"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    gderrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := gderrors.GetCode(err)
	if code == "" {
		code = gderrors.ErrCodeInternal
	}
	writeJSON(w, statusOf(code), errorResponse{Code: code, Message: gderrors.UserMessage(err)})
}

// statusOf maps an error code to an HTTP status.
func statusOf(code gderrors.Code) int {
	switch {
	case code.IsClientError():
		return http.StatusBadRequest
	case code == gderrors.ErrCodeNotFound, code == gderrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == gderrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == gderrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case code == gderrors.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func notFound(format string, args ...any) error {
	return gderrors.New(gderrors.ErrCodeNotFound, format, args...)
}

// storeError attaches NOT_FOUND to [store.ErrNotFound] and INTERNAL_ERROR
// to everything else.
func storeError(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound("report %s not found", id)
	}
	if gderrors.GetCode(err) != "" {
		return err
	}
	return gderrors.Wrap(gderrors.ErrCodeInternal, err, "report store")
}

// decode reads a JSON body of at most s.maxBody bytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return gderrors.New(gderrors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		return gderrors.Wrap(gderrors.ErrCodeInvalidFormat, err, "decode request")
	}
	if dec.More() {
		return gderrors.New(gderrors.ErrCodeInvalidFormat, "decode request: trailing data after JSON body")
	}
	return nil
}
