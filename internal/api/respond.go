package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
)

var errBodyTooLarge = stderrors.New("request body too large")

// errorKey picks the JSON key an error message is written under.
type errorKey func(code errors.ErrorCode) string

func errorBody(errors.ErrorCode) string { return "error" }

func messageBody(errors.ErrorCode) string { return "message" }

func messageOnNotFound(code errors.ErrorCode) string {
	if code == errors.ErrCodeResourceNotFound {
		return "message"
	}
	return "error"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// readJSONBody reads at most maxJSONBytes. An empty body reads as "{}".
func readJSONBody(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return "", errBodyTooLarge
		}
		return "", errors.NewValidationError("could not read request body")
	}
	if len(body) == 0 {
		return "{}", nil
	}
	return string(body), nil
}

// jsonRoute decodes the request body into I and runs exec. Input validation is
// left to the operation so its messages reach the client unchanged.
func jsonRoute[I any, O any](s *Server, exec camunda.Executor[I, O], status int, key errorKey) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readJSONBody(w, r)
		if err != nil {
			respond[O](s, w, r, nil, err, status, key)
			return
		}
		out, err := camunda.RunJob(r.Context(), body, nil, exec)
		respond(s, w, r, out, err, status, key)
	}
}

// respond writes out with status, or the error. An operation may return a
// non-nil output alongside an error; that output is written with the error's
// status instead of the message.
func respond[O any](s *Server, w http.ResponseWriter, r *http.Request, out *O, err error, status int, key errorKey) {
	if err == nil {
		writeJSON(w, status, out)
		return
	}

	if stderrors.Is(err, errBodyTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{key(errors.ErrCodeValidationFailed): "Request body too large"})
		return
	}

	stdErr := errors.Normalize(err)
	code := errors.HTTPStatus(stdErr.Code)
	fields := map[string]interface{}{
		"path":      r.URL.Path,
		"code":      stdErr.Code,
		"status":    code,
		"requestId": RequestID(r.Context()),
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	if code >= http.StatusInternalServerError {
		s.log.Error(stdErr.Message, fields)
	} else {
		s.log.Debug(stdErr.Message, fields)
	}

	if out != nil {
		writeJSON(w, code, out)
		return
	}
	writeJSON(w, code, map[string]string{key(stdErr.Code): stdErr.Message})
}
