package magnetdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrAPI matches every non-2xx answer from the server.
	ErrAPI = errors.New("magnetdb api")

	ErrNotFound      = errors.New("not found")
	ErrUnprocessable = errors.New("unprocessable entity")
)

// APIError describes a non-2xx response. Detail carries the server's
// explanation when the body was FastAPI's {"detail": ...} shape.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("magnetdb api: %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets callers use errors.Is with ErrAPI, ErrNotFound and ErrUnprocessable.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnprocessable:
		return e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// errorResponse is the JSON FastAPI answers with on HTTPException and on
// request validation failures.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if req := resp.Request; req != nil {
		apiErr.Method = req.Method
		apiErr.Path = req.URL
		if req.RawRequest != nil {
			apiErr.Path = req.RawRequest.URL.Path
		}
	}
	apiErr.Detail = parseDetail(resp.Body())
	return apiErr
}

func parseDetail(body []byte) string {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}

	var issues []validationIssue
	if err := json.Unmarshal(payload.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if field := issueField(issue.Loc); field != "" {
				msgs = append(msgs, field+": "+issue.Msg)
				continue
			}
			msgs = append(msgs, issue.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	return string(payload.Detail)
}

// issueField returns the last element of a validation location, which is the
// offending field name (["body", "name"] -> "name").
func issueField(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	return fmt.Sprint(loc[len(loc)-1])
}
