package notes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Note is a note as the API returns it.
//
// NOTE: The mockapi.io schema is owned by whoever configured the project, so
// the client does not pin down any field besides id and title. Everything
// else round-trips untouched.
type Note map[string]any

// ID returns the server-assigned id, or "" if the note has none yet.
// mockapi.io sends ids as strings, but numeric ids are accepted too.
func (n Note) ID() string {
	switch v := n["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Title returns the note title, or "" if it is missing or not a string.
func (n Note) Title() string {
	title, _ := n["title"].(string)
	return title
}

// ListOptions configures List.
type ListOptions struct {
	Search string // title substring filter, empty means the whole collection
}

// Request describes a single call to the API. It lives for one Send only.
type Request struct {
	Method string
	Path   string // relative to the base URL, e.g. "notes/5"
	Data   any    // JSON body, sent only when non-empty (see hasPayload)
}

// APIError is returned for any non-2xx response.
//
// The raw Body is kept as text because mockapi.io error bodies are not
// structured ("Not found", HTML pages from the edge, etc.).
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("notes API error (HTTP %d): %s", e.StatusCode, e.Body)
}

// IsClientError returns true for 4xx HTTP status codes.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsNotFound reports whether the API answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// readAPIError reads the response body and returns an APIError.
func readAPIError(resp *http.Response) *APIError {
	body, readErr := io.ReadAll(resp.Body)
	bodyStr := string(body)
	if readErr != nil {
		bodyStr += fmt.Sprintf(" (body read error: %v)", readErr)
	}
	return &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
}
