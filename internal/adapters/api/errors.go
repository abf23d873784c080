package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the two response classes callers branch on. Both match
// through errors.Is against a *RemoteError with the corresponding status.
var (
	// ErrUnauthorized marks a 401: the credential is missing, invalid or
	// expired. Handled globally, never as an inline form error.
	ErrUnauthorized = errors.New("credential rejected by the remote API")
	// ErrNotFound marks a 404 for get/update/delete by id.
	ErrNotFound = errors.New("entity not found")
)

// ValidationMarker is the prefix the backend puts on business-rule rejections
// (overlapping reservation, capacity exceeded, past date).
const ValidationMarker = "Error de validación:"

// genericRemoteMessage is shown when a failure body yields nothing usable.
const genericRemoteMessage = "Error al comunicar con el servidor"

// RemoteError is any non-2xx response from the reservations API, carried upward
// unparsed. Screens turn it into display text via DisplayMessage.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote API: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Is maps well-known statuses onto the package sentinels.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// DisplayMessage derives the user-facing message from the response body.
// Precedence: plain string body, then the JSON "message" field, then the JSON
// "error" field, else a generic fallback.
// PRE: none
// POST: Returns a non-empty string
func (e *RemoteError) DisplayMessage() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return genericRemoteMessage
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		// Not a JSON object: the backend answered with plain text
		// (possibly a JSON-encoded string).
		var s string
		if json.Unmarshal([]byte(body), &s) == nil && s != "" {
			return s
		}
		return body
	}
	if msg, ok := obj["message"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := obj["error"].(string); ok && msg != "" {
		return msg
	}
	return genericRemoteMessage
}

// ValidationDetail splits a message carrying the validation marker into a
// headline and a details blob for two-part display.
// PRE: none
// POST: ok is false when the marker is absent
func (e *RemoteError) ValidationDetail() (headline, details string, ok bool) {
	msg := e.DisplayMessage()
	idx := strings.Index(msg, ValidationMarker)
	if idx < 0 {
		return "", "", false
	}
	headline = strings.TrimSuffix(strings.TrimSpace(msg[:idx+len(ValidationMarker)]), ":")
	details = strings.TrimSpace(msg[idx+len(ValidationMarker):])
	return headline, details, true
}
