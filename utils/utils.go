package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

// RespondWithJSON writes data as a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithError writes the standard failure envelope {success:false, error}.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]any{"success": false, "error": msg})
}

type M map[string]interface{}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Slugify derives a URL-safe slug from a title: lowercased, runs of
// whitespace collapsed to single hyphens.
func Slugify(title string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}
