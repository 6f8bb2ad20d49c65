package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ================== 通用响应 ==================

// APIResponse is the standard API response format
type APIResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Source  string      `json:"source,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ================== 影片数据模型 ==================

// StatusSuccess is the backend's status tag for a usable payload
const StatusSuccess = "success"

// MovieResponse is the envelope returned by the movie API
type MovieResponse struct {
	Status string `json:"status"`
	Data   *Movie `json:"data"`
}

// IsSuccess reports whether the payload carries a movie record
func (r *MovieResponse) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess && r.Data != nil
}

// Movie is a single movie record
type Movie struct {
	Title   MovieTitle   `json:"title"`
	Poster  Text         `json:"poster"`
	Details MovieDetails `json:"details"`
}

// MovieTitle holds the bilingual title pair
type MovieTitle struct {
	RU Text `json:"ru"`
	EN Text `json:"en"`
}

// MovieDetails holds the labeled metadata of a movie
type MovieDetails struct {
	Year         Text   `json:"year"`
	Director     Text   `json:"director"`
	Screenwriter Text   `json:"screenwriter"`
	Genres       []Text `json:"genres"`
	Country      Text   `json:"country"`
	Description  Text   `json:"description"`
}

// Text is a display value that decodes from a JSON string, number, bool or null.
// Absent and null values decode to the empty string.
type Text string

// String returns the display value
func (t Text) String() string {
	return string(t)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[', '{':
		return fmt.Errorf("cannot decode %s into text", kindOf(data[0]))
	default:
		// numbers and booleans keep their literal form, e.g. 1994 or 7.5
		*t = Text(strings.TrimSpace(string(data)))
	}
	return nil
}

func kindOf(b byte) string {
	if b == '[' {
		return "array"
	}
	return "object"
}
