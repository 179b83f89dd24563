// Package model provides data models for the portfolio backend.
package model

import (
	"strconv"
	"strings"
)

// Year is a knowledge base entry year. The ingestion source carries it as
// a bare JSON number, while older exports quoted it; both decode to the
// same value, and numeric years marshal back as numbers.
type Year string

// UnmarshalJSON accepts a JSON number, string or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*y = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*y = Year(strings.TrimSpace(s))
	return nil
}

// MarshalJSON emits a number when the year is numeric.
func (y Year) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(y), 10, 64); err == nil && y != "" {
		return []byte(y), nil
	}
	return []byte(strconv.Quote(string(y))), nil
}

// Int64 returns the numeric value, or false for empty or non-numeric
// years.
func (y Year) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(y), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the raw text form.
func (y Year) String() string {
	return string(y)
}

// ContextRecord is a single knowledge base entry as it appears in the
// ingestion source file and in the vector index metadata.
type ContextRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
	Year     Year   `json:"year,omitempty"`
}

// RetrievalMatch is one result from a vector similarity search.
// Metadata carries whatever was stored alongside the vector, typically
// title, content and year.
type RetrievalMatch struct {
	Index    int            `json:"index"`
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// AskResult is the outcome of the question answering pipeline.
type AskResult struct {
	Answer  string           `json:"answer"`
	Sources []RetrievalMatch `json:"sources"`
}
