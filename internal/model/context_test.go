package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRecordDecodesNumericYear(t *testing.T) {
	var records []ContextRecord
	err := json.Unmarshal([]byte(`[{"id":"1","content":"x","year":2020}]`), &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Year("2020"), records[0].Year)

	n, ok := records[0].Year.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(2020), n)
}

func TestContextRecordDecodesQuotedYear(t *testing.T) {
	var rec ContextRecord
	err := json.Unmarshal([]byte(`{"id":"1","content":"x","year":"2019"}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, Year("2019"), rec.Year)
}

func TestContextRecordNullYear(t *testing.T) {
	var rec ContextRecord
	err := json.Unmarshal([]byte(`{"id":"1","content":"x","year":null}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, Year(""), rec.Year)
}

func TestYearMarshal(t *testing.T) {
	numeric, err := json.Marshal(Year("2021"))
	require.NoError(t, err)
	assert.Equal(t, "2021", string(numeric))

	text, err := json.Marshal(Year("early 2021"))
	require.NoError(t, err)
	assert.Equal(t, `"early 2021"`, string(text))

	nonNumeric := Year("early 2021")
	_, ok := nonNumeric.Int64()
	assert.False(t, ok)
}
