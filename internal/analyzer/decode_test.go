package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Valid(t *testing.T) {
	analysis, err := Decode("\n\t " + `{"rootCause":{"title":"T","explanation":"E"},"solutions":[{"title":"S","steps":["a","b"]}]}` + " \n")
	require.NoError(t, err)

	assert.Equal(t, "T", analysis.RootCause.Title)
	assert.Equal(t, "E", analysis.RootCause.Explanation)
	require.Len(t, analysis.Solutions, 1)
	assert.Equal(t, []string{"a", "b"}, analysis.Solutions[0].Steps)
}

func TestDecode_NoSolutionsIsAccepted(t *testing.T) {
	analysis, err := Decode(`{"rootCause":{"title":"T","explanation":"E"},"solutions":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, analysis.Solutions)
	assert.Empty(t, analysis.Solutions)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "not json", text: "The root cause is a missing key."},
		{name: "markdown fenced", text: "```json\n{}\n```"},
		{name: "null", text: "null"},
		{name: "array", text: `[{"rootCause":{}}]`},
		{name: "missing rootCause", text: `{"solutions":[]}`},
		{name: "rootCause wrong kind", text: `{"rootCause":"x","solutions":[]}`},
		{name: "missing title", text: `{"rootCause":{"explanation":"E"},"solutions":[]}`},
		{name: "empty title", text: `{"rootCause":{"title":"","explanation":"E"},"solutions":[]}`},
		{name: "missing explanation", text: `{"rootCause":{"title":"T"},"solutions":[]}`},
		{name: "title wrong kind", text: `{"rootCause":{"title":7,"explanation":"E"},"solutions":[]}`},
		{name: "missing solutions", text: `{"rootCause":{"title":"T","explanation":"E"}}`},
		{name: "null solutions", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":null}`},
		{name: "solutions object", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":{"title":"S"}}`},
		{name: "null solution", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":[null]}`},
		{name: "solution missing steps", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":[{"title":"S"}]}`},
		{name: "solution missing title", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":[{"steps":[]}]}`},
		{name: "steps wrong kind", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":[{"title":"S","steps":"run it"}]}`},
		{name: "step wrong kind", text: `{"rootCause":{"title":"T","explanation":"E"},"solutions":[{"title":"S","steps":[1,2]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := Decode(tt.text)
			assert.Nil(t, analysis)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}
