package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitravaani/internal/domain"
)

func TestLoadFlattensInFieldOrder(t *testing.T) {
	entries := []Entry{{
		{Key: "movie_name", Value: "Baahubali: The Beginning"},
		{Key: "director", Value: "S. S. Rajamouli"},
		{Key: "year", Value: 2015},
	}}
	c, err := Load(entries, "")
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	r := c.Records()[0]
	assert.Equal(t, "Baahubali: The Beginning", r.Identifier)
	assert.Equal(t, "movie_name: Baahubali: The Beginning\ndirector: S. S. Rajamouli\nyear: 2015", r.Text)
	assert.Equal(t, 0, r.Position)
	assert.Nil(t, r.Vector)
}

func TestLoadMissingIdentifierUsesSentinel(t *testing.T) {
	c, err := Load([]map[string]any{{"director": "X"}, {"movie_name": "  "}}, "movie_name")
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownIdentifier, c.Records()[0].Identifier)
	assert.Equal(t, domain.UnknownIdentifier, c.Records()[1].Identifier)
	assert.Empty(t, c.Identifiers())
}

func TestLoadGenericMapsSortKeys(t *testing.T) {
	c, err := Load([]any{map[string]any{"b": 1.5, "a": true}}, "a")
	require.NoError(t, err)
	assert.Equal(t, "a: true\nb: 1.5", c.Records()[0].Text)
	assert.Equal(t, "true", c.Records()[0].Identifier)
}

func TestLoadRejectsNonMappings(t *testing.T) {
	cases := map[string]any{
		"nil":         nil,
		"string":      "movies",
		"map":         map[string]any{"movie_name": "x"},
		"list of int": []any{1, 2},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(raw, "")
			assert.ErrorIs(t, err, domain.ErrDataFormat)
		})
	}
}

func TestLoadEmptySequence(t *testing.T) {
	c, err := Load([]Entry{}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Texts())
}

func TestRenderNestedValues(t *testing.T) {
	e := Entry{
		{Key: "songs", Value: []any{"Dheevara", "Manohari"}},
		{Key: "awards", Value: Entry{{Key: "national", Value: 1}, {Key: "filmfare", Value: nil}}},
		{Key: "budget", Value: nil},
	}
	assert.Equal(t,
		`songs: ["Dheevara","Manohari"]`+"\n"+`awards: {"national":1,"filmfare":null}`+"\n"+"budget: ",
		Flatten(e))
}

func TestIdentifiersDeduplicated(t *testing.T) {
	c, err := Load([]Entry{
		{{Key: "movie_name", Value: "Eega"}},
		{{Key: "movie_name", Value: "Magadheera"}},
		{{Key: "movie_name", Value: "Eega"}},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Eega", "Magadheera"}, c.Identifiers())
}

func TestWithVectors(t *testing.T) {
	c, err := Load([]Entry{{{Key: "movie_name", Value: "A"}}, {{Key: "movie_name", Value: "B"}}}, "")
	require.NoError(t, err)

	_, err = c.WithVectors([][]float64{{1}})
	require.Error(t, err)
	_, err = c.WithVectors([][]float64{{1, 0}, {1}})
	require.Error(t, err)

	idx, err := c.WithVectors([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, idx.Records()[1].Vector)
	assert.Nil(t, c.Records()[1].Vector, "original corpus must stay untouched")
}

func TestDecodeJSONPreservesOrder(t *testing.T) {
	in := `[{"movie_name":"Eega","year":2012,"cast":["Nani","Samantha"]},{"z":1,"a":2}]`
	entries, err := DecodeJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "movie_name: Eega\nyear: 2012\ncast: [\"Nani\",\"Samantha\"]", Flatten(entries[0]))
	assert.Equal(t, "z: 1\na: 2", Flatten(entries[1]))
}

func TestDecodeJSONRejectsMalformed(t *testing.T) {
	for _, in := range []string{``, `{}`, `[1]`, `[{"a":1}] [`, `[{"a":`, `"x"`} {
		_, err := DecodeJSON(strings.NewReader(in))
		assert.ErrorIs(t, err, domain.ErrDataFormat, "input %q", in)
	}
}

func TestDecodeYAML(t *testing.T) {
	in := "- movie_name: Eega\n  year: 2012\n  songs: [Eega Eega, Konjam]\n- movie_name: RRR\n"
	entries, err := DecodeYAML(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "movie_name: Eega\nyear: 2012\nsongs: [\"Eega Eega\",\"Konjam\"]", Flatten(entries[0]))

	_, err = DecodeYAML(strings.NewReader("movie_name: Eega\n"))
	assert.ErrorIs(t, err, domain.ErrDataFormat)
	_, err = DecodeYAML(strings.NewReader("- one\n- two\n"))
	assert.ErrorIs(t, err, domain.ErrDataFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "movies.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"movie_name":"Eega"}]`), 0o644))
	c, err := LoadFile(jsonPath, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Eega"}, c.Identifiers())

	csvPath := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("movie_name\nEega\n"), 0o644))
	_, err = LoadFile(csvPath, "")
	assert.ErrorIs(t, err, domain.ErrDataFormat)
}
