package gbooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Items(t *testing.T) {
	body := `{
  "kind": "books#volumes",
  "totalItems": 3,
  "items": [
    {"volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"]}},
    {"volumeInfo": {"title": "Good Omens", "authors": ["Terry Pratchett", "Neil Gaiman"]}},
    {"volumeInfo": {"title": "Beowulf"}}
  ]
}`

	out, err := Decode(body)
	require.NoError(t, err)
	require.Len(t, out.Books, 3)
	assert.Equal(t, 0, out.Skipped)

	assert.Equal(t, NewBook("Frank Herbert", "Dune"), out.Books[0])
	assert.Equal(t, "Terry Pratchett", out.Books[1].Author())
	assert.Equal(t, "Good Omens", out.Books[1].Title())
	assert.Equal(t, UnknownAuthor, out.Books[2].Author())
}

func TestDecode_EmptyAuthorsArray(t *testing.T) {
	out, err := Decode(`{"items":[{"volumeInfo":{"title":"Anon","authors":[]}}]}`)
	require.NoError(t, err)
	require.Len(t, out.Books, 1)
	assert.Equal(t, UnknownAuthor, out.Books[0].Author())
}

func TestDecode_SkipsItemsWithoutTitle(t *testing.T) {
	body := `{"items":[
		{"volumeInfo":{"title":"First"}},
		{"volumeInfo":{"authors":["Nobody"]}},
		{"id":"no-volume-info"},
		{"volumeInfo":{"title":null}},
		{"volumeInfo":{"title":42}},
		{"volumeInfo":{"title":"Last","authors":["Someone"]}}
	]}`

	out, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Skipped)
	require.Len(t, out.Books, 2)
	assert.Equal(t, "First", out.Books[0].Title())
	assert.Equal(t, "Last", out.Books[1].Title())
	assert.Equal(t, "Someone", out.Books[1].Author())
}

func TestDecode_EmptyItems(t *testing.T) {
	out, err := Decode(`{"items":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, out.Books)
	assert.Empty(t, out.Books)
}

func TestDecode_ZeroTotalWithoutItems(t *testing.T) {
	out, err := Decode(`{"kind":"books#volumes","totalItems":0}`)
	require.NoError(t, err)
	assert.Empty(t, out.Books)
}

func TestDecode_NoData(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrNoData, "input %q", raw)
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "<html>oops</html>"},
		{"truncated", `{"items":[{"volumeInfo":`},
		{"missing items", `{"kind":"books#volumes","totalItems":12}`},
		{"empty object", `{}`},
		{"items not array", `{"items":{"title":"x"}}`},
		{"array root", `[{"volumeInfo":{"title":"x"}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)

			var decErr *DecodeError
			assert.True(t, errors.As(err, &decErr), "want *DecodeError, got %T", err)
			assert.False(t, errors.Is(err, ErrNoData))
		})
	}
}

func TestDecode_MissingItemsIsDistinct(t *testing.T) {
	_, err := Decode(`{}`)
	assert.ErrorIs(t, err, ErrMissingItems)
}

func TestBook_JSON(t *testing.T) {
	b := NewBook("Frank Herbert", "Dune")
	data, err := b.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"author":"Frank Herbert","title":"Dune"}`, string(data))
	assert.Equal(t, "Dune by Frank Herbert", b.String())
}

func TestNewBook_EmptyAuthor(t *testing.T) {
	assert.Equal(t, UnknownAuthor, NewBook("", "Untitled").Author())
}
