package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	siteerrors "github.com/masande/siteindex/internal/errors"
	"github.com/masande/siteindex/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("docs", []schema.Field{
		{Name: "title", Type: schema.TypeString},
		{Name: "tags", Type: schema.TypeString, Array: true},
		{Name: "views", Type: schema.TypeInt32},
		{Name: "rating", Type: schema.TypeFloat},
		{Name: "published", Type: schema.TypeBool},
	})
	require.NoError(t, err)
	return s
}

func TestFromHTMLBuildsDocument(t *testing.T) {
	page := `<html><body>
		<h1 data-typesense-field="title">Getting Started</h1>
		<span data-typesense-field="views">42</span>
		<span data-typesense-field="rating">4.5</span>
		<span data-typesense-field="published">yes</span>
	</body></html>`

	doc, err := FromHTML(strings.NewReader(page), testSchema(t), "/docs/getting-started/")
	require.NoError(t, err)

	assert.Equal(t, "Getting Started", doc["title"])
	assert.Equal(t, int32(42), doc["views"])
	assert.Equal(t, 4.5, doc["rating"])
	assert.Equal(t, true, doc["published"])
	assert.Equal(t, "/docs/getting-started/", doc[schema.FieldPagePath])
	assert.Equal(t, int32(10), doc[schema.FieldPagePriorityScore])
}

func TestFromHTMLArrayFieldPreservesOrder(t *testing.T) {
	page := `<html><body>
		<li data-typesense-field="tags">go</li>
		<li data-typesense-field="tags">rust</li>
	</body></html>`

	doc, err := FromHTML(strings.NewReader(page), testSchema(t), "/posts/langs/")
	require.NoError(t, err)

	assert.Equal(t, []any{"go", "rust"}, doc["tags"])
	assert.NotContains(t, doc, "title")
	assert.Equal(t, int32(10), doc[schema.FieldPagePriorityScore])
}

func TestFromHTMLSkipsUnmarkedPage(t *testing.T) {
	page := `<html><body><h1>Plain page</h1><p>No markers here.</p></body></html>`

	doc, err := FromHTML(strings.NewReader(page), testSchema(t), "/plain/")
	require.ErrorIs(t, err, ErrNoIndexableFields)
	assert.Nil(t, doc)
}

func TestFromHTMLUnknownFieldIsFatal(t *testing.T) {
	page := `<html><body><h1 data-typesense-field="ghost">Boo</h1></body></html>`

	_, err := FromHTML(strings.NewReader(page), testSchema(t), "/boo/")
	require.Error(t, err)
	assert.Equal(t, siteerrors.ErrCodeUnknownField, siteerrors.GetCode(err))
	assert.True(t, siteerrors.IsFatal(err))
}

func TestFromHTMLBadNumericValue(t *testing.T) {
	page := `<html><body><span data-typesense-field="views">lots</span></body></html>`

	_, err := FromHTML(strings.NewReader(page), testSchema(t), "/x/")
	require.Error(t, err)
	assert.Equal(t, siteerrors.ErrCodeBadFieldValue, siteerrors.GetCode(err))
}

func TestFromHTMLPriorityScorePreserved(t *testing.T) {
	s, err := schema.New("docs", []schema.Field{
		{Name: "title", Type: schema.TypeString},
	})
	require.NoError(t, err)

	page := `<html><body>
		<h1 data-typesense-field="title">Pinned</h1>
		<span data-typesense-field="page_priority_score">99</span>
	</body></html>`

	doc, err := FromHTML(strings.NewReader(page), s, "/pinned/")
	require.NoError(t, err)
	assert.Equal(t, int32(99), doc[schema.FieldPagePriorityScore])
}

func TestFromHTMLPagePathOverridesMarkup(t *testing.T) {
	s, err := schema.New("docs", []schema.Field{
		{Name: "title", Type: schema.TypeString},
	})
	require.NoError(t, err)

	page := `<html><body>
		<h1 data-typesense-field="title">Home</h1>
		<span data-typesense-field="page_path">/spoofed/</span>
	</body></html>`

	doc, err := FromHTML(strings.NewReader(page), s, "/")
	require.NoError(t, err)
	assert.Equal(t, "/", doc[schema.FieldPagePath])
}

func TestFromHTMLNestedTextContent(t *testing.T) {
	page := `<html><body>
		<div data-typesense-field="title">Hello <em>nested</em> world</div>
	</body></html>`

	doc, err := FromHTML(strings.NewReader(page), testSchema(t), "/n/")
	require.NoError(t, err)
	assert.Equal(t, "Hello nested world", doc["title"])
}

func TestCastValueBool(t *testing.T) {
	field := schema.Field{Name: "published", Type: schema.TypeBool}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "literal false", raw: "false", want: false},
		{name: "mixed case false", raw: "FaLsE", want: false},
		{name: "zero", raw: "0", want: false},
		{name: "empty", raw: "", want: false},
		{name: "whitespace only", raw: "  \n ", want: false},
		{name: "true literal", raw: "true", want: true},
		{name: "arbitrary text", raw: "yes please", want: true},
		{name: "nonzero number", raw: "1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := castValue(field, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCastValueNumericWhitespace(t *testing.T) {
	got, err := castValue(schema.Field{Name: "views", Type: schema.TypeInt32}, " 7\n")
	require.NoError(t, err)
	assert.Equal(t, int32(7), got)

	got, err = castValue(schema.Field{Name: "big", Type: schema.TypeInt64}, "9999999999")
	require.NoError(t, err)
	assert.Equal(t, int64(9999999999), got)
}
