// Package extract turns one built HTML page into an indexable document.
//
// Any element carrying the marker attribute contributes one field: the
// attribute value names the schema field, the element's text content is
// the raw value. Pages without any marked element are skipped, not failed.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	siteerrors "github.com/masande/siteindex/internal/errors"
	"github.com/masande/siteindex/internal/schema"
)

// MarkerAttr is the reserved attribute that tags an element's text
// content as belonging to a named schema field.
const MarkerAttr = "data-typesense-field"

// ErrNoIndexableFields reports a page with zero marked elements.
// Callers skip the page with a warning; it is not a run failure.
var ErrNoIndexableFields = errors.New("no indexable fields in page")

// Document is one indexable record, keyed by schema field name.
type Document map[string]any

// FromHTML parses a page and builds its document against the schema.
// pagePath is the site-relative URL path and always overrides any
// page_path harvested from markup.
func FromHTML(r io.Reader, s *schema.Schema, pagePath string) (Document, error) {
	// html.Parse repairs malformed markup; it only errors when the
	// reader itself fails.
	root, err := html.Parse(r)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeFileRead, err)
	}

	doc := Document{}
	if err := harvest(root, s, doc); err != nil {
		return nil, err
	}

	if len(doc) == 0 {
		return nil, ErrNoIndexableFields
	}

	doc[schema.FieldPagePath] = pagePath
	if _, ok := doc[schema.FieldPagePriorityScore]; !ok {
		doc[schema.FieldPagePriorityScore] = int32(schema.DefaultPriorityScore)
	}

	return doc, nil
}

// harvest walks the node tree collecting marked elements in document order.
func harvest(n *html.Node, s *schema.Schema, doc Document) error {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key != MarkerAttr {
				continue
			}
			if err := setField(doc, s, attr.Val, textContent(n)); err != nil {
				return err
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := harvest(c, s, doc); err != nil {
			return err
		}
	}
	return nil
}

// setField coerces raw into the declared type and stores it, appending
// for array fields and overwriting for scalars.
func setField(doc Document, s *schema.Schema, name, raw string) error {
	field, ok := s.Field(name)
	if !ok {
		// Markup referencing an undeclared field is a deployment bug,
		// fatal for the whole run.
		return siteerrors.New(siteerrors.ErrCodeUnknownField,
			fmt.Sprintf("field %q referenced in markup but not declared in schema %q", name, s.Name), nil).
			WithDetail("field", name)
	}

	value, err := castValue(field, raw)
	if err != nil {
		return err
	}

	if field.Array {
		list, _ := doc[name].([]any)
		doc[name] = append(list, value)
		return nil
	}
	doc[name] = value
	return nil
}

// castValue coerces the raw text of one element per the field type.
func castValue(f schema.Field, raw string) (any, error) {
	switch f.Type {
	case schema.TypeInt32:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return nil, badValue(f, raw, err)
		}
		return int32(v), nil

	case schema.TypeInt64:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, badValue(f, raw, err)
		}
		return v, nil

	case schema.TypeFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, badValue(f, raw, err)
		}
		return v, nil

	case schema.TypeBool:
		trimmed := strings.TrimSpace(raw)
		if strings.EqualFold(trimmed, "false") || trimmed == "0" {
			return false, nil
		}
		return trimmed != "", nil

	default:
		return raw, nil
	}
}

func badValue(f schema.Field, raw string, cause error) error {
	return siteerrors.New(siteerrors.ErrCodeBadFieldValue,
		fmt.Sprintf("cannot parse %q as %s for field %q", raw, f.Type, f.Name), cause).
		WithDetail("field", f.Name)
}

// textContent concatenates all descendant text nodes of n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
