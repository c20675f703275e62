// Package schema models the field schema of a search collection.
//
// A schema is immutable for the duration of one reindex run. Field types
// are an explicit enumeration crossed with an array cardinality flag,
// validated once at load time; downstream code never re-parses type names.
package schema

import (
	"fmt"
	"strings"

	siteerrors "github.com/masande/siteindex/internal/errors"
)

// FieldType enumerates the value types a field can hold.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt32  FieldType = "int32"
	TypeInt64  FieldType = "int64"
	TypeFloat  FieldType = "float"
	TypeBool   FieldType = "bool"
)

// Implicit fields every indexed document carries.
const (
	// FieldPagePath is the site-relative URL path of the source page.
	FieldPagePath = "page_path"
	// FieldPagePriorityScore ranks pages at query time.
	FieldPagePriorityScore = "page_priority_score"
)

// DefaultPriorityScore is assigned when a page declares no priority.
const DefaultPriorityScore = 10

// Field is one field definition in a collection schema.
type Field struct {
	Name  string
	Type  FieldType
	Array bool
}

// TypeName returns the wire type name, e.g. "int32" or "string[]".
func (f Field) TypeName() string {
	if f.Array {
		return string(f.Type) + "[]"
	}
	return string(f.Type)
}

// ParseType parses a wire type name such as "float" or "string[]" into
// a FieldType and an array flag. Unknown names are a validation error.
func ParseType(name string) (FieldType, bool, error) {
	base, array := strings.CutSuffix(name, "[]")

	switch FieldType(base) {
	case TypeString, TypeInt32, TypeInt64, TypeFloat, TypeBool:
		return FieldType(base), array, nil
	default:
		return "", false, siteerrors.New(siteerrors.ErrCodeSchemaInvalid,
			fmt.Sprintf("unknown field type %q", name), nil)
	}
}

// Schema is an ordered, validated set of field definitions plus the base
// collection name the stable alias is derived from.
type Schema struct {
	Name   string
	Fields []Field

	byName map[string]Field
}

// New validates the field set and returns a Schema. The implicit
// page_path and page_priority_score fields are appended unless the
// caller declared them explicitly.
func New(name string, fields []Field) (*Schema, error) {
	if name == "" {
		return nil, siteerrors.New(siteerrors.ErrCodeSchemaInvalid, "collection name is required", nil)
	}
	if len(fields) == 0 {
		return nil, siteerrors.New(siteerrors.ErrCodeSchemaInvalid, "at least one field is required", nil)
	}

	s := &Schema{
		Name:   name,
		byName: make(map[string]Field, len(fields)+2),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, siteerrors.New(siteerrors.ErrCodeSchemaInvalid, "field with empty name", nil)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, siteerrors.New(siteerrors.ErrCodeSchemaInvalid,
				fmt.Sprintf("duplicate field %q", f.Name), nil)
		}
		if _, _, err := ParseType(f.TypeName()); err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, f)
		s.byName[f.Name] = f
	}

	for _, implicit := range []Field{
		{Name: FieldPagePath, Type: TypeString},
		{Name: FieldPagePriorityScore, Type: TypeInt32},
	} {
		if _, ok := s.byName[implicit.Name]; !ok {
			s.Fields = append(s.Fields, implicit)
			s.byName[implicit.Name] = implicit
		}
	}

	return s, nil
}

// Field looks up a field definition by name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}
