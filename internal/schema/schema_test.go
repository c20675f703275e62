package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	siteerrors "github.com/masande/siteindex/internal/errors"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantType  FieldType
		wantArray bool
		wantErr   bool
	}{
		{name: "string", in: "string", wantType: TypeString},
		{name: "string array", in: "string[]", wantType: TypeString, wantArray: true},
		{name: "int32", in: "int32", wantType: TypeInt32},
		{name: "int32 array", in: "int32[]", wantType: TypeInt32, wantArray: true},
		{name: "int64", in: "int64", wantType: TypeInt64},
		{name: "float", in: "float", wantType: TypeFloat},
		{name: "float array", in: "float[]", wantType: TypeFloat, wantArray: true},
		{name: "bool", in: "bool", wantType: TypeBool},
		{name: "unknown", in: "decimal", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "bare brackets", in: "[]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, array, err := ParseType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, siteerrors.ErrCodeSchemaInvalid, siteerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, ft)
			assert.Equal(t, tt.wantArray, array)
		})
	}
}

func TestFieldTypeName(t *testing.T) {
	assert.Equal(t, "int32", Field{Name: "n", Type: TypeInt32}.TypeName())
	assert.Equal(t, "string[]", Field{Name: "tags", Type: TypeString, Array: true}.TypeName())
}

func TestNewInjectsImplicitFields(t *testing.T) {
	s, err := New("docs", []Field{{Name: "title", Type: TypeString}})
	require.NoError(t, err)

	path, ok := s.Field(FieldPagePath)
	require.True(t, ok)
	assert.Equal(t, TypeString, path.Type)
	assert.False(t, path.Array)

	score, ok := s.Field(FieldPagePriorityScore)
	require.True(t, ok)
	assert.Equal(t, TypeInt32, score.Type)

	// Declared fields come first, implicits are appended.
	assert.Equal(t, "title", s.Fields[0].Name)
	assert.Len(t, s.Fields, 3)
}

func TestNewKeepsExplicitImplicitField(t *testing.T) {
	s, err := New("docs", []Field{
		{Name: "title", Type: TypeString},
		{Name: FieldPagePriorityScore, Type: TypeInt64},
	})
	require.NoError(t, err)

	score, ok := s.Field(FieldPagePriorityScore)
	require.True(t, ok)
	assert.Equal(t, TypeInt64, score.Type)
	assert.Len(t, s.Fields, 3)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		fields []Field
	}{
		{name: "empty name", schema: "", fields: []Field{{Name: "title", Type: TypeString}}},
		{name: "no fields", schema: "docs", fields: nil},
		{name: "empty field name", schema: "docs", fields: []Field{{Name: "", Type: TypeString}}},
		{name: "duplicate field", schema: "docs", fields: []Field{
			{Name: "title", Type: TypeString},
			{Name: "title", Type: TypeBool},
		}},
		{name: "bad type", schema: "docs", fields: []Field{{Name: "title", Type: "varchar"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.schema, tt.fields)
			require.Error(t, err)
			assert.Equal(t, siteerrors.ErrCodeSchemaInvalid, siteerrors.GetCode(err))
		})
	}
}
