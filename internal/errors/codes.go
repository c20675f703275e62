// Package errors provides structured error handling for siteindex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file discovery, reads)
//   - 3XX: Search engine errors (collections, documents, aliases, synonyms)
//   - 4XX: Validation errors (schema, markup)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryEngine indicates search engine API errors.
	CategoryEngine Category = "ENGINE"
	// CategoryValidation indicates schema or markup validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
//
// Severity encodes the reindex failure policy: fatal errors abort the
// run before any irreversible step, error severity means the run
// completes but leaves manual-cleanup state behind (an orphaned
// collection), and warnings are degraded-but-continuing conditions
// such as a missing previous generation.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, the run must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed but the run completes.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeWalkFailed = "ERR_201_WALK_FAILED"
	ErrCodeFileRead   = "ERR_202_FILE_READ"

	// Engine errors (300-399)
	ErrCodeCollectionCreate = "ERR_301_COLLECTION_CREATE"
	ErrCodeCollectionDelete = "ERR_302_COLLECTION_DELETE"
	ErrCodeDocumentIndex    = "ERR_303_DOCUMENT_INDEX"
	ErrCodeAliasRetrieve    = "ERR_304_ALIAS_RETRIEVE"
	ErrCodeAliasUpsert      = "ERR_305_ALIAS_UPSERT"
	ErrCodeSynonymRetrieve  = "ERR_306_SYNONYM_RETRIEVE"
	ErrCodeSynonymUpsert    = "ERR_307_SYNONYM_UPSERT"

	// Validation errors (400-499)
	ErrCodeSchemaInvalid = "ERR_401_SCHEMA_INVALID"
	ErrCodeUnknownField  = "ERR_402_UNKNOWN_FIELD"
	ErrCodeBadFieldValue = "ERR_403_BAD_FIELD_VALUE"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryEngine
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid,
		ErrCodeWalkFailed, ErrCodeFileRead,
		ErrCodeCollectionCreate, ErrCodeDocumentIndex,
		ErrCodeSchemaInvalid, ErrCodeUnknownField, ErrCodeBadFieldValue,
		ErrCodeInternal:
		return SeverityFatal
	case ErrCodeAliasUpsert, ErrCodeCollectionDelete:
		return SeverityError
	default:
		// Alias and synonym lookups degrade gracefully.
		return SeverityWarning
	}
}
