// Package engine is the boundary to the external search engine.
//
// The reindex orchestrator talks only to the Engine interface; the
// Typesense implementation lives in typesense.go. Tests substitute an
// in-memory fake.
package engine

import (
	"context"

	"github.com/masande/siteindex/internal/extract"
	"github.com/masande/siteindex/internal/schema"
)

// Synonym is one synonym rule owned by a collection. Rules logically
// belong to the corpus and are carried forward across generations by
// the orchestrator.
type Synonym struct {
	// ID identifies the rule; carryover upserts under the same ID.
	ID string
	// Root is set for one-way synonyms, empty for multi-way.
	Root string
	// Synonyms are the equivalent terms.
	Synonyms []string
}

// Engine is the collection/document/alias/synonym API of the search
// engine. Every call is one network round trip; implementations carry
// their own transport configuration and timeouts.
type Engine interface {
	// CreateCollection creates an empty collection named name with the
	// schema's fields.
	CreateCollection(ctx context.Context, s *schema.Schema, name string) error

	// DeleteCollection removes a collection and its documents.
	DeleteCollection(ctx context.Context, name string) error

	// IndexDocument adds one document to a collection.
	IndexDocument(ctx context.Context, collection string, doc extract.Document) error

	// RetrieveAlias returns the collection an alias points to.
	RetrieveAlias(ctx context.Context, alias string) (string, error)

	// UpsertAlias points an alias at a collection, creating or
	// retargeting it. The engine applies this atomically.
	UpsertAlias(ctx context.Context, alias, collection string) error

	// RetrieveSynonyms returns all synonym rules stored on a collection.
	RetrieveSynonyms(ctx context.Context, collection string) ([]Synonym, error)

	// UpsertSynonym stores one synonym rule on a collection under its ID.
	UpsertSynonym(ctx context.Context, collection string, syn Synonym) error
}
