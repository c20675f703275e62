package engine

import (
	"context"
	"time"

	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"

	"github.com/masande/siteindex/internal/extract"
	"github.com/masande/siteindex/internal/schema"
)

// Typesense implements Engine over the Typesense HTTP API.
type Typesense struct {
	client *typesense.Client
}

var _ Engine = (*Typesense)(nil)

// NewTypesense builds a client for the given server URL and API key.
// The client handle is constructed once per run and passed explicitly;
// there is no package-level connection state.
func NewTypesense(url, apiKey string, timeout time.Duration) *Typesense {
	opts := []typesense.ClientOption{
		typesense.WithServer(url),
		typesense.WithAPIKey(apiKey),
	}
	if timeout > 0 {
		opts = append(opts, typesense.WithConnectionTimeout(timeout))
	}
	return &Typesense{client: typesense.NewClient(opts...)}
}

// Health reports whether the server answers its health endpoint.
func (t *Typesense) Health(ctx context.Context) error {
	_, err := t.client.Health(ctx, 5*time.Second)
	return err
}

func (t *Typesense) CreateCollection(ctx context.Context, s *schema.Schema, name string) error {
	fields := make([]api.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		field := api.Field{Name: f.Name, Type: f.TypeName()}
		// A page only fills the fields its markup declares; the
		// implicit fields are the only ones present on every document.
		if f.Name != schema.FieldPagePath && f.Name != schema.FieldPagePriorityScore {
			field.Optional = pointer.True()
		}
		fields = append(fields, field)
	}

	_, err := t.client.Collections().Create(ctx, &api.CollectionSchema{
		Name:   name,
		Fields: fields,
	})
	return err
}

func (t *Typesense) DeleteCollection(ctx context.Context, name string) error {
	_, err := t.client.Collection(name).Delete(ctx)
	return err
}

func (t *Typesense) IndexDocument(ctx context.Context, collection string, doc extract.Document) error {
	_, err := t.client.Collection(collection).Documents().Create(ctx, map[string]any(doc), &api.DocumentIndexParameters{})
	return err
}

func (t *Typesense) RetrieveAlias(ctx context.Context, alias string) (string, error) {
	resp, err := t.client.Alias(alias).Retrieve(ctx)
	if err != nil {
		return "", err
	}
	return resp.CollectionName, nil
}

func (t *Typesense) UpsertAlias(ctx context.Context, alias, collection string) error {
	_, err := t.client.Aliases().Upsert(ctx, alias, &api.CollectionAliasSchema{
		CollectionName: collection,
	})
	return err
}

func (t *Typesense) RetrieveSynonyms(ctx context.Context, collection string) ([]Synonym, error) {
	resp, err := t.client.Collection(collection).Synonyms().Retrieve(ctx)
	if err != nil {
		return nil, err
	}

	synonyms := make([]Synonym, 0, len(resp))
	for _, s := range resp {
		synonyms = append(synonyms, Synonym{
			ID:       deref(s.Id),
			Root:     deref(s.Root),
			Synonyms: s.Synonyms,
		})
	}
	return synonyms, nil
}

func (t *Typesense) UpsertSynonym(ctx context.Context, collection string, syn Synonym) error {
	body := &api.SearchSynonymSchema{Synonyms: syn.Synonyms}
	if syn.Root != "" {
		body.Root = pointer.String(syn.Root)
	}
	_, err := t.client.Collection(collection).Synonyms().Upsert(ctx, syn.ID, body)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
