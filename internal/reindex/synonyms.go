package reindex

import (
	"context"
	"log/slog"

	"github.com/masande/siteindex/internal/engine"
	siteerrors "github.com/masande/siteindex/internal/errors"
)

// FetchSynonyms reads all synonym rules from a collection. Any failure
// (including the collection not existing) returns an empty set: absence
// of a previous generation is an expected condition, and a reindex must
// not fail just because synonym carryover is unavailable.
func FetchSynonyms(ctx context.Context, eng engine.Engine, collection string) []engine.Synonym {
	synonyms, err := eng.RetrieveSynonyms(ctx, collection)
	if err != nil {
		fetchErr := siteerrors.Wrap(siteerrors.ErrCodeSynonymRetrieve, err).
			WithDetail("collection", collection)
		slog.Warn("could not fetch synonyms from previous generation, continuing without",
			slog.String("collection", collection),
			slog.String("error", fetchErr.Error()))
		return nil
	}
	return synonyms
}

// ApplySynonyms replays rules onto a collection, upserting each under
// its original ID. One bad rule is logged and skipped; it never aborts
// carryover of the rest. Returns the number applied.
func ApplySynonyms(ctx context.Context, eng engine.Engine, collection string, rules []engine.Synonym) int {
	applied := 0
	for _, rule := range rules {
		if err := eng.UpsertSynonym(ctx, collection, rule); err != nil {
			applyErr := siteerrors.Wrap(siteerrors.ErrCodeSynonymUpsert, err).
				WithDetail("synonym_id", rule.ID)
			slog.Warn("failed to carry synonym forward",
				slog.String("collection", collection),
				slog.String("synonym_id", rule.ID),
				slog.String("error", applyErr.Error()))
			continue
		}
		applied++
	}
	return applied
}
