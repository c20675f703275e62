// Package reindex implements the blue/green reindex run.
//
// A run creates a fresh collection generation, populates it from the
// built site, carries synonyms forward from the previous generation,
// swaps the stable alias, and deletes the superseded generation. The
// alias never points at a partially populated collection, and the old
// generation is deleted only after the alias has been repointed away
// from it.
package reindex

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/masande/siteindex/internal/engine"
	siteerrors "github.com/masande/siteindex/internal/errors"
	"github.com/masande/siteindex/internal/extract"
	"github.com/masande/siteindex/internal/scanner"
	"github.com/masande/siteindex/internal/schema"
)

// DefaultPublicDir is the conventional static-site build output directory.
const DefaultPublicDir = "public"

// Options configures one reindex run.
type Options struct {
	// Schema describes the collection fields; Schema.Name is the base
	// collection name and the stable alias.
	Schema *schema.Schema

	// PublicDir is the build output directory to crawl.
	// Defaults to DefaultPublicDir.
	PublicDir string

	// Exclude are file patterns skipped during discovery.
	Exclude []string

	// GenerateName overrides generation naming. Defaults to
	// GenerateCollectionName.
	GenerateName func(base string) string

	// ContinueOnDocumentError downgrades per-document failures from
	// run-fatal to skip-and-count. Off by default: one malformed page
	// aborts the run before the alias is touched.
	ContinueOnDocumentError bool
}

// Result summarizes a completed run.
type Result struct {
	// NewCollection is the generation created and populated by this run.
	NewCollection string
	// OldCollection is the generation the alias pointed to before the
	// run, empty on a first run.
	OldCollection string
	// Indexed, Skipped, and Failed count pages by outcome. Failed is
	// nonzero only with ContinueOnDocumentError.
	Indexed int
	Skipped int
	Failed  int
	// SynonymsApplied counts rules carried onto the new generation.
	SynonymsApplied int
	// AliasSwapped reports whether the alias now points at NewCollection.
	AliasSwapped bool
	// OldDeleted reports whether the superseded generation was removed.
	OldDeleted bool
}

// Runner executes reindex runs against one search engine.
//
// A Runner serializes its own runs with a mutex. Concurrent runs from
// separate processes against the same base name can still race on the
// alias; the CLI's advisory lockfile covers the single-host case and
// the host pipeline must serialize beyond that.
type Runner struct {
	engine engine.Engine
	opts   Options
	mu     sync.Mutex
}

// NewRunner validates options and returns a Runner.
func NewRunner(eng engine.Engine, opts Options) (*Runner, error) {
	if eng == nil {
		return nil, siteerrors.New(siteerrors.ErrCodeInternal, "engine is required", nil)
	}
	if opts.Schema == nil {
		return nil, siteerrors.New(siteerrors.ErrCodeSchemaInvalid, "schema is required", nil)
	}
	if opts.PublicDir == "" {
		opts.PublicDir = DefaultPublicDir
	}
	if opts.GenerateName == nil {
		opts.GenerateName = GenerateCollectionName
	}
	return &Runner{engine: eng, opts: opts}, nil
}

// Run executes one full reindex. It returns an error only on a fatal
// abort; alias-swap and old-generation-delete failures are logged,
// reflected in the Result, and leave manual-cleanup state behind.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.opts.Schema.Name
	result := &Result{}

	// Discover the old generation through the alias. Lookup failure
	// means no previous generation, expected on a first run.
	oldGen, err := r.engine.RetrieveAlias(ctx, base)
	if err != nil {
		lookupErr := siteerrors.Wrap(siteerrors.ErrCodeAliasRetrieve, err).
			WithDetail("alias", base)
		slog.Debug("no previous generation found",
			slog.String("alias", base),
			slog.String("error", lookupErr.Error()))
		oldGen = ""
	}
	result.OldCollection = oldGen

	var synonyms []engine.Synonym
	if oldGen != "" {
		synonyms = FetchSynonyms(ctx, r.engine, oldGen)
	}

	// Creating the new generation is the commit point: until it
	// succeeds, nothing pre-existing has been disturbed.
	newGen := r.opts.GenerateName(base)
	if err := r.engine.CreateCollection(ctx, r.opts.Schema, newGen); err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeCollectionCreate, err).
			WithDetail("collection", newGen)
	}
	result.NewCollection = newGen
	slog.Info("created new generation",
		slog.String("collection", newGen),
		slog.String("alias", base))

	if err := r.populate(ctx, newGen, result); err != nil {
		return nil, err
	}

	result.SynonymsApplied = ApplySynonyms(ctx, r.engine, newGen, synonyms)

	// Swap failure is not rolled back: the fully populated new
	// generation stays for manual recovery and the old one keeps
	// serving, since deletion only happens after a successful swap.
	if err := r.engine.UpsertAlias(ctx, base, newGen); err != nil {
		swapErr := siteerrors.Wrap(siteerrors.ErrCodeAliasUpsert, err).
			WithDetail("alias", base)
		slog.Error("alias swap failed, new generation left in place for manual recovery",
			slog.String("alias", base),
			slog.String("collection", newGen),
			slog.String("error", swapErr.Error()))
		return result, nil
	}
	result.AliasSwapped = true
	slog.Info("alias swapped",
		slog.String("alias", base),
		slog.String("collection", newGen))

	if oldGen != "" && oldGen != newGen {
		if err := r.engine.DeleteCollection(ctx, oldGen); err != nil {
			deleteErr := siteerrors.Wrap(siteerrors.ErrCodeCollectionDelete, err).
				WithDetail("collection", oldGen)
			slog.Error("failed to delete old generation, manual cleanup required",
				slog.String("collection", oldGen),
				slog.String("error", deleteErr.Error()))
		} else {
			result.OldDeleted = true
			slog.Info("deleted old generation", slog.String("collection", oldGen))
		}
	}

	return result, nil
}

// populate extracts and submits every discovered page, one at a time.
func (r *Runner) populate(ctx context.Context, collection string, result *Result) error {
	files, err := scanner.List(ctx, r.opts.PublicDir, r.opts.Exclude)
	if err != nil {
		return err
	}
	slog.Info("discovered pages",
		slog.Int("count", len(files)),
		slog.String("dir", r.opts.PublicDir))

	for _, file := range files {
		err := r.indexFile(ctx, collection, file)
		switch {
		case err == nil:
			result.Indexed++

		case errors.Is(err, extract.ErrNoIndexableFields):
			slog.Warn("page has no indexable fields, skipping",
				slog.String("file", file))
			result.Skipped++

		// An undeclared field in markup is a template/schema mismatch
		// affecting the whole site, never a per-page condition; it
		// aborts even when per-page failures are tolerated.
		case r.opts.ContinueOnDocumentError &&
			siteerrors.GetCode(err) != siteerrors.ErrCodeUnknownField &&
			!errors.Is(err, context.Canceled):
			slog.Error("failed to index page",
				slog.String("file", file),
				slog.String("error", err.Error()))
			result.Failed++

		default:
			return err
		}
	}

	return nil
}

// indexFile reads, extracts, and submits one page.
func (r *Runner) indexFile(ctx context.Context, collection, file string) error {
	raw, err := os.ReadFile(filepath.Join(r.opts.PublicDir, filepath.FromSlash(file)))
	if err != nil {
		return siteerrors.Wrap(siteerrors.ErrCodeFileRead, err).WithDetail("file", file)
	}

	doc, err := extract.FromHTML(bytes.NewReader(raw), r.opts.Schema, pagePath(file))
	if err != nil {
		return err
	}

	if err := r.engine.IndexDocument(ctx, collection, doc); err != nil {
		return siteerrors.Wrap(siteerrors.ErrCodeDocumentIndex, err).WithDetail("file", file)
	}
	return nil
}

// pagePath derives the site-relative URL path for a discovered file:
// "about/index.html" becomes "/about/", "index.html" becomes "/".
func pagePath(file string) string {
	p := "/" + file
	return strings.TrimSuffix(p, "index.html")
}
