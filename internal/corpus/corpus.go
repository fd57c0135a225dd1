package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/metrics"
)

// Corpus ties document loading, git syncing, and the search index together.
type Corpus struct {
	cfg      appcfg.CorpusConfig
	index    *Index
	git      *GitClient
	recorder metrics.Recorder
}

// New creates a corpus for the given configuration. The index is empty until
// the first Reindex.
func New(cfg appcfg.CorpusConfig, recorder metrics.Recorder) *Corpus {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Corpus{
		cfg:      cfg,
		index:    NewIndex(),
		git:      NewGitClient(cfg.Workspace),
		recorder: recorder,
	}
}

// Reindex loads every configured source and atomically replaces the index.
// A failing individual source is logged and skipped; Reindex fails only when
// no source could be loaded at all.
func (c *Corpus) Reindex(ctx context.Context) error {
	var docs []Document
	var failures int

	for _, dir := range c.cfg.Directories {
		loaded, err := LoadDirectory(dir, filepath.Base(dir))
		if err != nil {
			slog.Error("Failed to load corpus directory", logfields.Path(dir), logfields.Error(err))
			failures++
			continue
		}
		docs = append(docs, loaded...)
	}

	if len(c.cfg.Repositories) > 0 {
		if err := c.git.EnsureWorkspace(); err != nil {
			return err
		}
	}
	for _, repo := range c.cfg.Repositories {
		if err := ctx.Err(); err != nil {
			return err
		}
		repoPath, err := c.git.Sync(repo)
		if err != nil {
			slog.Error("Failed to sync repository", logfields.Source(repo.Name), logfields.Error(err))
			failures++
			continue
		}
		roots := repo.Paths
		if len(roots) == 0 {
			roots = []string{"."}
		}
		for _, sub := range roots {
			loaded, err := LoadDirectory(filepath.Join(repoPath, sub), repo.Name)
			if err != nil {
				slog.Error("Failed to load repository path",
					logfields.Source(repo.Name), logfields.Path(sub), logfields.Error(err))
				failures++
				continue
			}
			docs = append(docs, loaded...)
		}
	}

	if len(docs) == 0 && failures > 0 {
		return fmt.Errorf("no corpus source could be loaded (%d failed)", failures)
	}

	c.index.Replace(docs, c.cfg.ChunkSize, c.cfg.ChunkOverlap)
	docCount, chunkCount := c.index.Stats()
	c.recorder.SetIndexedChunks(chunkCount)
	slog.Info("Corpus reindexed",
		slog.Int("documents", docCount),
		slog.Int("chunks", chunkCount))
	return nil
}

// Search returns the top k excerpts for a query.
func (c *Corpus) Search(query string, k int) []Excerpt {
	if k <= 0 {
		k = c.cfg.TopK
	}
	return c.index.Search(query, k)
}

// TopK returns the configured default result count.
func (c *Corpus) TopK() int { return c.cfg.TopK }

// Stats reports indexed document and chunk counts.
func (c *Corpus) Stats() (docs, chunks int) {
	return c.index.Stats()
}

// Directories returns the configured local corpus directories.
func (c *Corpus) Directories() []string { return c.cfg.Directories }
