package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
)

// LoadDirectory walks root and loads every supported document under it.
// Hidden directories and unsupported extensions are skipped. Files that fail
// to parse are logged and skipped rather than failing the whole load.
func LoadDirectory(root, sourceName string) ([]Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", root)
	}

	var docs []Document
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		doc, ok, err := loadFile(root, path, sourceName)
		if err != nil {
			slog.Warn("Skipping unreadable document", logfields.Path(path), logfields.Error(err))
			return nil
		}
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus directory: %w", err)
	}
	return docs, nil
}

// loadFile loads one file if its extension is supported.
func loadFile(root, path, sourceName string) (Document, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var extract func([]byte) ([]Block, error)
	switch ext {
	case ".md", ".markdown":
		extract = ExtractMarkdown
	case ".html", ".htm":
		extract = ExtractHTML
	case ".txt":
		extract = func(b []byte) ([]Block, error) { return ExtractPlain(b), nil }
	default:
		return Document{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, false, fmt.Errorf("read document: %w", err)
	}
	blocks, err := extract(data)
	if err != nil {
		return Document{}, false, fmt.Errorf("extract %s: %w", ext, err)
	}
	if len(blocks) == 0 {
		return Document{}, false, nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return Document{Path: rel, Source: sourceName, Blocks: blocks}, true, nil
}
