package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource loads table metadata from disk. The path may be a single
// catalog document or a directory, in which case every .json/.yaml/.yml
// file found is decoded as one catalog document and the results merged.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// catalogDoc is the on-disk catalog shape.
type catalogDoc struct {
	Tables []*Table `json:"tables" yaml:"tables"`
}

func (s *FileSource) Load(ctx context.Context) (*Catalog, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog path: %w", err)
	}

	var tables []*Table
	if info.IsDir() {
		err = filepath.WalkDir(s.path, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isCatalogFile(d.Name()) {
				return nil
			}
			doc, err := readCatalogFile(path)
			if err != nil {
				return err
			}
			tables = append(tables, doc.Tables...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		doc, err := readCatalogFile(s.path)
		if err != nil {
			return nil, err
		}
		tables = doc.Tables
	}

	c, err := NewCatalog(tables...)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func isCatalogFile(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func readCatalogFile(path string) (*catalogDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %q: %w", path, err)
	}
	var doc catalogDoc
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode catalog file %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode catalog file %q: %w", path, err)
		}
	}
	return &doc, nil
}
