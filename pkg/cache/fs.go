package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/go-setupwizard/pkg/utils"
)

// fsStorer keeps artifacts as plain files under a root directory, with a
// JSON catalog alongside them.
type fsStorer struct {
	root   string
	logger *zap.SugaredLogger
}

// NewFSStorer creates a filesystem-backed cache rooted at dir.
func NewFSStorer(dir string, logger *zap.SugaredLogger) Storer {
	return &fsStorer{root: dir, logger: logger}
}

func (s *fsStorer) catalogPath() string {
	return filepath.Join(s.root, CatalogFile)
}

func (s *fsStorer) LoadCatalog() ([]Entry, error) {
	contents, err := os.ReadFile(s.catalogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // fresh cache
		}
		return nil, fmt.Errorf("unable to read catalog %s: %w", s.catalogPath(), err)
	}

	var entries []Entry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("unable to parse catalog %s: %w", s.catalogPath(), err)
	}
	return entries, nil
}

func (s *fsStorer) storeCatalog(entries []Entry) error {
	marshalled, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.catalogPath(), marshalled, 0644)
}

// Fetch copies the named artifact to destPath if the cached blob still
// matches its recorded checksum.
func (s *fsStorer) Fetch(name, destPath string) error {
	entries, err := s.LoadCatalog()
	if err != nil {
		return err
	}
	entry, ok := findEntry(entries, name)
	if !ok {
		return fmt.Errorf("%s is not in the cache catalog", name)
	}

	blobPath := filepath.Join(s.root, name)
	sum, _, err := fileSHA256(blobPath)
	if err != nil {
		return fmt.Errorf("unable to hash cached blob %s: %w", blobPath, err)
	}
	if sum != entry.SHA256 {
		return fmt.Errorf("cached blob %s is corrupt: checksum %s did not match recorded %s", blobPath, sum, entry.SHA256)
	}

	if err := utils.EnsureDirForFile(destPath); err != nil {
		return err
	}
	data, err := os.ReadFile(blobPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return err
	}

	s.logger.Infof("served %s from cache (%s)", name, blobPath)
	return nil
}

// Store copies srcPath into the cache and records it in the catalog.
func (s *fsStorer) Store(name, srcPath, sourceURL string) error {
	if err := utils.EnsureDir(s.root); err != nil {
		return err
	}

	sum, size, err := fileSHA256(srcPath)
	if err != nil {
		return fmt.Errorf("unable to hash %s: %w", srcPath, err)
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	blobPath := filepath.Join(s.root, name)
	if err := os.WriteFile(blobPath, data, 0644); err != nil {
		return err
	}

	entries, err := s.LoadCatalog()
	if err != nil {
		s.logger.Warnf("rebuilding cache catalog: %v", err)
		entries = nil
	}
	entries = upsertEntry(entries, Entry{
		Name:      name,
		SourceURL: sourceURL,
		SHA256:    sum,
		Size:      size,
		StoredAt:  timeNow(),
	})

	if err := s.storeCatalog(entries); err != nil {
		return fmt.Errorf("unable to write catalog: %w", err)
	}

	s.logger.Infof("cached %s (%d bytes) from %s", name, size, sourceURL)
	return nil
}
