package cache

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/go-setupwizard/pkg/config"
)

const CatalogFile = "catalog.json"

// stubbed in tests
var timeNow = time.Now

// Entry records one cached artifact in the catalog.
type Entry struct {
	Name      string    `json:"name"`
	SourceURL string    `json:"source_url"`
	SHA256    string    `json:"sha256"`
	Size      int64     `json:"size"`
	StoredAt  time.Time `json:"stored_at"`
}

// Storer is a cache of previously downloaded artifacts. Fetch re-verifies
// the recorded checksum so a tampered or truncated blob is never handed to
// the install protocol.
type Storer interface {
	LoadCatalog() ([]Entry, error)
	Fetch(name, destPath string) error
	Store(name, srcPath, sourceURL string) error
}

// New creates the cache backend selected by the configuration.
func New(cfg config.CacheConfig, logger *zap.SugaredLogger) (Storer, error) {
	switch cfg.Type {
	case "fs":
		return NewFSStorer(cfg.Dir, logger), nil
	case "s3":
		return NewS3Storer(cfg, logger)
	default:
		return nil, fmt.Errorf("%s is not a known cache backend type", cfg.Type)
	}
}

func fileSHA256(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), size, nil
}

func dataSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:])
}

func findEntry(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func upsertEntry(entries []Entry, entry Entry) []Entry {
	for i, e := range entries {
		if e.Name == entry.Name {
			entries[i] = entry
			return entries
		}
	}
	return append(entries, entry)
}
