package download

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/go-setupwizard/pkg/utils"
)

// Client is the HTTP implementation of Queue. It keeps at most one pending
// item and downloads it into a destination directory, verifying a sha256
// digest when one is registered.
type Client struct {
	httpClient      *http.Client
	logger          *zap.SugaredLogger
	destDir         string
	authUser        string
	authPassword    string
	customHeaders   map[string]string
	followRedirects bool

	pending *queueItem
	visible bool

	// Abort may be called from a signal handler goroutine while Download
	// blocks, so the cancel state needs its own lock.
	abortMu sync.Mutex
	aborted bool
	cancel  context.CancelFunc
}

type queueItem struct {
	url            string
	name           string
	expectedDigest string
}

// NewClient creates a new download client writing into destDir
func NewClient(destDir string, logger *zap.SugaredLogger) *Client {
	client := &Client{
		httpClient:    &http.Client{},
		logger:        logger,
		destDir:       destDir,
		customHeaders: make(map[string]string),
	}
	// Follow redirects by default; vendor download URLs are typically
	// aka.ms-style redirectors.
	client.SetFollowRedirects(true)
	return client
}

// SetBasicAuth configures HTTP Basic Authentication for corporate mirrors
func (c *Client) SetBasicAuth(user, password string) {
	c.authUser = user
	c.authPassword = password
}

// SetHeader adds a custom header sent with every request
func (c *Client) SetHeader(name, value string) {
	c.customHeaders[name] = value
}

// SetFollowRedirects toggles HTTP redirect following
func (c *Client) SetFollowRedirects(follow bool) {
	c.followRedirects = follow
	if follow {
		c.httpClient.CheckRedirect = nil
	} else {
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // do not follow
		}
	}
}

// LocalPath returns where the item registered under name lands on disk.
func (c *Client) LocalPath(name string) string {
	return filepath.Join(c.destDir, name)
}

// Clear drops any prior registration.
func (c *Client) Clear() {
	c.pending = nil
}

// Add registers the single pending item. Calling Add twice without Clear
// replaces the previous registration; the queue never holds a batch.
func (c *Client) Add(url, name, expectedDigest string) {
	c.pending = &queueItem{url: url, name: name, expectedDigest: expectedDigest}
}

// Show marks the download surface visible.
func (c *Client) Show() {
	c.visible = true
	c.logger.Debugf("download surface shown")
}

// Hide marks the download surface hidden.
func (c *Client) Hide() {
	c.visible = false
	c.logger.Debugf("download surface hidden")
}

// Abort cancels the in-flight download, if any. Download then fails with an
// error wrapping ErrAborted. Safe to call from another goroutine.
func (c *Client) Abort() {
	c.abortMu.Lock()
	defer c.abortMu.Unlock()
	c.aborted = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Download fetches the pending item. It blocks until the transfer finishes,
// fails, or is aborted. A digest mismatch removes the local file and fails.
func (c *Client) Download() error {
	item := c.pending
	if item == nil {
		return fmt.Errorf("no pending download item")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.abortMu.Lock()
	if c.aborted {
		c.abortMu.Unlock()
		cancel()
		return fmt.Errorf("download of %s: %w", item.name, ErrAborted)
	}
	c.cancel = cancel
	c.abortMu.Unlock()

	defer func() {
		c.abortMu.Lock()
		c.cancel = nil
		c.abortMu.Unlock()
		cancel()
	}()

	localPath := c.LocalPath(item.name)
	if err := c.downloadOnce(ctx, item.url, localPath); err != nil {
		c.abortMu.Lock()
		aborted := c.aborted
		c.abortMu.Unlock()
		if aborted {
			return fmt.Errorf("download of %s: %w", item.name, ErrAborted)
		}
		return err
	}

	if err := c.VerifyFileDigest(localPath, item.expectedDigest); err != nil {
		os.Remove(localPath)
		return err
	}

	return nil
}

// VerifyFileDigest checks if a file matches the expected SHA256 digest. An
// empty digest skips verification.
func (c *Client) VerifyFileDigest(path, expectedDigest string) error {
	if expectedDigest == "" {
		c.logger.Debugf("no digest provided for %s, skipping verification", path)
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file for digest verification: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf("failed to read file for hashing: %w", err)
	}

	actualDigest := fmt.Sprintf("%x", hasher.Sum(nil))
	if actualDigest != expectedDigest {
		return fmt.Errorf("digest mismatch for %s: expected %s, got %s", path, expectedDigest, actualDigest)
	}

	c.logger.Debugf("digest verification passed for %s", path)
	return nil
}

// downloadOnce performs a single download attempt
func (c *Client) downloadOnce(ctx context.Context, url, localPath string) error {
	c.logger.Debugf("making HTTP request to %s", url)

	if err := utils.EnsureDirForFile(localPath); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	if c.authUser != "" && c.authPassword != "" {
		req.SetBasicAuth(c.authUser, c.authPassword)
	}
	for key, value := range c.customHeaders {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", "go-setupwizard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("HTTP response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed with status: %d", url, resp.StatusCode)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", localPath, err)
	}
	defer file.Close()

	bytesWritten, err := io.Copy(file, resp.Body)
	if err != nil {
		// Don't leave a truncated artifact behind.
		file.Close()
		os.Remove(localPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	c.logger.Debugf("downloaded %d bytes to %s", bytesWritten, localPath)
	return nil
}
