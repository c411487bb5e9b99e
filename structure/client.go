package structure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/singleflight"
)

// RCSB endpoints
const (
	DefaultSearchURL   = "https://search.rcsb.org/rcsbsearch/v2/query"
	DefaultEntryURL    = "https://data.rcsb.org/rest/v1/core/entry/"
	DefaultDownloadURL = "https://files.rcsb.org/download/"
)

var (
	ErrInvalidID    = errors.New("not a PDB ID")
	ErrBadStatus    = errors.New("unexpected HTTP status")
	ErrNoCartoon    = errors.New("PyMOL produced no cartoon")
	ErrPyMOLMissing = errors.New("PyMOL not found in PATH (install: brew install pymol, or conda install -c conda-forge pymol-open-source)")
)

// Client resolves structure inputs against the network, PyMOL and the local cache
type Client struct {
	HTTP        *http.Client
	CacheDir    string
	SearchURL   string
	EntryURL    string
	DownloadURL string
	PyMOL       string // executable name or path

	// Progress draws a byte progress bar on stderr while downloading
	Progress bool

	// Logf receives human-readable notices, nil discards them
	Logf func(format string, args ...any)

	// flight collapses concurrent downloads and exports of the same cache file
	flight singleflight.Group
}

// NewClient returns a client with RCSB endpoints caching under dir
func NewClient(dir string) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 60 * time.Second},
		CacheDir:    dir,
		SearchURL:   DefaultSearchURL,
		EntryURL:    DefaultEntryURL,
		DownloadURL: DefaultDownloadURL,
		PyMOL:       "pymol",
		Progress:    true,
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

// IsPDBID reports whether s has the four alphanumeric character form of a PDB entry
func IsPDBID(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < '0' || b > '9') && (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return false
		}
	}
	return true
}

// Download fetches the mmCIF file for id into the cache and returns its path
// A cached copy is returned without touching the network
func (c *Client) Download(ctx context.Context, id string) (string, error) {
	if !IsPDBID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	id = strings.ToUpper(id)

	v, err, _ := c.flight.Do("download:"+id, func() (any, error) {
		return c.download(ctx, id)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) download(ctx context.Context, id string) (string, error) {
	if err := c.ensureCache(); err != nil {
		return "", err
	}
	cachePath := filepath.Join(c.CacheDir, id+".cif")
	if _, err := os.Stat(cachePath); err == nil {
		c.logf("using cached %s", cachePath)
		return cachePath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL+id+".cif", nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %w: %s", id, ErrBadStatus, resp.Status)
	}

	tmpFile, err := os.CreateTemp(c.CacheDir, "download_*")
	if err != nil {
		return "", fmt.Errorf("create temp cache file: %w", err)
	}

	var writer io.Writer = tmpFile
	if c.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "download "+id)
		defer bar.Close()
		writer = io.MultiWriter(tmpFile, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("write cache file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), cachePath); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("finalize cache file: %w", err)
	}

	c.logf("downloaded %s to %s", id, cachePath)
	return cachePath, nil
}
