package structure

import (
	"fmt"
	"os"
	"path/filepath"
)

// cacheSubdir is the directory created under os.UserCacheDir
const cacheSubdir = "pepterm"

// DefaultCacheDir returns the per-user cache location, creating nothing
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(base, cacheSubdir), nil
}

// CacheInfo summarizes the cache directory contents
type CacheInfo struct {
	Dir   string
	Files int
	Bytes int64
}

// MB returns the cache size in megabytes
func (i CacheInfo) MB() float64 {
	return float64(i.Bytes) / (1024 * 1024)
}

// Info counts regular files in the cache, a missing directory is empty
func (c *Client) Info() (CacheInfo, error) {
	info := CacheInfo{Dir: c.CacheDir}
	entries, err := os.ReadDir(c.CacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return info, fmt.Errorf("read cache dir: %w", err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return info, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		info.Files++
		info.Bytes += fi.Size()
	}
	return info, nil
}

// Clear removes every regular file in the cache and returns how many were removed
// Subdirectories are left alone
func (c *Client) Clear() (int, error) {
	entries, err := os.ReadDir(c.CacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(c.CacheDir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// ensureCache creates the cache directory on first use
func (c *Client) ensureCache() error {
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return nil
}
