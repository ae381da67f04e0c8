package main

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ImportedFile records a statement file that was imported for a user.
type ImportedFile struct {
	FilePath   string    `json:"file_path"`
	FileHash   string    `json:"file_hash"`
	UserID     int64     `json:"user_id"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	ImportedAt time.Time `json:"imported_at"`
}

// CacheData stores information about imported files
type CacheData struct {
	ImportedFiles map[string]ImportedFile `json:"imported_files"` // key: cacheKey(user, path)
}

func newCacheData() *CacheData {
	return &CacheData{ImportedFiles: make(map[string]ImportedFile)}
}

func cacheKey(userID int64, path string) string {
	return fmt.Sprintf("%d:%s", userID, path)
}

// unchanged reports whether path was already imported for userID with the same content.
func (c *CacheData) unchanged(userID int64, path, hash string) (ImportedFile, bool) {
	entry, ok := c.ImportedFiles[cacheKey(userID, path)]
	if !ok || hash == "" {
		return entry, false
	}
	return entry, entry.FileHash == hash
}

func (c *CacheData) record(entry ImportedFile) {
	c.ImportedFiles[cacheKey(entry.UserID, entry.FilePath)] = entry
}

// loadCache loads the cache of imported files
func loadCache(cacheFile string) (*CacheData, error) {
	cache := newCacheData()

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ImportedFiles == nil {
		cache.ImportedFiles = make(map[string]ImportedFile)
	}

	return cache, nil
}

// saveCache saves the cache of imported files
func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// calculateFileHash calculates MD5 hash of a file
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
