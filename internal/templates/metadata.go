package templates

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// MetadataFileName is the fingerprint file kept next to a materialized
// template bundle. It lets `configure` tell user-edited templates from
// untouched copies of a builtin set.
const MetadataFileName = "metadata.json"

// Metadata records where a materialized template bundle came from and the
// fingerprint of each file at the time it was written.
type Metadata struct {
	Version     string                     `json:"version"`
	CreatedDate string                     `json:"created_date"`
	LastUpdated string                     `json:"last_updated_date"`
	BuiltinName string                     `json:"builtin_name"`
	Files       map[string]FileFingerprint `json:"files"`
}

// FileFingerprint is the stored hash and size of one template file.
type FileFingerprint struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// ContentHash returns the fingerprint of raw content, in "sha256:..." form.
func ContentHash(content []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(content))
}

// FileHash returns the fingerprint of the file at path.
func FileHash(path string) (string, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is inside the templates folder
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return ContentHash(raw), nil
}

// LoadMetadata reads the bundle metadata from folder. A missing metadata
// file is not an error: it returns (nil, nil).
func LoadMetadata(folder string) (*Metadata, error) {
	raw, err := os.ReadFile(filepath.Join(folder, MetadataFileName)) //nolint:gosec // path is the configured templates folder
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading template metadata: %w", err)
	}

	var meta Metadata

	unmarshalErr := json.Unmarshal(raw, &meta)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("parsing template metadata: %w", unmarshalErr)
	}

	return &meta, nil
}

// SaveMetadata writes the bundle metadata into folder.
func SaveMetadata(folder string, meta *Metadata) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding template metadata: %w", err)
	}

	raw = append(raw, '\n')

	writeErr := atomic.WriteFile(filepath.Join(folder, MetadataFileName), bytes.NewReader(raw))
	if writeErr != nil {
		return fmt.Errorf("writing template metadata: %w", writeErr)
	}

	return nil
}

// NewMetadata returns fresh metadata for a bundle, preserving the creation
// date already recorded in folder, if any. The caller fills Files with the
// fingerprints of the builtin versions it wrote or offered: comparing a
// file on disk against that fingerprint is how edits are detected, so disk
// state must never leak into it.
func NewMetadata(folder, builtinName, version string) (*Metadata, error) {
	now := time.Now().Format(time.RFC3339)

	meta := &Metadata{
		Version:     version,
		CreatedDate: now,
		LastUpdated: now,
		BuiltinName: builtinName,
		Files:       make(map[string]FileFingerprint),
	}

	existing, err := LoadMetadata(folder)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.CreatedDate != "" {
		meta.CreatedDate = existing.CreatedDate
	}

	return meta, nil
}
