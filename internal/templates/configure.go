package templates

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// LatestSuffix marks the sibling file holding the newest builtin version of
// a template the user has edited.
const LatestSuffix = ".latest"

const templatesFolderPerms = 0o750

// ConfigureReport lists what Configure did to each bundle file.
type ConfigureReport struct {
	// Created: files materialized fresh.
	Created []string
	// Updated: files overwritten with the current builtin.
	Updated []string
	// Kept: user-edited files left in place; the new builtin landed in the
	// ".latest" sibling instead.
	Kept []string
	// Unchanged: files already holding the current builtin.
	Unchanged []string
}

// Configure materializes the named builtin bundle into folder. Untouched
// copies of an older builtin are overwritten; files the user edited are kept
// and the new builtin content is written to a ".latest" sibling, unless
// force overwrites them too. Edits are detected against the fingerprints
// recorded in metadata.json; files with no recorded fingerprint count as
// edited. The metadata is refreshed afterwards.
func Configure(folder, builtinName, version string, force bool) (*ConfigureReport, error) {
	err := os.MkdirAll(folder, templatesFolderPerms)
	if err != nil {
		return nil, fmt.Errorf("creating templates folder: %w", err)
	}

	meta, err := LoadMetadata(folder)
	if err != nil {
		return nil, err
	}

	report := &ConfigureReport{}

	refreshed, err := NewMetadata(folder, builtinName, version)
	if err != nil {
		return nil, err
	}

	for _, file := range TemplateFiles {
		builtin, contentErr := BuiltinFileContent(builtinName, file)
		if contentErr != nil {
			return nil, contentErr
		}

		if fileErr := configureFile(folder, file, builtin, meta, force, report); fileErr != nil {
			return nil, fileErr
		}

		// Record the builtin fingerprint, never the on-disk one: a kept
		// user edit must still read as edited on the next run.
		refreshed.Files[file] = FileFingerprint{
			Hash: ContentHash(builtin),
			Size: int64(len(builtin)),
		}
	}

	if err := SaveMetadata(folder, refreshed); err != nil {
		return nil, err
	}

	return report, nil
}

func configureFile(folder, file string, builtin []byte, meta *Metadata, force bool, report *ConfigureReport) error {
	path := filepath.Join(folder, file)
	latestPath := path + LatestSuffix

	current, err := os.ReadFile(path) //nolint:gosec // path is inside the templates folder
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		if writeErr := atomic.WriteFile(path, bytes.NewReader(builtin)); writeErr != nil {
			return fmt.Errorf("writing %s: %w", path, writeErr)
		}

		report.Created = append(report.Created, file)

		return nil
	}

	currentHash := ContentHash(current)
	if currentHash == ContentHash(builtin) {
		// Current builtin already in place. A leftover .latest sibling from
		// an earlier run is obsolete now.
		if removeErr := os.Remove(latestPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("removing %s: %w", latestPath, removeErr)
		}

		report.Unchanged = append(report.Unchanged, file)

		return nil
	}

	edited := true
	if meta != nil {
		if fp, ok := meta.Files[file]; ok {
			edited = fp.Hash != currentHash
		}
	}

	if edited && !force {
		if writeErr := atomic.WriteFile(latestPath, bytes.NewReader(builtin)); writeErr != nil {
			return fmt.Errorf("writing %s: %w", latestPath, writeErr)
		}

		report.Kept = append(report.Kept, file)

		return nil
	}

	if writeErr := atomic.WriteFile(path, bytes.NewReader(builtin)); writeErr != nil {
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}

	if removeErr := os.Remove(latestPath); removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("removing %s: %w", latestPath, removeErr)
	}

	report.Updated = append(report.Updated, file)

	return nil
}
