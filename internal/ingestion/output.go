package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Output file names written by WriteOutput.
const (
	ParsedFileName = "resume.parsed.json"
	TextFileName   = "resume.md"
	RawFileName    = "resume.raw.txt"
	MetaFileName   = "resume.meta.json"
)

// WriteOutput writes the parse result, the canonical markdown text, the raw
// extracted text and the ingestion metadata to outDir, creating it if needed.
// Each file is written to a temporary name and renamed into place so a reader
// never sees a partial file.
func WriteOutput(outDir string, result *Result) error {
	if result == nil || result.Parse == nil || result.Parse.Document == nil {
		return fmt.Errorf("nothing to write: result has no parsed document")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	parsed, err := json.MarshalIndent(result.Parse, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal parse result: %w", err)
	}
	meta, err := json.MarshalIndent(result.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{ParsedFileName, parsed},
		{TextFileName, []byte(result.Parse.Document.FullText)},
		{RawFileName, []byte(result.RawText)},
		{MetaFileName, meta},
	}
	for _, f := range files {
		if err := writeFileAtomic(filepath.Join(outDir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
