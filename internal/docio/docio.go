// SPDX-License-Identifier: Apache-2.0

// Package docio moves documents and results across the process boundary.
// All filesystem access goes through afero so tests run against memory.
package docio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/cirscanproj/cirscan/internal/pipeline"
	"github.com/cirscanproj/cirscan/internal/rules"
)

// ErrBinaryInput rejects non-text input at the boundary, before it can
// reach the engine.
var ErrBinaryInput = errors.New("binary input rejected")

// ReadDocument loads one document and normalizes its text. NUL bytes or
// invalid UTF-8 mark the input as binary.
func ReadDocument(fsys afero.Fs, path string) (string, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", path, err)
	}
	if bytes.IndexByte(raw, 0) >= 0 || !utf8.Valid(raw) {
		return "", fmt.Errorf("%s: %w", path, ErrBinaryInput)
	}
	return rules.NormalizeText(string(raw)), nil
}

// LoadSubjects collects every .txt and .md file of dir as a batch subject,
// sorted by file name. Files that cannot be read as text are included with
// empty text, so the batch reports them as unreadable instead of silently
// dropping them.
func LoadSubjects(fsys afero.Fs, dir string) ([]pipeline.Subject, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read subject dir %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".txt", ".md":
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)

	subjects := make([]pipeline.Subject, 0, len(names))
	for _, name := range names {
		text, err := ReadDocument(fsys, filepath.Join(dir, name))
		if err != nil {
			text = ""
		}
		subjects = append(subjects, pipeline.Subject{ID: name, Text: text})
	}
	return subjects, nil
}

// ExportResult writes v as indented JSON, creating parent directories as
// needed.
func ExportResult(fsys afero.Fs, path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	raw = append(raw, '\n')

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fsys, path, raw, 0o644); err != nil {
		return fmt.Errorf("write result %s: %w", path, err)
	}
	return nil
}

// ExportBatch writes the batch summary plus one result file per item under
// dir. Item files are numbered in input order.
func ExportBatch(fsys afero.Fs, dir string, batch pipeline.BatchResult) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create batch dir %s: %w", dir, err)
	}
	if err := ExportResult(fsys, filepath.Join(dir, "batch_summary.json"), batch); err != nil {
		return err
	}
	for i, item := range batch.Results {
		name := fmt.Sprintf("%03d_%s.json", i+1, safeName(item.SubjectID))
		if err := ExportResult(fsys, filepath.Join(dir, name), item); err != nil {
			return err
		}
	}
	return nil
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeName(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = unsafeNameRe.ReplaceAllString(s, "_")
	if s == "" {
		return "subject"
	}
	return s
}
