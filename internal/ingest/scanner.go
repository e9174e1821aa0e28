// Package ingest discovers and imports bank-export CSV files into the
// budget database.
package ingest

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveredFile is one CSV export found under the import root.
type DiscoveredFile struct {
	Path   string
	Source string // account label derived from the file location
}

// ScanDir walks root and discovers CSV files. A single-file root is
// returned as one entry. Unreadable entries are skipped.
func ScanDir(root string) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if !info.IsDir() {
		if filepath.Ext(root) != ".csv" {
			return nil, nil
		}
		return []DiscoveredFile{{Path: root, Source: sourceLabel(filepath.Base(root), "")}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".csv" {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		parts := strings.Split(rel, string(filepath.Separator))

		// Exports kept in per-account subdirectories label the account:
		// <root>/<account>/<export>.csv
		var dir string
		if len(parts) >= 2 {
			dir = parts[0]
		}

		files = append(files, DiscoveredFile{
			Path:   path,
			Source: sourceLabel(d.Name(), dir),
		})
		return nil
	})

	return files, err
}

// sourceLabel derives an account label from the directory name when there
// is one, otherwise from the file name with trailing date stamps dropped:
//
//	"checking/export-2026-03.csv" -> "checking"
//	"santander-2026-03.csv"       -> "santander"
func sourceLabel(name, dir string) string {
	if dir != "" {
		return dir
	}
	name = strings.TrimSuffix(name, ".csv")
	parts := strings.Split(name, "-")
	for len(parts) > 1 && isDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "-")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
