// Package pipeline discovers monthly input files and drives the per-file
// processing loop shared by all commands.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// MonthlyFile is one discovered input file with its year-month token.
type MonthlyFile struct {
	Path   string
	Name   string
	Period string // "2019-01"
	Size   int64
}

// Year returns the file's four-digit year token.
func (f MonthlyFile) Year() string {
	return f.Period[:4]
}

var periodPattern = regexp.MustCompile(`_(\d{4}-\d{2})$`)

// FindMonthlyFiles lists the parquet files in dir whose names embed a
// year-month token, sorted chronologically. Files without a token are
// ignored; the sampler's yearly grouping depends on the chronological order.
func FindMonthlyFiles(dir string) ([]MonthlyFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []MonthlyFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".parquet") {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		m := periodPattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, MonthlyFile{
			Path:   filepath.Join(dir, name),
			Name:   name,
			Period: m[1],
			Size:   info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Period < files[j].Period
	})
	return files, nil
}
