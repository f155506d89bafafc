package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "cacases/internal/errors"
)

// CSVExt is the extension of case input files.
const CSVExt = ".csv"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FindCSVFiles returns the CSV files directly inside dir, sorted by name.
func FindCSVFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read input directory %s", dir), err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), CSVExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ResolveInputs expands inputs into an ordered, duplicate-free list of file
// paths. Order follows the inputs; a directory or glob contributes its
// matches in name order. An input that matches nothing is an error.
func ResolveInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewAppValidationError("no case CSV input given")
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			paths = append(paths, clean)
		}
	}

	for _, input := range inputs {
		matches, err := expand(input)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("input %s matches no CSV files", input)).
				WithContext("input", input)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

func expand(input string) ([]string, error) {
	if strings.ContainsAny(input, "*?[") {
		matches, err := filepath.Glob(input)
		if err != nil {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("bad input pattern %s: %v", input, err))
		}
		sort.Strings(matches)
		var files []string
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				files = append(files, m)
			}
		}
		return files, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("open case input %s", input), err).
			WithContext("input", input)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	found, err := FindCSVFiles(input)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(found))
	for i, f := range found {
		files[i] = f.Path
	}
	return files, nil
}
