package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "cacases/internal/errors"
)

// WriteLines writes each line followed by a newline.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeFile replaces path atomically: content goes to a temporary file in the
// same directory which is renamed over path once complete.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create %s", path), err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return apperrors.NewStorageError(fmt.Sprintf("write %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("close %s", path), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("chmod %s", path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("rename %s", path), err)
	}
	return nil
}

func writeLinesFile(path string, lines []string) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteLines(w, lines)
	})
}
