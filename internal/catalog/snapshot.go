package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"

	"baldr/internal/fileutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteSnapshot stores snapshot as indented JSON at path, gzip-compressed
// when path ends in `.gz`. The file is replaced atomically.
func WriteSnapshot(path string, snapshot Snapshot) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		buffered := bufio.NewWriter(w)
		var (
			out io.Writer = buffered
			gz  *gzip.Writer
		)
		if compressed(path) {
			gz = gzip.NewWriter(buffered)
			out = gz
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if gz != nil {
			if err := gz.Close(); err != nil {
				return fmt.Errorf("compress snapshot: %w", err)
			}
		}
		return buffered.Flush()
	})
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer file.Close()

	var in io.Reader = bufio.NewReader(file)
	if compressed(path) {
		gz, err := gzip.NewReader(in)
		if err != nil {
			return Snapshot{}, fmt.Errorf("open compressed snapshot: %w", err)
		}
		defer gz.Close()
		in = gz
	}
	var snapshot Snapshot
	if err := json.NewDecoder(in).Decode(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
