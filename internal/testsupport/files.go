package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDeclaration creates the media file name below dir together with its
// `.yml` declaration holding body. It returns the declaration path.
func WriteDeclaration(t testing.TB, dir, name, body string) string {
	t.Helper()

	media := filepath.Join(dir, filepath.FromSlash(name))
	WriteFile(t, media, 16)
	decl := media + ".yml"
	if err := os.WriteFile(decl, []byte(body), 0o644); err != nil {
		t.Fatalf("write declaration %s: %v", decl, err)
	}
	return decl
}
