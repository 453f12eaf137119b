package install

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// buildArchive returns a release-like zip with the DLL nested in a version
// directory, the way the ministry packages it.
func buildArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("sindex_dll_v154/sindex64.dll")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("dll bytes")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func serveArchive(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchExtractsDLL(t *testing.T) {
	archive := buildArchive(t)
	server := serveArchive(t, archive)
	destDir := t.TempDir()

	var lastWritten int64
	files, err := Fetch(context.Background(), server.URL, destDir, FetchOptions{
		Progress: func(written, total int64) { lastWritten = written },
	})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(destDir, "sindex64.dll")
	if len(files) != 1 || files[0] != want {
		t.Fatalf("Fetch returned %v, want [%s]", files, want)
	}
	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "dll bytes" {
		t.Errorf("extracted content %q", content)
	}
	if lastWritten != int64(len(archive)) {
		t.Errorf("progress saw %d bytes, want %d", lastWritten, len(archive))
	}
	// The archive itself is cleaned up.
	leftovers, _ := filepath.Glob(filepath.Join(destDir, "*.zip"))
	if len(leftovers) != 0 {
		t.Errorf("archive not removed: %v", leftovers)
	}
}

func TestFetchVerifiesChecksum(t *testing.T) {
	archive := buildArchive(t)
	server := serveArchive(t, archive)

	sum := sha256.Sum256(archive)
	_, err := Fetch(context.Background(), server.URL, t.TempDir(), FetchOptions{
		Checksum: hex.EncodeToString(sum[:]),
	})
	if err != nil {
		t.Fatalf("valid checksum rejected: %v", err)
	}

	_, err = Fetch(context.Background(), server.URL, t.TempDir(), FetchOptions{
		Checksum: "deadbeef",
	})
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("bad checksum = %v, want ErrChecksum", err)
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()
	_, err := Fetch(context.Background(), server.URL, t.TempDir(), FetchOptions{})
	if !IsNetwork(err) {
		t.Errorf("404 = %v, want network error", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	server := serveArchive(t, buildArchive(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, server.URL, t.TempDir(), FetchOptions{})
	if !IsNetwork(err) {
		t.Errorf("cancelled fetch = %v, want network error", err)
	}
}
