package install

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultURL is the BC Ministry of Forests release archive for the SINDEX
// DLL, v1.54.
const DefaultURL = "https://www2.gov.bc.ca/assets/gov/farming-natural-resources-and-industry/forestry/stewardship/forest-analysis-inventory/software/sindex_dll_v154.zip"

var (
	// ErrNeedsElevation marks permission failures; the remediation is to
	// re-run with elevated privileges.
	ErrNeedsElevation = errors.New("install: permission denied")
	// ErrNetwork marks download failures; the remediation is to check
	// connectivity and retry.
	ErrNetwork = errors.New("install: download failed")
	// ErrChecksum is returned when the downloaded archive does not match the
	// configured sha256.
	ErrChecksum = errors.New("install: archive checksum mismatch")
)

// FetchOptions control archive verification and progress reporting.
type FetchOptions struct {
	// Checksum is an optional hex sha256 of the archive. Empty skips
	// verification.
	Checksum string
	// Progress, if set, is called with the byte counts of the running
	// download. total is -1 when the server sends no Content-Length.
	Progress func(written, total int64)
}

// Fetch downloads the release archive, verifies it, and extracts its files
// into destDir. The archive itself is removed afterwards. It returns the
// paths of the extracted files.
func Fetch(ctx context.Context, url, destDir string, opts FetchOptions) ([]string, error) {
	if url == "" {
		url = DefaultURL
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, classify(err)
	}
	archive, err := download(ctx, url, destDir, opts)
	if err != nil {
		return nil, err
	}
	defer os.Remove(archive)
	if opts.Checksum != "" {
		if err := verifyChecksum(archive, opts.Checksum); err != nil {
			return nil, err
		}
	}
	return extract(archive, destDir)
}

// download saves the archive to a temp file in destDir and returns its path.
func download(ctx context.Context, url, destDir string, opts FetchOptions) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: server returned %s", ErrNetwork, resp.Status)
	}
	tmp, err := os.CreateTemp(destDir, "sindex-*.zip")
	if err != nil {
		return "", classify(err)
	}
	var reader io.Reader = resp.Body
	if opts.Progress != nil {
		reader = &progressReader{r: resp.Body, total: resp.ContentLength, report: opts.Progress}
	}
	_, err = io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	return tmp.Name(), nil
}

// verifyChecksum compares the archive's sha256 against the expected hex
// digest.
func verifyChecksum(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return classify(err)
	}
	defer f.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return err
	}
	got := hex.EncodeToString(hash.Sum(nil))
	if !strings.EqualFold(got, expected) {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksum, got, expected)
	}
	return nil
}

// extract unpacks the archive's regular files into destDir. Entry paths are
// flattened to their base name; the release zip contains the DLL and its
// documentation at the top level.
func extract(archive, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	var extracted []string
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(destDir, filepath.Base(file.Name))
		if err := extractFile(file, target); err != nil {
			return extracted, classify(err)
		}
		extracted = append(extracted, target)
	}
	return extracted, nil
}

func extractFile(file *zip.File, target string) error {
	r, err := file.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode().Perm())
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

// IsPermission reports whether an install failed for lack of privileges.
func IsPermission(err error) bool { return errors.Is(err, ErrNeedsElevation) }

// IsNetwork reports whether an install failed downloading the archive.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }

// classify wraps filesystem errors so callers can print the matching
// remediation.
func classify(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %s", ErrNeedsElevation, err)
	}
	return err
}

// progressReader reports running byte counts to a callback.
type progressReader struct {
	r       io.Reader
	written int64
	total   int64
	report  func(written, total int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}
