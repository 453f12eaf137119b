package install

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func stageFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	source := t.TempDir()
	for name, content := range files {
		path := filepath.Join(source, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return source
}

func TestInstallerDeploysFiles(t *testing.T) {
	source := stageFiles(t, map[string]string{
		"sindex64.dll":     "not really a dll",
		"docs/sindex.txt":  "docs",
		"docs/changes.txt": "changes",
	})
	target := t.TempDir()
	installer := New(source, target)
	if err := installer.CheckInstallDir(target); err != nil {
		t.Fatal(err)
	}
	installer.StartInstall()
	installer.WaitForDone()
	if err := installer.Err(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"sindex64.dll", "docs/sindex.txt", "docs/changes.txt"} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Errorf("missing deployed file %s: %v", name, err)
		}
	}
	if installer.Progress() != 1.0 {
		t.Errorf("Progress() = %g, want 1.0", installer.Progress())
	}
	if !installer.Done {
		t.Error("installer not done")
	}
}

func TestInstallerRollback(t *testing.T) {
	source := stageFiles(t, map[string]string{
		"a.dll": "aaaa",
		"b.txt": "bbbb",
	})
	target := t.TempDir()
	installer := New(source, target)

	started := make(chan bool)
	proceed := make(chan bool)
	first := true
	installer.SetProgressFunction(func(status Status) {
		if first {
			first = false
			started <- true
			<-proceed
		}
	})
	installer.StartInstall()
	<-started

	rolledBack := make(chan bool)
	go func() {
		installer.Rollback()
		rolledBack <- true
	}()
	proceed <- true
	<-rolledBack

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("target not empty after rollback: %v", entries)
	}
	// A rollback is not a success: it must be distinguishable from a
	// completed install.
	if !errors.Is(installer.Err(), ErrAborted) {
		t.Errorf("Err() after rollback = %v, want ErrAborted", installer.Err())
	}
}

func TestRollbackAfterDoneReturns(t *testing.T) {
	source := stageFiles(t, map[string]string{"sindex64.dll": "dll"})
	target := t.TempDir()
	installer := New(source, target)
	installer.StartInstall()
	installer.WaitForDone()
	if err := installer.Err(); err != nil {
		t.Fatal(err)
	}

	returned := make(chan bool)
	go func() {
		installer.Rollback()
		returned <- true
	}()
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Rollback after completed install did not return")
	}
	// Rolling back a finished install still undoes it.
	if _, err := os.Stat(filepath.Join(target, "sindex64.dll")); !os.IsNotExist(err) {
		t.Errorf("deployed file still present after rollback: %v", err)
	}
	if !errors.Is(installer.Err(), ErrAborted) {
		t.Errorf("Err() = %v, want ErrAborted", installer.Err())
	}
}

func TestNewSeedsTotalSize(t *testing.T) {
	source := stageFiles(t, map[string]string{
		"a.dll": "aaaa",
		"b.txt": "bbbbbb",
	})
	installer := New(source, t.TempDir())
	// The source scan happens at construction, so the disk-space gate in
	// CheckInstallDir has a real payload size to compare against.
	if installer.totalSize != 10 {
		t.Errorf("totalSize after New = %d, want 10", installer.totalSize)
	}
	if err := installer.CheckInstallDir(installer.Target); err != nil {
		t.Fatal(err)
	}
}

func TestCheckInstallDirMissingParent(t *testing.T) {
	installer := New(t.TempDir(), "")
	if err := installer.CheckInstallDir("/nonexistent-parent-dir/target"); err == nil {
		t.Error("CheckInstallDir accepted a missing parent")
	}
}

func TestSizeString(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{512, "512B"},
		{2048, "2.00KB"},
		{5 * MB, "5.00MB"},
		{3 * GB, "3.00GB"},
	}
	for _, c := range cases {
		installer := &Installer{Done: true, totalSize: c.size}
		if got := installer.SizeString(); got != c.want {
			t.Errorf("SizeString(%d) = %q, want %q", c.size, got, c.want)
		}
	}
}

func TestProgressBeforeScanIsZero(t *testing.T) {
	installer := New(t.TempDir(), t.TempDir())
	if installer.Progress() != 0 {
		t.Errorf("Progress() = %g before install", installer.Progress())
	}
}
