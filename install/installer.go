// Package install acquires and deploys the SINDEX DLL: downloading the
// release archive from the BC government site, verifying and extracting it,
// and copying the staged files into a target directory with progress
// reporting and rollback.
package install

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrAborted is reported by Err after a rollback: the deployment did not
// complete and the files written so far were deleted again.
var ErrAborted = errors.New("install: aborted and rolled back")

const (
	KB int64 = 1 << (10 * (iota + 1))
	MB
	GB
	TB
)

type (
	// File is an augmented os.FileInfo struct with both source and target
	// path as well as a flag indicating whether the file has been copied to
	// the target or not.
	File struct {
		os.FileInfo
		Path      string
		Target    string
		installed bool
	}
	// Status is a message struct that gets passed around at various times in
	// the deployment process. All fields are optional and contain the
	// current file, whether the installer as a whole is finished or not, or
	// whether it's been aborted and rolled back.
	Status struct {
		File    *File
		Done    bool
		Aborted bool
	}
	// Installer copies the staged DLL files from a source directory into a
	// target. It tracks size and completion and carries three message
	// channels, for abort and its confirmation as well as status updates.
	Installer struct {
		Source              string
		Target              string
		Done                bool
		totalSize           int64
		installedSize       int64
		err                 error
		files               []*File
		statusChannel       chan Status
		abortChannel        chan bool
		abortConfirmChannel chan bool
		doneChannel         chan bool
		actionLock          sync.Mutex
		progressFunction    func(Status)
	}
)

// New creates an Installer that deploys the contents of the source directory
// (as produced by Fetch) into the target directory. The source is scanned up
// front so that size-based checks work before the deployment starts.
func New(source, target string) *Installer {
	i := &Installer{
		Source:              source,
		Target:              target,
		statusChannel:       make(chan Status, 1),
		abortChannel:        make(chan bool, 1),
		abortConfirmChannel: make(chan bool, 1),
		doneChannel:         make(chan bool),
		progressFunction:    func(status Status) {},
	}
	if _, totalSize, err := i.scanSource(); err == nil {
		i.totalSize = totalSize
	}
	return i
}

// StartInstall runs the deployment in a separate goroutine and returns
// immediately. Use Status() to get updates about the progress.
func (i *Installer) StartInstall() { go i.install() }

func (i *Installer) install() {
	defer close(i.doneChannel)
	i.Done = false
	i.err = nil
	files, totalSize, err := i.scanSource()
	if err != nil {
		i.fail(err)
		return
	}
	i.actionLock.Lock()
	defer i.actionLock.Unlock()
	i.files = files
	i.totalSize = totalSize
	for _, file := range i.files {
		select {
		case <-i.abortChannel:
			i.Done = false
			i.abortConfirmChannel <- true
			return
		default:
			status := Status{File: file}
			i.setStatus(status)
			i.progressFunction(status)
			if file.IsDir() {
				os.Mkdir(file.Target, 0755)
			} else {
				if err := copyFile(file.Path, file.Target); err != nil {
					i.fail(classify(err))
					return
				}
				i.installedSize += file.Size()
			}
			file.installed = true
			i.setStatus(Status{File: file})
		}
	}
	i.Done = true
	i.setStatus(Status{Done: true})
}

// scanSource lists the staged files with their eventual target paths.
func (i *Installer) scanSource() (files []*File, totalSize int64, err error) {
	err = filepath.Walk(i.Source, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == i.Source {
			return nil
		}
		relPath, _ := filepath.Rel(i.Source, p)
		files = append(files, &File{info, p, filepath.Join(i.Target, relPath), false})
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	return files, totalSize, err
}

func (i *Installer) fail(err error) {
	log.Printf("Install failed: %s", err)
	i.err = err
	i.Done = true
	i.setStatus(Status{Done: true})
}

// Err returns the error that stopped the deployment, if any.
func (i *Installer) Err() error { return i.err }

// Abort can be called to stop the installer. The installer will usually not
// stop immediately, but finish copying the current file. Once the install
// loop has finished, Abort is a no-op and returns immediately.
//
// Use Rollback() instead of Abort() if you want all files and directories
// rolled back and deleted as well.
func (i *Installer) Abort() {
	select {
	case <-i.doneChannel:
		return
	default:
	}
	i.abortChannel <- true
	select {
	case <-i.abortConfirmChannel:
	case <-i.doneChannel:
		// The loop finished between the send and the confirmation.
	}
}

// Rollback aborts and rolls back (i.e. deletes) the files and directories
// that have been installed so far. It will not delete files that weren't
// written by the installer.
//
// Rollback implicitly calls Abort().
func (i *Installer) Rollback() {
	i.Abort()
	i.actionLock.Lock()
	defer i.actionLock.Unlock()
	// Do not os.RemoveAll(i.Target)! That could easily delete files and
	// folders not created by the installer.
	for p := len(i.files) - 1; p >= 0; p-- {
		if i.files[p].installed {
			err := os.Remove(i.files[p].Target)
			if err != nil {
				log.Printf("Error deleting %s", i.files[p].Target)
			}
			i.files[p].installed = false
			if !i.files[p].IsDir() {
				i.installedSize -= i.files[p].Size()
			}
			i.setStatus(Status{File: i.files[p]})
		}
	}
	i.err = ErrAborted
	i.Done = true
	i.setStatus(Status{Aborted: true})
}

// setStatus is a non-blocking write to the status channel. If no-one is
// listening through Status() then it will simply do nothing and return.
func (i *Installer) setStatus(status Status) {
	select {
	case i.statusChannel <- status:
	case <-time.After(1 * time.Second):
	}
}

// Status returns the current installer status.
func (i *Installer) Status() Status {
	select {
	case status := <-i.statusChannel:
		return status
	case <-time.After(1 * time.Second):
		return Status{}
	}
}

// CheckInstallDir checks that the given directory is a usable install
// target: its parent must exist, be writeable, and have room for the staged
// files.
func (i *Installer) CheckInstallDir(dirName string) error {
	parent := filepath.Dir(dirName)
	parentInfo, err := os.Stat(parent)
	if err != nil || !parentInfo.IsDir() {
		return fmt.Errorf("install parent is not a dir: '%s'", parent)
	}
	if !osFileWriteAccess(parent) {
		return fmt.Errorf("%w: install location is not writeable: '%s'", ErrNeedsElevation, parent)
	}
	if space := osDiskSpace(parent); space >= 0 && space < i.totalSize {
		return fmt.Errorf("not enough disk space in '%s': %d < %d", parent, space, i.totalSize)
	}
	i.Target = dirName
	return nil
}

// NextFile returns the file that the installer will install next, or the one
// that is currently being installed.
func (i *Installer) NextFile() *File {
	for _, file := range i.files {
		if !file.installed {
			return file
		}
	}
	return nil
}

func (i *Installer) SetProgressFunction(function func(Status)) {
	i.progressFunction = function
}

// Progress returns the size ratio between already installed files and all
// files. The result is a float between 0.0 and 1.0, inclusive.
func (i *Installer) Progress() float64 {
	if i.totalSize == 0 {
		return 0
	}
	return float64(i.installedSize) / float64(i.totalSize)
}

// Size returns the bytes that have been copied so far or should be copied in
// total.
func (i *Installer) Size() int64 {
	if i.Done {
		return i.totalSize
	}
	return i.installedSize
}

// SizeString returns a human-readable version of Size(), appending a size
// suffix, as needed.
func (i *Installer) SizeString() string {
	size := i.Size()
	switch {
	case size < KB:
		return fmt.Sprintf("%dB", size)
	case size < MB:
		return fmt.Sprintf("%.2fKB", float64(size)/float64(KB))
	case size < GB:
		return fmt.Sprintf("%.2fMB", float64(size)/float64(MB))
	case size < TB:
		return fmt.Sprintf("%.2fGB", float64(size)/float64(GB))
	default:
		return fmt.Sprintf("%.2fTB", float64(size)/float64(TB))
	}
}

// WaitForDone returns only after the installer has finished installing (or
// rolling back).
func (i *Installer) WaitForDone() {
	for {
		status := <-i.statusChannel
		if status.Done || status.Aborted {
			return
		}
	}
}

// copyFile copies a regular file, preserving its permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
