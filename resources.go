package sindex

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	rice "github.com/GeertJohan/go.rice"
)

var resourceBox *rice.Box

// openBox opens the bundled resources box. For go.rice's 'append' mode to
// work, the call to FindBox() has to be with a literal string parameter.
func openBox() {
	if resourceBox != nil {
		return
	}
	var err error
	resourceBox, err = rice.FindBox("resources")
	if err != nil {
		panic(err)
	}
}

// GetResource returns the contents of a single bundled resource file.
func GetResource(name string) (string, error) {
	openBox()
	text, err := resourceBox.String(name)
	if err != nil {
		return "", fmt.Errorf("resource %s not found", name)
	}
	return text, nil
}

// MustGetResource is GetResource, panicking on missing files. Use only for
// resources that are bundled unconditionally.
func MustGetResource(name string) string {
	text, err := GetResource(name)
	if err != nil {
		panic(err)
	}
	return text
}

// GetResourceFiltered returns the contents of all files under a bundled
// resource directory whose paths match the given filter, keyed by path.
func GetResourceFiltered(dir string, filter *regexp.Regexp) (map[string]string, error) {
	openBox()
	files := make(map[string]string)
	err := resourceBox.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dir || info.IsDir() {
			return nil
		}
		if filter.FindStringIndex(filepath.ToSlash(path)) == nil {
			return nil
		}
		content, err := resourceBox.String(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(path)] = content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource dir %s not found", dir)
	}
	return files, nil
}

// MustGetResourceFiltered is GetResourceFiltered, panicking on a missing
// directory.
func MustGetResourceFiltered(dir string, filter *regexp.Regexp) map[string]string {
	files, err := GetResourceFiltered(dir, filter)
	if err != nil {
		panic(err)
	}
	return files
}
