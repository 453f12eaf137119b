//go:build ignore

package sindex

// This whole file is not actually used as go code, it's just scanned by rice
// in the append process, when it's looking for directories from which to
// append data.
import rice "github.com/GeertJohan/go.rice"

func boxes() {
	rice.FindBox("resources")
}
