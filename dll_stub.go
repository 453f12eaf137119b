//go:build !windows

package sindex

// The SINDEX library ships as a Windows DLL only. The install subpackage
// still works from other platforms (e.g. staging the DLL onto a share), but
// calculations need a Windows host.
func loadProcs(path string) (*procs, error) {
	return nil, ErrUnavailable
}
