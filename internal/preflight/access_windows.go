//go:build windows

package preflight

import "os"

// accessible probes write access by creating a temp file; Windows ACLs are
// not reflected in mode bits.
func accessible(path string, write bool) error {
	if !write {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		return f.Close()
	}
	f, err := os.CreateTemp(path, ".steamsyncer-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
