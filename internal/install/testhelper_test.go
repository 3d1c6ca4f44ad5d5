package install

import (
	"os"
	"path/filepath"
)

// faultSystem injects deterministic errors into the installer System without
// chmod-based permission tricks.
type faultSystem struct {
	base      System
	statErrs  map[string]error
	readErrs  map[string]error
	mkdirErrs map[string]error
	writeErrs map[string]error
	writes    []string
}

func newFaultSystem(base System) *faultSystem {
	return &faultSystem{
		base:      base,
		statErrs:  map[string]error{},
		readErrs:  map[string]error{},
		mkdirErrs: map[string]error{},
		writeErrs: map[string]error{},
	}
}

func normalizePath(path string) string {
	return filepath.Clean(path)
}

func (f *faultSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := f.statErrs[normalizePath(name)]; ok {
		return nil, err
	}
	return f.base.Stat(name)
}

func (f *faultSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := f.readErrs[normalizePath(name)]; ok {
		return nil, err
	}
	return f.base.ReadFile(name)
}

func (f *faultSystem) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := f.mkdirErrs[normalizePath(path)]; ok {
		return err
	}
	return f.base.MkdirAll(path, perm)
}

func (f *faultSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	if err, ok := f.writeErrs[normalizePath(filename)]; ok {
		return err
	}
	f.writes = append(f.writes, normalizePath(filename))
	return f.base.WriteFileAtomic(filename, data, perm)
}
