package led

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
)

type writeRec struct {
	path string
	data string
}

// fakeFS records writes in order and serves reads from files. failOn maps a
// control-file base name to the error its writes and reads return.
type fakeFS struct {
	mu     sync.Mutex
	files  map[string]string
	writes []writeRec
	reads  []string
	failOn map[string]error
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:  map[string]string{},
		failOn: map[string]error{},
	}
}

func (f *fakeFS) ReadAll(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads = append(f.reads, path)
	if err, ok := f.failOn[filepath.Base(path)]; ok {
		return "", err
	}
	if s, ok := f.files[path]; ok {
		return s, nil
	}
	return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

func (f *fakeFS) WriteAll(path string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failOn[filepath.Base(path)]; ok {
		return err
	}
	f.writes = append(f.writes, writeRec{path: path, data: string(content)})
	f.files[path] = string(content)
	return nil
}

func (f *fakeFS) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.writes))
	for i, w := range f.writes {
		out[i] = fmt.Sprintf("%s=%s", filepath.Base(w.path), w.data)
	}
	return out
}
