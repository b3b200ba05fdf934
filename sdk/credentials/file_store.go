package credentials

import (
	"io/ioutil"
	"os"
	"path"

	"github.com/pkg/errors"
)

// FileStore is the durable backend: one file per key under a dedicated
// directory, typically ~/.notaris/credentials. Every write is additionally
// mirrored into a cookie backend so that the two representations named by the
// storage contract stay in step; reads prefer the file and fall back to the
// cookie.
type FileStore struct {
	dir     string
	cookies *CookieStore
}

// NewFileStore returns a Store rooted at the given directory, mirroring writes
// into the given cookie backend. The directory is created if absent.
func NewFileStore(dir string, cookies *CookieStore) (*FileStore, error) {
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(
				err,
				"error checking for existence of credentials dir at %s",
				dir,
			)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrapf(
				err,
				"error creating credentials dir at %s",
				dir,
			)
		}
	}
	return &FileStore{
		dir:     dir,
		cookies: cookies,
	}, nil
}

func (f *FileStore) Set(key, value string) error {
	if err := ioutil.WriteFile(
		f.keyPath(key),
		[]byte(value),
		0600,
	); err != nil {
		return errors.Wrapf(err, "error writing credential %q", key)
	}
	return f.cookies.Set(key, value)
}

func (f *FileStore) Get(key string) (string, bool, error) {
	valueBytes, err := ioutil.ReadFile(f.keyPath(key))
	if err == nil {
		return string(valueBytes), true, nil
	}
	if !os.IsNotExist(err) {
		return "", false, errors.Wrapf(err, "error reading credential %q", key)
	}
	return f.cookies.Get(key)
}

func (f *FileStore) Remove(key string) error {
	if err := os.Remove(f.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "error removing credential %q", key)
	}
	return f.cookies.Remove(key)
}

func (f *FileStore) Clear() error {
	entries, err := ioutil.ReadDir(f.dir)
	if err != nil {
		return errors.Wrapf(err, "error listing credentials dir at %s", f.dir)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(path.Join(f.dir, entry.Name())); err != nil {
			return errors.Wrapf(
				err,
				"error removing credential file %q",
				entry.Name(),
			)
		}
	}
	return f.cookies.Clear()
}

func (f *FileStore) keyPath(key string) string {
	return path.Join(f.dir, key)
}
