package fs

import "os"

// Stat returns a FileInfo structure describing the named file.
// If there is an error, it will be of type *PathError.
func Stat(name string) (os.FileInfo, error) {
	return os.Stat(fixpath(name))
}

// MkdirAll creates a directory named path, along with any necessary parents,
// and returns nil, or else returns an error. The permission bits perm are used
// for all directories that MkdirAll creates. If path is already a directory,
// MkdirAll does nothing and returns nil.
func MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(fixpath(path), perm)
}

// Mkdir creates a new directory with the specified name and permission bits.
// An already existing directory is not an error.
func Mkdir(name string, perm os.FileMode) error {
	err := os.Mkdir(fixpath(name), perm)
	if err != nil && os.IsExist(err) {
		fi, serr := os.Stat(fixpath(name))
		if serr == nil && fi.IsDir() {
			return nil
		}
	}
	return err
}

// ReadFile reads the named file and returns the contents.
func ReadFile(name string) ([]byte, error) {
	return os.ReadFile(fixpath(name))
}

// WriteFile writes data to the named file, creating it if necessary and
// truncating it otherwise. The write is not atomic.
func WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(fixpath(name), data, perm)
}

// ReadDir reads the named directory, returning all its directory entries
// sorted by filename.
func ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(fixpath(name))
}

// RemoveAll removes path and any children it contains.
// It removes everything it can but returns the first error
// it encounters.  If the path does not exist, RemoveAll
// returns nil (no error).
func RemoveAll(path string) error {
	return os.RemoveAll(fixpath(path))
}

// RemoveIfExists removes a file, returning no error if it does not exist.
func RemoveIfExists(filename string) error {
	err := os.Remove(fixpath(filename))
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return err
}
