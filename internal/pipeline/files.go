package pipeline

import (
	"io"
	"os"
)

// Files is the file access the decrypter needs: whole-file reads and an
// output sink.
type Files interface {
	ReadFile(name string) ([]byte, error)
	Create(name string) (io.WriteCloser, error)
}

// OS reads and writes the local filesystem.
type OS struct{}

func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OS) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}
