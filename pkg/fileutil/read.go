package fileutil

import (
	"io"
	"os"

	"github.com/openhands/skillctl/internal/errors"
)

// MaxFileSize caps how much of a registry document is read (1MB). A
// frontmatter file past this size is malformed or hostile.
const MaxFileSize = 1 << 20

// ErrFileTooLarge reports a file over MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads path, refusing files larger than MaxFileSize.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Cheap reject on the stat size; the limited read below still
	// guards against files growing between stat and read.
	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
