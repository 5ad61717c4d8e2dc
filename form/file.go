package form

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// File is a locally selected file that has not been uploaded yet.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a file on disk.
type LocalFile struct {
	Path string
}

func (f LocalFile) Name() string { return filepath.Base(f.Path) }

func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// MemFile holds the bytes of a file received from a browser form.
type MemFile struct {
	Filename string
	Data     []byte
}

func (f MemFile) Name() string { return f.Filename }

func (f MemFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// The mime package only ships a handful of built-in types; video containers
// depend on the host's mime.types.
var videoExts = map[string]bool{
	".mp4": true, ".m4v": true, ".mov": true, ".webm": true,
	".mkv": true, ".avi": true, ".mpeg": true, ".mpg": true,
}

// MediaKind returns the top-level MIME type guessed from the file name
// ("image", "video", ...), or "" when unknown.
func MediaKind(f File) string {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	if videoExts[ext] {
		return "video"
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	kind, _, _ := strings.Cut(t, "/")
	return kind
}

// FileNames returns the names of files in order.
func FileNames(files []File) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	return names
}
