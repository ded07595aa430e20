// Package storage holds the uploaded video blobs on local disk, one file per
// session id. Blobs are opaque: nothing here decodes or transcodes video.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// MaxBlobSize is the upload ceiling. Streams larger than this are rejected
// before they are fully written out.
const MaxBlobSize = 500 << 20 // 500 MiB

const defaultExt = ".webm"

var (
	ErrTooLarge = errors.New("blob exceeds maximum size")
	ErrNotFound = errors.New("blob not found")
)

// DiskStore writes blobs under a single base directory. The derived name is
// deterministic per session id, so a re-upload with the same id overwrites.
type DiskStore struct {
	baseDir string
	maxSize int64
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir, maxSize: MaxBlobSize}, nil
}

// Put stores the stream as <id><ext>. The extension is taken from the
// client's filename when it has one, otherwise sniffed from the leading bytes,
// otherwise ".webm". A partial file left by an oversized stream is removed.
func (s *DiskStore) Put(id string, r io.Reader, originalName string) (string, int64, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", 0, fmt.Errorf("read upload stream: %w", err)
	}
	head = head[:n]

	ext := filepath.Ext(originalName)
	if ext == "" {
		if mt := mimetype.Detect(head); mt.Extension() != "" {
			ext = mt.Extension()
		} else {
			ext = defaultExt
		}
	}

	path := filepath.Join(s.baseDir, id+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create blob file: %w", err)
	}

	if _, err := f.Write(head); err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	// Copy one byte past the cap so an oversized stream is detectable without
	// buffering it fully.
	copied, err := io.Copy(f, io.LimitReader(r, s.maxSize-int64(len(head))+1))
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	size := int64(len(head)) + copied
	if size > s.maxSize {
		f.Close()
		os.Remove(path)
		return "", 0, ErrTooLarge
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("close blob file: %w", err)
	}
	return path, size, nil
}

// Open returns the blob stream, its size and content type. A record can
// outlive its file (external cleanup), so a missing path is ErrNotFound, not
// an internal error.
func (s *DiskStore) Open(path string) (io.ReadSeekCloser, int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, "", ErrNotFound
		}
		return nil, 0, "", fmt.Errorf("open blob: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, "", fmt.Errorf("stat blob: %w", err)
	}

	contentType := "video/webm"
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}
	return f, st.Size(), contentType, nil
}

// Remove deletes the blob. A missing file counts as already deleted.
func (s *DiskStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
