package writeback

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/agentic-research/microcopy/api"
)

// FileSink writes each feed to <locale>.json in a filesystem.
type FileSink struct {
	fs billy.Filesystem
}

// NewFileSink returns a sink writing into fs.
func NewFileSink(fs billy.Filesystem) *FileSink {
	return &FileSink{fs: fs}
}

// NewDirSink returns a sink writing into the directory dir, which is
// created on first write.
func NewDirSink(dir string) *FileSink {
	return NewFileSink(osfs.New(dir))
}

func (s *FileSink) Name() string { return "file" }

// FileName is the name a locale's feed is stored under.
func FileName(locale string) string {
	return path.Base(locale) + ".json"
}

func (s *FileSink) Write(ctx context.Context, feed api.Feed) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if feed.Locale == "" {
		return fmt.Errorf("feed has no locale")
	}

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	data = append(data, '\n')

	return s.replace(FileName(feed.Locale), data)
}

// replace writes data to a temp file and renames it over name, so readers
// never see a partial feed.
func (s *FileSink) replace(name string, data []byte) error {
	tmp, err := s.fs.TempFile(".", ".microcopy-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", name, err)
	}
	return nil
}
