package writeback

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/microcopy/api"
)

func TestFileSink_WritesLocaleFile(t *testing.T) {
	fs := memfs.New()
	sink := NewFileSink(fs)

	feed := api.Feed{Version: "5", Locale: "de-DE", Content: api.Content{"a": api.Content{"b": "c"}}}
	require.NoError(t, sink.Write(context.Background(), feed))

	raw, err := util.ReadFile(fs, "de-DE.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"5","locale":"de-DE","data":{"a":{"b":"c"}}}`, string(raw))
}

func TestFileSink_ReplacesExisting(t *testing.T) {
	fs := memfs.New()
	sink := NewFileSink(fs)
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, api.Feed{Version: "1", Locale: "en-US", Content: api.Content{"k": "old"}}))
	require.NoError(t, sink.Write(ctx, api.Feed{Version: "2", Locale: "en-US", Content: api.Content{"k": "new"}}))

	raw, err := util.ReadFile(fs, "en-US.json")
	require.NoError(t, err)
	var got api.Feed
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2", got.Version)
	assert.Equal(t, "new", got.Content["k"])
}

func TestFileSink_Errors(t *testing.T) {
	sink := NewFileSink(memfs.New())
	assert.Error(t, sink.Write(context.Background(), api.Feed{Version: "1"}), "missing locale")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Write(ctx, api.Feed{Version: "1", Locale: "en-US"}), context.Canceled)
}

func TestDirSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "feeds")
	sink := NewDirSink(dir)
	assert.Equal(t, "file", sink.Name())

	require.NoError(t, sink.Write(context.Background(), api.Feed{Version: "1", Locale: "en-US", Content: api.Content{}}))

	raw, err := os.ReadFile(filepath.Join(dir, "en-US.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1","locale":"en-US","data":{}}`, string(raw))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "en-US.json", FileName("en-US"))
	assert.Equal(t, "passwd.json", FileName("../../etc/passwd"))
}
