package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Entry is a management API entry. Fields are keyed by field name and then
// by locale code.
type Entry struct {
	Sys    EntrySys                  `json:"sys"`
	Fields map[string]map[string]any `json:"fields"`
}

// EntrySys is the system metadata of an entry.
type EntrySys struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	Version          int    `json:"version"`
	PublishedVersion int    `json:"publishedVersion,omitempty"`
}

// SetField stores value under field name for locale.
func (e *Entry) SetField(name, locale string, value any) {
	if e.Fields == nil {
		e.Fields = make(map[string]map[string]any)
	}
	byLocale, ok := e.Fields[name]
	if !ok {
		byLocale = make(map[string]any)
		e.Fields[name] = byLocale
	}
	byLocale[locale] = value
}

// ManagementClient edits and publishes entries.
type ManagementClient struct {
	c *client
}

// NewManagementClient creates a management API client. Host defaults to
// DefaultManagementHost.
func NewManagementClient(config ClientConfig) (*ManagementClient, error) {
	c, err := newClient(config, DefaultManagementHost)
	if err != nil {
		return nil, err
	}
	return &ManagementClient{c: c}, nil
}

func entryPath(id string) string {
	return "/entries/" + url.PathEscape(id)
}

// GetEntry fetches the latest draft of an entry.
func (m *ManagementClient) GetEntry(ctx context.Context, id string) (*Entry, error) {
	body, err := m.c.do(ctx, request{method: http.MethodGet, path: entryPath(id)})
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return decodeEntry(body)
}

// UpdateEntry replaces the fields of an entry. The entry's Sys.Version must
// be the version it was read at.
func (m *ManagementClient) UpdateEntry(ctx context.Context, entry *Entry) (*Entry, error) {
	body, err := m.c.do(ctx, request{
		method:  http.MethodPut,
		path:    entryPath(entry.Sys.ID),
		body:    map[string]any{"fields": entry.Fields},
		version: entry.Sys.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("update entry %s: %w", entry.Sys.ID, err)
	}
	return decodeEntry(body)
}

// PublishEntry publishes the entry at its current Sys.Version.
func (m *ManagementClient) PublishEntry(ctx context.Context, entry *Entry) (*Entry, error) {
	body, err := m.c.do(ctx, request{
		method:  http.MethodPut,
		path:    entryPath(entry.Sys.ID) + "/published",
		version: entry.Sys.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("publish entry %s: %w", entry.Sys.ID, err)
	}
	return decodeEntry(body)
}

func decodeEntry(body []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("contentful: parse entry: %w", err)
	}
	return &entry, nil
}
