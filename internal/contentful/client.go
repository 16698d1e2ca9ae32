// Package contentful talks to the content backend: the delivery API the
// entry graph is read from and the management API the compiled feed is
// written back through.
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Default hosts.
const (
	DefaultDeliveryHost   = "cdn.contentful.com"
	DefaultManagementHost = "api.contentful.com"
	DefaultEnvironment    = "master"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

// ClientConfig holds configuration for creating a client.
type ClientConfig struct {
	// Host is the API host, e.g. "cdn.contentful.com". A value with a scheme
	// ("http://127.0.0.1:8080") is used as the base URL verbatim.
	Host string
	// Space is the space identifier.
	Space string
	// Environment defaults to DefaultEnvironment.
	Environment string
	// Token is sent as a bearer token on every request.
	Token string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, logging is disabled.
	Logger *zap.Logger
}

// client is the transport shared by the delivery and management clients.
type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func newClient(config ClientConfig, defaultHost string) (*client, error) {
	if config.Space == "" {
		return nil, fmt.Errorf("contentful: space is required")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("contentful: access token is required")
	}

	host := config.Host
	if host == "" {
		host = defaultHost
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	if _, err := url.Parse(host); err != nil {
		return nil, fmt.Errorf("contentful: invalid host %q: %w", config.Host, err)
	}

	environment := config.Environment
	if environment == "" {
		environment = DefaultEnvironment
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimRight(host, "/") +
		"/spaces/" + url.PathEscape(config.Space) +
		"/environments/" + url.PathEscape(environment)

	return &client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// request describes one API call relative to the environment base URL.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	version int // sent as X-Contentful-Version when > 0
}

func (c *client) do(ctx context.Context, r request) ([]byte, error) {
	requestURL := c.baseURL + r.path
	if len(r.query) > 0 {
		requestURL += "?" + r.query.Encode()
	}

	var bodyReader io.Reader
	if r.body != nil {
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("contentful: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("contentful: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/vnd.contentful.management.v1+json")
	}
	if r.version > 0 {
		req.Header.Set("X-Contentful-Version", strconv.Itoa(r.version))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contentful: %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("contentful: read response body: %w", err)
	}

	c.logger.Debug("contentful request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, parseAPIError(resp.StatusCode, body)
}
