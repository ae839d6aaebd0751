package api

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

	"github.com/hashicorp/go-hclog"
)

// Content types understood by the Lakeport API. Identity endpoints require
// the SCIM flavor.
const (
	ContentTypeJSON = "application/json"
	ContentTypeSCIM = "application/scim+json"
)

// Client dispatches requests against the Lakeport REST API. It performs
// exactly one network round trip per call and never retries; see the retry
// package for an opt-in wrapper. A Client is immutable after construction and
// safe for concurrent use.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	log        hclog.Logger
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	return &Client{
		cfg:        cfg,
		httpClient: cfg.NewHTTPClient(),
		log:        cfg.logger().Named("lakeport-api"),
	}, nil
}

// AccountID exposes the configured account scope to service packages.
func (c *Client) AccountID() string {
	return c.cfg.AccountID
}

// CallOption adjusts a single dispatch.
type CallOption func(*callOptions)

type callOptions struct {
	op          string
	contentType string
}

// WithContentType overrides the request content type for methods that carry a
// body. The default is ContentTypeJSON.
func WithContentType(ct string) CallOption {
	return func(o *callOptions) { o.contentType = ct }
}

// WithOp names the logical operation (e.g. "clusters.Get") in errors and
// logs. Without it, errors are named by method and path.
func WithOp(op string) CallOption {
	return func(o *callOptions) { o.op = op }
}

// Call resolves ep against the configured host and API version and dispatches
// payload through Do.
func (c *Client) Call(ctx context.Context, ep Endpoint, payload Payload, opts ...CallOption) (Envelope, error) {
	version := ep.Version
	if version == "" {
		version = c.cfg.APIVersion
	}
	path := fmt.Sprintf("/api/%s/%s", version, strings.TrimPrefix(ep.Path, "/"))
	return c.Do(ctx, ep.Method, path, payload, opts...)
}

// Do performs one HTTP request and normalizes the outcome. GET and DELETE
// serialize the payload as query parameters; POST, PUT and PATCH as a JSON
// body. A 2xx response yields the parsed Envelope; a non-2xx response yields
// an *Error wrapping ErrAPIResponse with the server message verbatim; no
// response at all yields an *Error wrapping ErrTransport.
func (c *Client) Do(ctx context.Context, method, path string, payload Payload, opts ...CallOption) (Envelope, error) {
	options := callOptions{contentType: ContentTypeJSON}
	for _, opt := range opts {
		opt(&options)
	}

	endpoint := method + " " + path
	op := options.op
	if op == "" {
		op = endpoint
	}

	req, err := c.newRequest(ctx, method, path, payload, options.contentType)
	if err != nil {
		return nil, &Error{Op: op, Endpoint: endpoint, Kind: ErrTransport, Msg: "failed to build request", Err: err}
	}

	c.log.Debug("dispatching request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Endpoint: endpoint, Kind: ErrTransport, Msg: "no response from host", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Endpoint: endpoint, Kind: ErrTransport, Msg: "failed to read response", Err: err}
	}

	c.log.Debug("received response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(op, endpoint, resp.StatusCode, respBody)
	}

	envelope := Envelope{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return nil, &Error{Op: op, Endpoint: endpoint, Kind: ErrTransport, Msg: "malformed response body", Err: err}
		}
	}

	return envelope, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload Payload, contentType string) (*http.Request, error) {
	endpoint := strings.TrimSuffix(c.cfg.Host, "/") + path

	var bodyReader io.Reader
	hasBody := false

	switch method {
	case http.MethodGet, http.MethodDelete:
		if len(payload) > 0 {
			q := url.Values{}
			for k, v := range payload {
				q.Set(k, queryValue(v))
			}
			endpoint += "?" + q.Encode()
		}
	default:
		if payload != nil {
			bodyBytes, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(bodyBytes)
			hasBody = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", ContentTypeJSON)
	req.Header.Set("User-Agent", c.cfg.userAgent())
	if hasBody {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

// apiError shapes a non-2xx response. The server error body is expected as
// {"error_code": "...", "message": "..."}; bodies that don't parse are passed
// through raw.
func (c *Client) apiError(op, endpoint string, status int, body []byte) *Error {
	apiErr := &Error{
		Op:         op,
		Endpoint:   endpoint,
		StatusCode: status,
		Kind:       ErrAPIResponse,
	}

	var serverErr struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(body, &serverErr); err == nil {
		apiErr.ErrorCode = serverErr.ErrorCode
		switch {
		case serverErr.Message != "":
			apiErr.Msg = serverErr.Message
		case serverErr.Error != "":
			apiErr.Msg = serverErr.Error
		}
	}
	if apiErr.Msg == "" {
		apiErr.Msg = strings.TrimSpace(string(body))
	}

	return apiErr
}

func queryValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	// Structured values (slices, maps) are rare in query position; encode
	// them as JSON the way the API expects.
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
