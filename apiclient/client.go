package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/types"

	"github.com/sirupsen/logrus"
)

const maxBodySize = 5 * 1024 * 1024

// Client is the single chokepoint for calls to the learning-assistant backend.
// It never retries; callers decide what to do with a failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
	token      func() string
}

type Option func(*Client)

// WithHTTPClient replaces the default logging client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAccessToken sends "Authorization: Bearer <token()>" on every call
// where token returns a non-empty value.
func WithAccessToken(token func() string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     config.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(nil, c.log)
	}
	if c.token != nil {
		wrapped := *c.httpClient
		wrapped.Transport = chain(c.httpClient.Transport, withBearer(c.token))
		c.httpClient = &wrapped
	}
	return c
}

// reply is a response body parsed according to its content type.
type reply struct {
	status int
	isJSON bool
	body   []byte
}

func (r reply) text() string {
	return strings.TrimSpace(string(r.body))
}

func (c *Client) endpointURL(endpoint string) (string, error) {
	if c.baseURL == "" {
		return "", types.NewValidationError("API base URL not configured (API_BASE_URL).")
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", types.NewValidationError("invalid API base URL %q: %v", c.baseURL, err)
	}
	base.Path = path.Join(base.Path, endpoint)
	return base.String(), nil
}

// post sends payload as JSON and returns the successful reply. Non-2xx
// statuses become *types.RequestFailed, transport failures *types.NetworkError.
func (c *Client) post(ctx context.Context, endpoint string, payload any) (reply, error) {
	target, err := c.endpointURL(endpoint)
	if err != nil {
		return reply{}, err
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return reply{}, fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(buf))
	if err != nil {
		return reply{}, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reply{}, &types.NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return reply{}, &types.NetworkError{Endpoint: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	r := reply{
		status: resp.StatusCode,
		isJSON: isJSONContentType(resp.Header.Get("Content-Type")),
		body:   body,
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return reply{}, &types.RequestFailed{Status: resp.StatusCode, Message: errorMessage(r)}
	}
	return r, nil
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// errorMessage prefers the JSON detail string, then the text body, then a
// synthesized message. A body that claims JSON but fails to parse is treated
// as text so the status is never masked.
func errorMessage(r reply) string {
	if r.isJSON {
		var parsed struct {
			Detail any `json:"detail"`
		}
		if err := json.Unmarshal(r.body, &parsed); err == nil {
			if detail, ok := parsed.Detail.(string); ok && strings.TrimSpace(detail) != "" {
				return strings.TrimSpace(detail)
			}
			return fallbackMessage(r.status)
		}
	}
	if text := r.text(); text != "" {
		return text
	}
	return fallbackMessage(r.status)
}

func fallbackMessage(status int) string {
	return fmt.Sprintf("Request failed (%d).", status)
}

// decode unmarshals a JSON success body into out.
func decode(endpoint string, r reply, out any) error {
	if !r.isJSON {
		return &types.InvalidResponse{Endpoint: endpoint, Reason: "expected a JSON body"}
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return &types.InvalidResponse{Endpoint: endpoint, Reason: err.Error()}
	}
	return nil
}

func missing(endpoint, field string) error {
	return &types.InvalidResponse{Endpoint: endpoint, Reason: fmt.Sprintf("missing %q", field)}
}
