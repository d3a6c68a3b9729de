package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

type httpRequest struct {
	req *http.Request
}

func (r *httpRequest) SetHeader(key, value string) {
	r.req.Header.Set(key, value)
}

func (r *httpRequest) URL() string {
	return r.req.URL.String()
}

var ErrInvalidCreds = errors.New("invalid credentials")

const DEFAULT_USER_AGENT = "envform"

type HTTPClient struct {
	token     string
	userAgent string
	http      *http.Client
	BaseURL   string
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(hc *HTTPClient) {
		if c != nil {
			hc.http = c
		}
	}
}

// WithTimeout bounds every request, zero keeps the client default.
func WithTimeout(timeout time.Duration) Option {
	return func(hc *HTTPClient) {
		if timeout > 0 {
			c := *hc.http
			c.Timeout = timeout
			hc.http = &c
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(hc *HTTPClient) {
		if ua != "" {
			hc.userAgent = ua
		}
	}
}

func newHTTPClient(baseURL, token string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		token:     token,
		userAgent: DEFAULT_USER_AGENT,
		http:      &http.Client{},
		BaseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

func NewHTTPClient(baseURL, token string, opts ...Option) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("base url must not be empty")
	}

	if token == "" {
		return nil, errors.Wrap(ErrInvalidCreds, "token must not be empty")
	}

	return newHTTPClient(baseURL, token, opts...), nil
}

// SignIn exchanges an email and password for a token.
func SignIn(ctx context.Context, baseURL, email, password string, opts ...Option) (*HTTPClient, error) {
	c := newHTTPClient(baseURL, "", opts...)
	url := fmt.Sprintf("%s/v1/auth/signin", c.BaseURL)

	data, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, errors.Wrap(err, "fail to encode auth payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "fail to create http request to cloud backend")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fail to perform http request to cloud backend")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			return nil, errors.Wrapf(ErrInvalidCreds, "status code %d", res.StatusCode)
		}

		return nil, errors.Errorf("HTTP request to %s failed with status code %d", url, res.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	err = json.NewDecoder(res.Body).Decode(&body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to decode auth JSON response")
	}

	c.token = body.Token
	return c, nil
}

func (c *HTTPClient) NewRequest(ctx context.Context, method, path string, body io.Reader) (*httpRequest, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return &httpRequest{req}, nil
}

func (c *HTTPClient) Do(req *httpRequest) (*http.Response, error) {
	hclog.FromContext(req.req.Context()).Debug("Sending request to cloud", "method", req.req.Method, "url", req.URL())

	return c.http.Do(req.req)
}

// ResponseError turns a non successful response into an error, status
// codes that denote bad credentials wrap ErrInvalidCreds. The body is
// consumed.
func ResponseError(url string, res *http.Response) error {
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return errors.Wrapf(ErrInvalidCreds, "HTTP request to %s failed with status code %d", url, res.StatusCode)
	}

	msg := errorMessage(res.Body)
	if msg == "" {
		return errors.Errorf("HTTP request to %s failed with status code %d", url, res.StatusCode)
	}

	return errors.Errorf("HTTP request to %s failed with status code %d: %s", url, res.StatusCode, msg)
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		return payload.Message
	}

	return strings.TrimSpace(string(raw))
}
