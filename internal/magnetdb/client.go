package magnetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL    = "http://127.0.0.1:8000"
	defaultUserAgent = "magnetcli/0.1"
	defaultTimeout   = 30 * time.Second
)

// Options tunes a Client. The zero value is usable.
type Options struct {
	// Token is sent as a bearer token when set.
	Token     string
	Timeout   time.Duration
	UserAgent string
	Logger    log.Interface

	// HTTPClient replaces the underlying transport client, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to the MagnetDB HTTP API. Each resource is reached through its
// service: Magnets, Parts, Sites and MeshAttachments.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
	logger  log.Interface

	Magnets         *MagnetService
	Parts           *PartService
	Sites           *SiteService
	MeshAttachments *MeshAttachmentService
}

// NewClient builds a Client for the API rooted at apiURL. A bare host:port is
// treated as plain http.
func NewClient(apiURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Log
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	rc.SetBaseURL(base.String()).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if token := strings.TrimSpace(opts.Token); token != "" {
		rc.SetAuthToken(token)
	}

	c := &Client{baseURL: base, http: rc, logger: logger}
	rc.OnAfterResponse(c.logResponse)

	c.Magnets = &MagnetService{client: c}
	c.Parts = &PartService{client: c}
	c.Sites = &SiteService{client: c}
	c.MeshAttachments = &MeshAttachmentService{client: c}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// request describes one API call. Paths use resty's {name} placeholders.
type request struct {
	method     string
	path       string
	pathParams map[string]string
	query      url.Values
	form       []*resty.MultipartField
	multipart  bool
}

func (c *Client) do(ctx context.Context, op string, req request, dest any) error {
	resp, err := c.execute(ctx, op, req)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) execute(ctx context.Context, op string, req request) (*resty.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("%s: client is nil", op)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := c.http.R().SetContext(ctx)
	if len(req.pathParams) > 0 {
		r.SetPathParams(req.pathParams)
	}
	if len(req.query) > 0 {
		r.SetQueryParamsFromValues(req.query)
	}
	if req.multipart {
		r.SetMultipartFields(req.form...)
	}

	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		return nil, fmt.Errorf("%s: execute request: %w", op, err)
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return resp, nil
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	fields := log.Fields{
		"method":   resp.Request.Method,
		"status":   resp.StatusCode(),
		"duration": resp.Time().Round(time.Millisecond),
	}
	if raw := resp.Request.RawRequest; raw != nil {
		fields["url"] = raw.URL.String()
	}
	c.logger.WithFields(fields).Debug("api request")
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// idRequest builds a body-less call against a path holding a single {id}.
func idRequest(method, path string, id int64) request {
	return request{
		method:     method,
		path:       path,
		pathParams: map[string]string{"id": idParam(id)},
	}
}

func idParam(id int64) string {
	return strconv.FormatInt(id, 10)
}
