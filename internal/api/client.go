// Package api implements the archive server's REST client: one request
// wrapper that normalizes auth, CSRF, JSON coding, and status handling,
// plus bindings for the endpoints remora consumes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"remora/internal/httputil"
)

// csrfCookie is the anti-forgery cookie the server expects echoed as a
// header on every mutating request.
const (
	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"

	// startHeader carries the backend process start timestamp. A change
	// between responses means the server restarted under us.
	startHeader = "X-Start-Timestamp"
)

// Result is the uniform outcome of one API request. Exactly one of
// Data and Err is set for a body-carrying response; both are empty for
// a 204.
type Result struct {
	Data   json.RawMessage
	Err    *ErrorBody
	Status int
}

// Client talks to one archive server over cookie-session or token auth.
type Client struct {
	base  *url.URL
	http  *http.Client
	jar   http.CookieJar
	token string

	cookieFile string
	lastStart  string
	onRestart  func(previous, current string)
	onLogout   func()
}

// Options configures a Client beyond its base URL.
type Options struct {
	// Token enables token auth (Authorization: Token ...). When set,
	// cookie login is not required.
	Token string

	// CookieFile persists the session cookies between runs.
	CookieFile string

	// OnRestart is invoked when the server's start timestamp changes
	// between responses. Purely informational: the request that
	// detected it is classified on its own terms.
	OnRestart func(previous, current string)

	// OnLogout is invoked after a 401/403 has discarded the session.
	OnLogout func()
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	if err := httputil.ValidateURL(baseURL); err != nil {
		return nil, fmt.Errorf("server URL: %w", err)
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		base:       base,
		jar:        jar,
		http:       httputil.NewClient(jar),
		token:      opts.Token,
		cookieFile: opts.CookieFile,
		onRestart:  opts.OnRestart,
		onLogout:   opts.OnLogout,
	}

	if c.cookieFile != "" {
		// Missing or stale cookie files are not an error; the user
		// simply is not logged in yet.
		_ = c.loadCookies()
	}

	return c, nil
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ResolveURL turns a server-relative media path into an absolute URL.
func (c *Client) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.base.String() + "/" + strings.TrimLeft(path, "/")
}

// HTTPClient exposes the session-carrying HTTP client for fetching
// media-adjacent files such as subtitle tracks.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Do issues one request against a server-relative path and classifies
// the response:
//
//   - 400 returns a *RequestError built from the body's message.
//   - 401/403 discards the session, fires the logout hook, and returns
//     an error wrapping ErrUnauthorized.
//   - 204 returns an empty Result.
//   - anything else is best-effort JSON; an unparseable body degrades
//     to a soft Result.Err instead of a hard failure.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Result, error) {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", httputil.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	if method != http.MethodGet && method != http.MethodHead {
		if tok := c.csrfToken(); tok != "" {
			req.Header.Set(csrfHeader, tok)
			req.Header.Set("Referer", c.base.String()+"/")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.checkRestart(resp)

	raw, err := httputil.ReadBody(resp)
	if err != nil {
		return Result{Status: resp.StatusCode}, err
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return Result{Status: resp.StatusCode}, &RequestError{
			Status:  resp.StatusCode,
			Message: extractMessage(raw),
		}

	case http.StatusUnauthorized, http.StatusForbidden:
		c.logout()
		return Result{Status: resp.StatusCode}, fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnauthorized)

	case http.StatusNoContent:
		return Result{Status: resp.StatusCode}, nil

	default:
		if !json.Valid(raw) {
			return Result{
				Err:    &ErrorBody{Error: fmt.Sprintf("unparseable response (status %d)", resp.StatusCode)},
				Status: resp.StatusCode,
			}, nil
		}
		return Result{Data: raw, Status: resp.StatusCode}, nil
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (Result, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Result, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (Result, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// csrfToken reads the anti-forgery token from the cookie jar.
func (c *Client) csrfToken() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// checkRestart compares the server start timestamp against the last
// seen one. A mismatch means the backend restarted; the hook lets the
// owner invalidate cached state. Never affects request classification.
func (c *Client) checkRestart(resp *http.Response) {
	cur := resp.Header.Get(startHeader)
	if cur == "" {
		return
	}
	if c.lastStart != "" && c.lastStart != cur && c.onRestart != nil {
		c.onRestart(c.lastStart, cur)
	}
	c.lastStart = cur
}

// logout discards the in-memory and persisted session.
func (c *Client) logout() {
	jar, err := cookiejar.New(nil)
	if err == nil {
		c.jar = jar
		c.http.Jar = jar
	}
	if c.cookieFile != "" {
		c.removeCookies()
	}
	if c.onLogout != nil {
		c.onLogout()
	}
}

// extractMessage pulls the server's message out of a 400 body,
// accepting either a "message" or "error" field.
func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "invalid request"
}
