package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"remora/internal/httputil"
)

// Login performs the cookie login flow: fetch the login page, scrape
// the anti-forgery form field, post the credentials, and persist the
// resulting session cookies.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginURL := c.base.String() + "/login/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("User-Agent", httputil.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching login page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parsing login page: %w", err)
	}

	formToken, ok := doc.Find(`input[name="csrfmiddlewaretoken"]`).First().Attr("value")
	if !ok || formToken == "" {
		return fmt.Errorf("login page has no csrf form field")
	}

	form := url.Values{
		"csrfmiddlewaretoken": {formToken},
		"username":            {username},
		"password":            {password},
	}

	post, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login post: %w", err)
	}
	post.Header.Set("User-Agent", httputil.UserAgent)
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	post.Header.Set("Referer", loginURL)

	postResp, err := c.http.Do(post)
	if err != nil {
		return fmt.Errorf("posting credentials: %w", err)
	}
	defer postResp.Body.Close()

	switch {
	case postResp.StatusCode == http.StatusForbidden, postResp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("login rejected: %w", ErrUnauthorized)
	case postResp.StatusCode >= 500:
		return fmt.Errorf("login failed with status %d", postResp.StatusCode)
	}

	// Django answers a failed login with 200 and the form again; a
	// session cookie is the real success signal.
	if !c.hasSessionCookie() {
		return fmt.Errorf("invalid username or password")
	}

	if err := c.saveCookies(); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// LoggedIn reports whether a session cookie is present.
func (c *Client) LoggedIn() bool {
	return c.token != "" || c.hasSessionCookie()
}

func (c *Client) hasSessionCookie() bool {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == "sessionid" {
			return true
		}
	}
	return false
}
