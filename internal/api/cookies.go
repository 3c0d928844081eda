package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// persistedCookie is the on-disk shape of one session cookie. Only the
// fields the jar round-trips are kept.
type persistedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// saveCookies writes the current session cookies for the server to the
// configured cookie file with owner-only permissions.
func (c *Client) saveCookies() error {
	if c.cookieFile == "" {
		return nil
	}

	var out []persistedCookie
	for _, ck := range c.jar.Cookies(c.base) {
		out = append(out, persistedCookie{Name: ck.Name, Value: ck.Value})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cookies: %w", err)
	}

	dir := filepath.Dir(c.cookieFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating cookie dir: %w", err)
	}

	// Atomic write: temp file + rename.
	tmp, err := os.CreateTemp(dir, "cookies-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing cookies: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting cookie file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.cookieFile); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming cookie file: %w", err)
	}
	return nil
}

// loadCookies restores persisted session cookies into the jar.
func (c *Client) loadCookies() error {
	data, err := os.ReadFile(c.cookieFile)
	if err != nil {
		return err
	}

	var in []persistedCookie
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing cookie file: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(in))
	for _, ck := range in {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	c.jar.SetCookies(c.base, cookies)
	return nil
}

// removeCookies deletes the persisted session.
func (c *Client) removeCookies() {
	_ = os.Remove(c.cookieFile)
}
