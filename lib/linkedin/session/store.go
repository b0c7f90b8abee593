package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Cookie is the persisted form of a browser cookie. a run reuses the
// previous run's session this way instead of logging in again.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"http_only"`
}

// Store reads and writes the cookie file. a missing file is not an
// error, it just means the first run has to establish a session.
type Store struct {
	Path string
}

func (s Store) Load() ([]Cookie, error) {
	raw, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}
	var cookies []Cookie
	err = json.Unmarshal(raw, &cookies)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}
	return cookies, nil
}

func (s Store) Save(cookies []Cookie) error {
	raw, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	// cookies carry the session, keep them out of other users' reach
	return os.WriteFile(s.Path, raw, 0o600)
}

func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}
