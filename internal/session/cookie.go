package session

import (
	"github.com/gorilla/securecookie"
)

// CookieCodec signs (and optionally encrypts) the session ID carried in the visitor cookie.
type CookieCodec struct {
	name         string
	secureCookie *securecookie.SecureCookie
}

// NewCookieCodec builds a codec. blockKey may be nil to sign without encrypting.
func NewCookieCodec(name string, hashKey, blockKey []byte) *CookieCodec {
	return &CookieCodec{
		name:         name,
		secureCookie: securecookie.New(hashKey, blockKey),
	}
}

// Name returns the cookie name.
func (c *CookieCodec) Name() string {
	return c.name
}

// Encode produces the cookie value for a session ID.
func (c *CookieCodec) Encode(id string) (string, error) {
	return c.secureCookie.Encode(c.name, id)
}

// Decode returns the session ID, or false when the value is missing, tampered with or expired.
func (c *CookieCodec) Decode(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	var id string
	if err := c.secureCookie.Decode(c.name, value, &id); err != nil {
		return "", false
	}
	return id, id != ""
}
