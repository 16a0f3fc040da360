package domain

// Claims are the token payload fields the gateway reads. ExpiresAt is in epoch seconds.
type Claims struct {
	Subject   string `json:"subject"`
	Role      Role   `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// Session is the visitor's authentication state. A nil Claims means the token could not be decoded.
type Session struct {
	Token  string
	Claims *Claims
}

// HasToken reports whether a bearer token is stored.
func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}
