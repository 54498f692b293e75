package core

import (
	"bytes"
	"encoding/json"
	"time"
)

// Identity is the snapshot of a chat user taken when a login link is issued
type Identity struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Authority int             `json:"authority"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Clone returns a deep copy so later changes to the account do not leak into pending offers
func (i Identity) Clone() Identity {
	c := i
	if i.Config != nil {
		c.Config = json.RawMessage(bytes.Clone(i.Config))
	}
	return c
}

// PendingLogin is an outstanding, unredeemed login offer
type PendingLogin struct {
	Code     string    // One-time code carried in the link
	Identity Identity  // Identity the code logs in as
	IssuedAt time.Time // When the code was issued
}

// Expired reports whether the offer is past its timeout at now.
// An offer exactly timeout old is still valid.
func (p PendingLogin) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.IssuedAt) > timeout
}

// Link is an issued login URL
type Link struct {
	URL     string
	Code    string
	Warning string
}

// Binding associates an account with its identity on an external platform
type Binding struct {
	Platform string `json:"platform"`
	PID      string `json:"pid"`
}

// Session represents an authenticated console session
type Session struct {
	ID            string    // Unique session identifier
	UserID        int64     // Account the session belongs to
	Name          string    // Display name at login time
	Authority     int       // Permission level at login time
	IssuedAt      time.Time // When the session was created
	RefreshExpiry time.Time // When the refresh capability expires
	AccessExpiry  time.Time // When the access capability expires
	RefreshID     string    // Unique identifier for the refresh token
}

// Tokens is the credential pair handed to a console client
type Tokens struct {
	SessionID    string
	AccessToken  string
	RefreshToken string
}
