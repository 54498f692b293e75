// Package chat exposes login link issuance as a chat command.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/layer-3/urllogin/core"
	"github.com/layer-3/urllogin/service"
)

// CommandName is what users type to ask for a link
const CommandName = "request-login-link"

// DirectOnlyReply is sent when the command is used outside a direct message
const DirectOnlyReply = "Please use this command in a direct message."

// FailureReply is sent when no link could be issued
const FailureReply = "Could not create a login link, please try again."

// Issuer issues login links
type Issuer interface {
	IssueLink(ctx context.Context, req service.IssueRequest) (core.Link, error)
}

// Invocation is one use of the command by an authenticated chat user
type Invocation struct {
	User   core.Identity `json:"user"`
	Direct bool          `json:"direct"`
	Args   string        `json:"args"` // Optional redirect path
}

// RequestLoginLink replies with a one-time console login link
type RequestLoginLink struct {
	issuer Issuer
}

// NewRequestLoginLink creates the command
func NewRequestLoginLink(issuer Issuer) *RequestLoginLink {
	return &RequestLoginLink{issuer: issuer}
}

// Run issues a link and returns the text to send back to the user
func (c *RequestLoginLink) Run(ctx context.Context, inv Invocation) (string, error) {
	link, err := c.issuer.IssueLink(ctx, service.IssueRequest{
		Identity: inv.User,
		Redirect: strings.TrimSpace(inv.Args),
		Direct:   inv.Direct,
	})
	switch {
	case errors.Is(err, core.ErrDirectOnly):
		return DirectOnlyReply, nil
	case errors.Is(err, core.ErrCodeGeneration):
		return FailureReply, nil
	case err != nil:
		return "", err
	}

	return link.Warning + "\n" + link.URL, nil
}
