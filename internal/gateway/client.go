// Package gateway wraps the crossing API's request/response exchanges and
// folds every outcome into one typed failure taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"railcross/internal/logger"
)

// Category classifies why a gateway call did not succeed.
type Category int

const (
	// CategoryValidation: input rejected before any network I/O.
	CategoryValidation Category = iota
	// CategoryUnauthorized: an explicit 401-class denial. Escalates globally.
	CategoryUnauthorized
	// CategoryRejected: any other non-2xx response, with a remote message.
	CategoryRejected
	// CategoryUnreachable: no response received at all. Distinct from a
	// denial and never conflated with one.
	CategoryUnreachable
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryRejected:
		return "rejected"
	case CategoryUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Failure is the typed outcome of a call that did not succeed.
type Failure struct {
	Category Category
	Status   int    // HTTP status, when a response was received
	Message  string // remote-supplied text, when present
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("%s: %s", f.Category, f.Message)
	}
	return f.Category.String()
}

// AsFailure unwraps err into a *Failure if it carries one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// TokenSource supplies the raw session token for authorized calls.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the HTTP plumbing shared by every gateway.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *logger.Logger
}

// NewClient builds a client for the API at baseURL. timeout=0 means no
// per-call deadline: a call that never resolves leaves its one tick inert.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// OnUnauthorized registers the global escalation run for any 401, whichever
// gateway received it. The hook must clear the session before it issues the
// redirect so the access check on re-entry observes the cleared state.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// do performs one JSON exchange. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		token, ok := c.tokens.Token()
		if !ok {
			return &Failure{Category: CategoryUnauthorized, Message: "no active session"}
		}
		// The API expects the raw token, not a Bearer scheme.
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Failure{Category: CategoryUnreachable, Message: "server connection failed"}
	}
	defer resp.Body.Close()

	// Only a denial of an authorized call means the session went bad; a 401
	// on login is an ordinary rejection with a message to show inline.
	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.log.Warnw("gateway_unauthorized", "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Failure{Category: CategoryUnauthorized, Status: resp.StatusCode, Message: remoteMessage(resp.Body)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return &Failure{Category: CategoryRejected, Status: resp.StatusCode, Message: remoteMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// remoteMessage pulls the human-readable text off an error body. The API
// answers with {message} on most failures and {error} on a few older routes.
func remoteMessage(r io.Reader) string {
	var p struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return ""
	}
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}
