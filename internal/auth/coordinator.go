package auth

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/linkauth/internal/google"
	"github.com/teemow/linkauth/internal/logging"
)

// Policy selects how a published identity is consumed by checks.
type Policy string

const (
	// PolicyConsumeOnce clears the identity on read: each login proves
	// exactly one subsequent tool call, and the next check must hand out a
	// fresh login URL.
	PolicyConsumeOnce Policy = "consume-once"

	// PolicyPersistent keeps the identity until a new login overwrites it,
	// giving session-like convenience for the life of the process.
	PolicyPersistent Policy = "persistent"
)

// ParsePolicy converts a flag value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyConsumeOnce, PolicyPersistent:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown auth policy %q (expected %q or %q)", s, PolicyConsumeOnce, PolicyPersistent)
}

// URLBuilder supplies fresh authorization URLs. Satisfied by *google.Flow.
type URLBuilder interface {
	AuthURL() string
}

// Status is the outcome of an authentication check: either a verified
// identity, or a login URL the caller must visit.
type Status struct {
	Authenticated bool
	Identity      *google.Identity
	LoginURL      string
}

// Coordinator holds the single identity slot shared between the callback
// listener (writer) and tool handlers (readers). It is the only mutable
// state shared across those paths, so all access goes through the mutex.
// At most one identity is pending at a time; a second login before the
// first is consumed overwrites it.
type Coordinator struct {
	mu       sync.Mutex
	identity *google.Identity

	policy Policy
	links  URLBuilder
	logger *slog.Logger
}

// NewCoordinator creates a coordinator with the given consumption policy.
// The policy is fixed at construction; consume-once and persistent
// semantics must never be mixed within one deployment.
func NewCoordinator(policy Policy, links URLBuilder, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{policy: policy, links: links, logger: logger}
}

// Policy returns the configured consumption policy.
func (c *Coordinator) Policy() Policy {
	return c.policy
}

// Publish stores a verified identity. Last writer wins; there is no queue.
func (c *Coordinator) Publish(id *google.Identity) {
	c.mu.Lock()
	replaced := c.identity != nil
	c.identity = id
	c.mu.Unlock()

	if replaced {
		c.logger.Info("pending identity replaced by newer login", logging.UserHash(id.Email))
	}
}

// Check reports whether the caller is authenticated. Under
// PolicyConsumeOnce a pending identity is returned and cleared in the same
// step. When unauthenticated, a fresh authorization URL is built on every
// check; URLs are never cached.
func (c *Coordinator) Check() Status {
	c.mu.Lock()
	id := c.identity
	if id != nil && c.policy == PolicyConsumeOnce {
		c.identity = nil
	}
	c.mu.Unlock()

	if id != nil {
		return Status{Authenticated: true, Identity: id}
	}
	return Status{LoginURL: c.links.AuthURL()}
}
