// Package biz builds requests for the LINE BIZ REST APIs. It shapes the
// method, URL, headers, query and body of each call and leaves the round
// trip to a Requester.
package biz

import (
	"context"
	"fmt"

	"github.com/vicentereig/line-cli/internal/types"
)

// Requester performs a REST round trip and returns the decoded JSON body.
// Errors are passed back to callers unchanged.
type Requester interface {
	Do(ctx context.Context, req types.Request) (any, error)
}

// Base resolves URLs for one API family under a host.
type Base struct {
	host      string
	prefix    string
	version   int
	requester Requester
}

func NewBase(host, prefix string, version int, requester Requester) Base {
	return Base{host: host, prefix: prefix, version: version, requester: requester}
}

// URL returns {host}{prefix}/api/v{version}{path}.
func (b Base) URL(path string) string {
	return fmt.Sprintf("%s%s/api/v%d%s", b.host, b.prefix, b.version, path)
}

// URLWithPrefix returns {host}{prefix}{path}.
func (b Base) URLWithPrefix(path string) string {
	return b.host + b.prefix + path
}

func (b Base) request(ctx context.Context, method, url string, headers types.Headers, query, body types.Params) (any, error) {
	req := types.Request{
		Method:  method,
		URL:     url,
		Headers: headers,
		Query:   query,
	}
	// A nil Params stored in the any field would still be non-nil.
	if body != nil {
		req.Body = body
	}
	return b.requester.Do(ctx, req)
}
