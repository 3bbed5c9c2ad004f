// Package session holds the credentials and client identity that every
// request is decorated with.
package session

import "github.com/vicentereig/line-cli/internal/types"

// Provider exposes read-only access to the current session. Album and RPC
// clients take a Provider at construction instead of reaching back into a
// shared client object.
type Provider interface {
	// Headers returns the talk-service headers used for RPC calls.
	Headers() types.Headers
	// HeadersWithTimeline returns Headers plus the timeline channel token.
	HeadersWithTimeline() types.Headers
	TokenWithAlbum() string
}

// Session is a logged-in LINE session.
type Session struct {
	AccessToken   string `json:"-"`
	Mid           string `json:"mid"`
	TimelineToken string `json:"-"`
	AlbumToken    string `json:"-"`
	Application   string `json:"application"`
	UserAgent     string `json:"user_agent"`
	Language      string `json:"language"`
}

var _ Provider = Session{}

func (s Session) Headers() types.Headers {
	h := types.Headers{
		"x-line-access":      s.AccessToken,
		"x-line-application": s.Application,
		"User-Agent":         s.UserAgent,
	}
	if s.Language != "" {
		h["x-lal"] = s.Language
	}
	return h
}

func (s Session) HeadersWithTimeline() types.Headers {
	return types.MergeHeaders(s.Headers(), types.Headers{
		"X-Line-Mid":          s.Mid,
		"X-Line-ChannelToken": s.TimelineToken,
	})
}

func (s Session) TokenWithAlbum() string {
	return s.AlbumToken
}

// WithClient fills in the client identity fields that are not persisted
// with the tokens. Fields already set are kept.
func (s Session) WithClient(application, userAgent, language string) Session {
	if s.Application == "" {
		s.Application = application
	}
	if s.UserAgent == "" {
		s.UserAgent = userAgent
	}
	if s.Language == "" {
		s.Language = language
	}
	return s
}
