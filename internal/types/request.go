package types

// Headers maps header names to values for a single call.
type Headers map[string]string

// MergeHeaders returns a new header set holding base overlaid with extra.
// Keys in extra win on collision. Neither input is modified.
func MergeHeaders(base, extra Headers) Headers {
	merged := make(Headers, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// Params is a query or body bag. A nil value marks an optional field the
// caller left out; it stays in the map so the omission is visible.
type Params map[string]any

// Request describes one REST round trip.
type Request struct {
	Method  string
	URL     string
	Headers Headers
	Query   Params
	// Body is JSON-encoded when non-nil.
	Body any
}
