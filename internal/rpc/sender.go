// Package rpc dispatches service calls over the tagged-field binary
// protocol. A Sender is bound to one service endpoint; domain services
// build parameter trees and hand them to Send.
package rpc

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/types"
)

// Poster carries encoded calls to the server.
type Poster interface {
	Post(ctx context.Context, url string, headers types.Headers, body []byte) ([]byte, error)
}

// Service describes the envelope a Sender attaches to every call.
type Service struct {
	Name     string
	Request  Protocol
	Response Protocol
	Endpoint string
}

// ServiceError is a declared exception returned in a reply. Code and
// Reason are read from fields 1 and 2 of the exception struct, which is
// where the talk exception keeps them.
type ServiceError struct {
	Method  string
	FieldID int16
	Code    int32
	Reason  string
	Fields  map[int16]any
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: exception %d: code=%d reason=%q", e.Method, e.FieldID, e.Code, e.Reason)
}

type Sender struct {
	service  Service
	url      string
	session  session.Provider
	poster   Poster
	reqCodec Codec
	resCodec Codec
	logger   zerolog.Logger
	seq      atomic.Int32
}

func NewSender(service Service, host string, sess session.Provider, poster Poster, logger zerolog.Logger) (*Sender, error) {
	reqCodec, err := CodecFor(service.Request)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", service.Name, err)
	}
	resCodec, err := CodecFor(service.Response)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", service.Name, err)
	}
	return &Sender{
		service:  service,
		url:      host + service.Endpoint,
		session:  sess,
		poster:   poster,
		reqCodec: reqCodec,
		resCodec: resCodec,
		logger:   logger.With().Str("service", service.Name).Logger(),
	}, nil
}

// Send performs one call and returns the decoded result field. Calls to
// methods returning void yield nil.
func (s *Sender) Send(ctx context.Context, method string, params []Field) (any, error) {
	seq := s.seq.Add(1)
	body, err := s.reqCodec.EncodeCall(ctx, method, seq, params)
	if err != nil {
		return nil, err
	}

	headers := types.MergeHeaders(s.session.Headers(), types.Headers{
		"content-type": "application/x-thrift",
		"accept":       "application/x-thrift",
	})

	s.logger.Debug().Str("method", method).Int32("seq", seq).Int("bytes", len(body)).Msg("send")
	raw, err := s.poster.Post(ctx, s.url, headers, body)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.service.Name, method, err)
	}

	reply, err := s.resCodec.DecodeReply(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.service.Name, method, err)
	}
	if reply.Method != method {
		s.logger.Warn().Str("method", method).Str("reply", reply.Method).Msg("reply method mismatch")
	}
	return reply.Result(method)
}

// Result returns field 0, or a ServiceError for the first exception field.
func (r Reply) Result(method string) (any, error) {
	if v, ok := r.Fields[0]; ok {
		return v, nil
	}
	ids := make([]int, 0, len(r.Fields))
	for id := range r.Fields {
		ids = append(ids, int(id))
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Ints(ids)
	id := int16(ids[0])
	svcErr := &ServiceError{Method: method, FieldID: id}
	if exc, ok := r.Fields[id].(map[int16]any); ok {
		svcErr.Fields = exc
		if code, ok := exc[1].(int32); ok {
			svcErr.Code = code
		}
		if reason, ok := exc[2].(string); ok {
			svcErr.Reason = reason
		}
	}
	return nil, svcErr
}
