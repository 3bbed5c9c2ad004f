// Package services holds the typed wrappers around individual RPC services.
package services

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/vicentereig/line-cli/internal/rpc"
)

// Caller is the part of rpc.Sender a service needs.
type Caller interface {
	Send(ctx context.Context, method string, params []rpc.Field) (any, error)
}

// ShopAuthServiceInfo is the envelope for the shop-auth endpoint.
var ShopAuthServiceInfo = rpc.Service{
	Name:     "ShopAuthService",
	Request:  rpc.ProtocolCompact,
	Response: rpc.ProtocolCompact,
	Endpoint: "/SHOPA",
}

type ShopAuthService struct {
	sender Caller
}

func NewShopAuthService(sender Caller) *ShopAuthService {
	return &ShopAuthService{sender: sender}
}

// EstablishE2EESession sends the client's public key and returns the
// decoded reply as is.
func (s *ShopAuthService) EstablishE2EESession(ctx context.Context, clientPublicKey string) (any, error) {
	const method = "establishE2EESession"
	params := []rpc.Field{
		{Type: thrift.STRUCT, ID: 1, Value: []rpc.Field{
			{Type: thrift.STRING, ID: 1, Value: clientPublicKey},
		}},
	}
	return s.sender.Send(ctx, method, params)
}
