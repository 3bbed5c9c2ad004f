// Package client assembles the LINE service clients around one session.
package client

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vicentereig/line-cli/internal/biz"
	"github.com/vicentereig/line-cli/internal/config"
	"github.com/vicentereig/line-cli/internal/rpc"
	"github.com/vicentereig/line-cli/internal/services"
	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/transport"
)

// Client owns the transport and the per-service clients built on it.
type Client struct {
	Album    *biz.Album
	ShopAuth *services.ShopAuthService

	transport *transport.Client
	session   session.Session
}

func NewClient(cfg *config.Config, sess session.Session, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return newClient(cfg, sess, transport.New(cfg.TimeoutDuration(), logger), logger)
}

func newClient(cfg *config.Config, sess session.Session, tr *transport.Client, logger zerolog.Logger) (*Client, error) {
	host := strings.TrimRight(cfg.Host, "/")
	sess = sess.WithClient(cfg.Application, cfg.UserAgent, cfg.Language)

	shopSender, err := rpc.NewSender(services.ShopAuthServiceInfo, host, sess, tr, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		Album:     biz.NewAlbum(host, cfg.AlbumVersion, sess, tr),
		ShopAuth:  services.NewShopAuthService(shopSender),
		transport: tr,
		session:   sess,
	}, nil
}

// IsAuthenticated reports whether the session carries an access token.
func (c *Client) IsAuthenticated() bool {
	return c.session.AccessToken != ""
}
