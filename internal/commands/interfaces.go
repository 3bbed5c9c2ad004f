// Package commands provides the CLI command implementations.
//
// # Dependency Injection
//
// The interfaces below are the dependencies of App, so tests can inject
// mocks. Shared types live in internal/types and the per-call parameter
// structs in internal/biz.
//
// Usage:
//   - Production: use NewApp, which builds the concrete clients
//   - Testing: use NewAppWithDeps to inject mocks
package commands

import (
	"context"

	"github.com/vicentereig/line-cli/internal/biz"
	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/store"
	"github.com/vicentereig/line-cli/internal/types"
)

// AlbumService is implemented by biz.Album.
type AlbumService interface {
	GetHiddenChats(ctx context.Context) (any, error)
	HideChat(ctx context.Context, chatID string) (any, error)
	DeleteHiddenChat(ctx context.Context, chatID string) (any, error)
	GetMoaAlbums(ctx context.Context, p biz.MoaAlbumsParams) (any, error)
	GetMoaPhotos(ctx context.Context, p biz.MoaPhotosParams) (any, error)
	GetAlbum(ctx context.Context, p biz.GetAlbumParams) (any, error)
	ShareToChat(ctx context.Context, chatID string, albumID int64) (any, error)
	GetAlbumPhotos(ctx context.Context, p biz.AlbumPhotosParams) (any, error)
	FetchAlbums(ctx context.Context, p biz.FetchAlbumsParams) (any, error)
	FetchAlbumsV6(ctx context.Context, p biz.FetchAlbumsV6Params) (any, error)
	GetPreviewAlbums(ctx context.Context, p biz.PreviewAlbumsParams) (any, error)
	GetAlbumPromotionItem(ctx context.Context, p biz.PromotionItemParams) (any, error)
	AgreeTerms(ctx context.Context, version int) (any, error)
	GetAgreementStatus(ctx context.Context) (any, error)
	GetAlbumID(ctx context.Context, chatID string, legacyAlbumID int64) (any, error)
	AddPhotos(ctx context.Context, chatID string, albumID int64, photos []types.AlbumPhoto) (any, error)
	CreateAlbum(ctx context.Context, p biz.CreateAlbumParams) (any, error)
	DeleteAlbum(ctx context.Context, chatID string, albumID int64) (any, error)
	DeletePhotos(ctx context.Context, chatID string, albumID int64, photoIDs []int64) (any, error)
	UpdateAlbum(ctx context.Context, chatID string, albumID int64, title string) (any, error)
	GetPhotoDownloadInfo(ctx context.Context, p biz.PhotoDownloadInfoParams) (any, error)
	GetPhotoLikes(ctx context.Context, p biz.PhotoLikesParams) (any, error)
	GetPhotoLikesPreview(ctx context.Context, p biz.PhotoLikesParams) (any, error)
	DeletePhotoLike(ctx context.Context, chatID string, albumID, photoID int64) (any, error)
	CreatePhotoLike(ctx context.Context, chatID string, albumID, photoID int64, likeType types.LikeType) (any, error)
}

// ShopAuth is implemented by services.ShopAuthService.
type ShopAuth interface {
	EstablishE2EESession(ctx context.Context, clientPublicKey string) (any, error)
}

// SessionStore is implemented by store.SessionStore.
type SessionStore interface {
	SaveSession(profile string, sess session.Session) error
	LoadSession(profile string) (session.Session, error)
	DeleteSession(profile string) error
	ListProfiles() ([]store.Profile, error)
	Close() error
}
