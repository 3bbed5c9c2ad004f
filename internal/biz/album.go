package biz

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/types"
)

const (
	AlbumPrefix        = "/ext/album"
	defaultAlbumPrefix = "albums"
)

var fetchAlbumsV6Version = 6

// Album is the client for the chat album API and the cross-chat "moa"
// listing API. Every method is exactly one round trip; the decoded JSON
// is returned as the server sent it.
type Album struct {
	base    Base
	session session.Provider
}

func NewAlbum(host string, version int, sess session.Provider, requester Requester) *Album {
	return &Album{
		base:    NewBase(host, AlbumPrefix, version, requester),
		session: sess,
	}
}

// Headers returns the timeline headers with the album channel token
// replacing the timeline one.
func (a *Album) Headers() types.Headers {
	return types.MergeHeaders(a.session.HeadersWithTimeline(), types.Headers{
		"X-Line-ChannelToken": a.session.TokenWithAlbum(),
	})
}

// HeaderOptions adds per-chat context to the album headers. A non-nil
// ChatID is always sent, even when empty; an empty Referrer is left out.
type HeaderOptions struct {
	ChatID   *string
	Referrer types.ReferrerType
}

func (a *Album) ExtHeaders(opts HeaderOptions) types.Headers {
	extra := types.Headers{}
	if opts.ChatID != nil {
		extra["x-line-chat-id"] = *opts.ChatID
	}
	if opts.Referrer != "" {
		extra["x-line-album-referrer"] = string(opts.Referrer)
	}
	return types.MergeHeaders(a.Headers(), extra)
}

// URLOptions selects how URL resolves a path.
type URLOptions struct {
	// Version pins /api/v{Version}; nil uses the client's version.
	Version *int
	// Prefix replaces the "albums" resource prefix.
	Prefix string
}

func (a *Album) URL(path string, opts URLOptions) string {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultAlbumPrefix
	}
	if opts.Version != nil {
		return a.base.URLWithPrefix(fmt.Sprintf("/api/v%d/%s", *opts.Version, prefix) + path)
	}
	return a.base.URL("/" + prefix + path)
}

// MoaURL resolves a path in the /moa/v2 family, which ignores prefix and
// version.
func (a *Album) MoaURL(path string) string {
	return a.base.URLWithPrefix("/moa/v2" + path)
}

func (a *Album) GetHiddenChats(ctx context.Context) (any, error) {
	return a.base.request(ctx, http.MethodGet, a.MoaURL("/users/hiddenChats"), a.Headers(), nil, nil)
}

func (a *Album) HideChat(ctx context.Context, chatID string) (any, error) {
	body := types.Params{"chatId": chatID}
	return a.base.request(ctx, http.MethodPost, a.MoaURL("/users/hiddenChats/create"), a.Headers(), nil, body)
}

func (a *Album) DeleteHiddenChat(ctx context.Context, chatID string) (any, error) {
	body := types.Params{"chatId": chatID}
	return a.base.request(ctx, http.MethodPost, a.MoaURL("/users/hiddenChats/delete"), a.Headers(), nil, body)
}

type MoaAlbumsParams struct {
	Cursor  string
	OrderBy types.OrderBy
	Include string
}

func (a *Album) GetMoaAlbums(ctx context.Context, p MoaAlbumsParams) (any, error) {
	query := types.Params{"cursor": p.Cursor, "orderBy": p.OrderBy, "include": p.Include}
	return a.base.request(ctx, http.MethodGet, a.MoaURL("/albums"), a.Headers(), query, nil)
}

type MoaPhotosParams struct {
	Cursor  string
	Include string
}

func (a *Album) GetMoaPhotos(ctx context.Context, p MoaPhotosParams) (any, error) {
	query := types.Params{"cursor": p.Cursor, "include": p.Include}
	return a.base.request(ctx, http.MethodGet, a.MoaURL("/photos"), a.Headers(), query, nil)
}

type GetAlbumParams struct {
	ChatID       string
	AlbumID      int64
	SyncRevision int64
	Referrer     types.ReferrerType
}

func (a *Album) GetAlbum(ctx context.Context, p GetAlbumParams) (any, error) {
	query := types.Params{"syncRevision": p.SyncRevision}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID, Referrer: p.Referrer})
	return a.base.request(ctx, http.MethodGet, a.URL(fmt.Sprintf("/%d", p.AlbumID), URLOptions{}), headers, query, nil)
}

func (a *Album) ShareToChat(ctx context.Context, chatID string, albumID int64) (any, error) {
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/share", albumID), URLOptions{}), headers, nil, nil)
}

type AlbumPhotosParams struct {
	ChatID     string
	AlbumID    int64
	Cursor     string
	PageSize   int
	OrderBy    types.OrderBy
	Include    string
	FilterType string
	// TargetUserMid is sent as targetUser when set.
	TargetUserMid *string
	Referrer      types.ReferrerType
}

func (a *Album) GetAlbumPhotos(ctx context.Context, p AlbumPhotosParams) (any, error) {
	query := types.Params{
		"cursor":     p.Cursor,
		"pageSize":   p.PageSize,
		"orderBy":    p.OrderBy,
		"include":    p.Include,
		"filterType": p.FilterType,
		"targetUser": optionalString(p.TargetUserMid),
	}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID, Referrer: p.Referrer})
	return a.base.request(ctx, http.MethodGet, a.URL(fmt.Sprintf("/%d/photos", p.AlbumID), URLOptions{}), headers, query, nil)
}

type FetchAlbumsParams struct {
	ChatID       string
	SyncRevision string
	MarkReading  bool
}

func (a *Album) FetchAlbums(ctx context.Context, p FetchAlbumsParams) (any, error) {
	query := types.Params{"syncRevision": p.SyncRevision, "markReading": p.MarkReading}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodGet, a.URL("", URLOptions{}), headers, query, nil)
}

type FetchAlbumsV6Params struct {
	ChatID   string
	Cursor   string
	PageSize int
}

func (a *Album) FetchAlbumsV6(ctx context.Context, p FetchAlbumsV6Params) (any, error) {
	query := types.Params{"cursor": p.Cursor, "pageSize": p.PageSize}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodGet, a.URL("", URLOptions{Version: &fetchAlbumsV6Version}), headers, query, nil)
}

type PreviewAlbumsParams struct {
	ChatID   string
	Cursor   string
	PageSize int
	ViewType types.ViewType
	// ThumbnailCount defaults to 1 when zero.
	ThumbnailCount int
}

func (a *Album) GetPreviewAlbums(ctx context.Context, p PreviewAlbumsParams) (any, error) {
	thumbnails := p.ThumbnailCount
	if thumbnails == 0 {
		thumbnails = 1
	}
	query := types.Params{
		"cursor":         p.Cursor,
		"pageSize":       p.PageSize,
		"thumbnailCount": thumbnails,
		"viewType":       p.ViewType,
	}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodGet, a.URL("/preview", URLOptions{}), headers, query, nil)
}

type PromotionItemParams struct {
	Country   string
	Language  int
	IsPremium bool
	// OS defaults to "Android" when empty.
	OS string
}

func (a *Album) GetAlbumPromotionItem(ctx context.Context, p PromotionItemParams) (any, error) {
	os := p.OS
	if os == "" {
		os = "Android"
	}
	query := types.Params{
		"country":   p.Country,
		"language":  p.Language,
		"isPremium": p.IsPremium,
		"os":        os,
	}
	return a.base.request(ctx, http.MethodGet, a.base.URLWithPrefix("/support/v1/promotion"), a.Headers(), query, nil)
}

func (a *Album) AgreeTerms(ctx context.Context, version int) (any, error) {
	body := types.Params{"version": version}
	return a.base.request(ctx, http.MethodPost, a.URL("/lypPremium/terms/agree", URLOptions{Prefix: "user"}), a.Headers(), nil, body)
}

func (a *Album) GetAgreementStatus(ctx context.Context) (any, error) {
	return a.base.request(ctx, http.MethodGet, a.URL("/lypPremium/latestTerms", URLOptions{Prefix: "user"}), a.Headers(), nil, nil)
}

func (a *Album) GetAlbumID(ctx context.Context, chatID string, legacyAlbumID int64) (any, error) {
	query := types.Params{"legacyAlbumId": legacyAlbumID}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodGet, a.URL("/id", URLOptions{}), headers, query, nil)
}

func (a *Album) AddPhotos(ctx context.Context, chatID string, albumID int64, photos []types.AlbumPhoto) (any, error) {
	body := types.Params{"photos": photos}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/photos/create", albumID), URLOptions{}), headers, nil, body)
}

type CreateAlbumParams struct {
	ChatID               string
	Title                string
	ModifyDuplicateTitle bool
}

func (a *Album) CreateAlbum(ctx context.Context, p CreateAlbumParams) (any, error) {
	query := types.Params{"modifyDuplicateTitle": p.ModifyDuplicateTitle}
	body := types.Params{"title": p.Title}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodPost, a.URL("/create", URLOptions{}), headers, query, body)
}

func (a *Album) DeleteAlbum(ctx context.Context, chatID string, albumID int64) (any, error) {
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/delete", albumID), URLOptions{}), headers, nil, nil)
}

func (a *Album) DeletePhotos(ctx context.Context, chatID string, albumID int64, photoIDs []int64) (any, error) {
	body := types.Params{"photoIds": photoIDs}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/photos/delete", albumID), URLOptions{}), headers, nil, body)
}

func (a *Album) UpdateAlbum(ctx context.Context, chatID string, albumID int64, title string) (any, error) {
	body := types.Params{"title": title}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/update", albumID), URLOptions{}), headers, nil, body)
}

type PhotoDownloadInfoParams struct {
	ChatID        string
	AlbumID       int64
	OrderBy       types.OrderBy
	FilterType    types.FilterType
	TargetUserMid *string
}

func (a *Album) GetPhotoDownloadInfo(ctx context.Context, p PhotoDownloadInfoParams) (any, error) {
	query := types.Params{
		"orderBy":    p.OrderBy,
		"filterType": p.FilterType,
		"targetUser": optionalString(p.TargetUserMid),
	}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodGet, a.URL(fmt.Sprintf("/%d/photos/obsDownloadInfo", p.AlbumID), URLOptions{}), headers, query, nil)
}

type PhotoLikesParams struct {
	ChatID   string
	AlbumID  int64
	PhotoID  int64
	Cursor   string
	PageSize int
}

func (a *Album) GetPhotoLikes(ctx context.Context, p PhotoLikesParams) (any, error) {
	query := types.Params{"cursor": p.Cursor, "pageSize": p.PageSize}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodGet, a.URL(fmt.Sprintf("/%d/photos/%d/likes", p.AlbumID, p.PhotoID), URLOptions{}), headers, query, nil)
}

// GetPhotoLikesPreview sends no query; the preview endpoint does not page,
// so Cursor and PageSize are not used.
func (a *Album) GetPhotoLikesPreview(ctx context.Context, p PhotoLikesParams) (any, error) {
	headers := a.ExtHeaders(HeaderOptions{ChatID: &p.ChatID})
	return a.base.request(ctx, http.MethodGet, a.URL(fmt.Sprintf("/%d/photos/%d/likes/preview", p.AlbumID, p.PhotoID), URLOptions{}), headers, types.Params{}, nil)
}

func (a *Album) DeletePhotoLike(ctx context.Context, chatID string, albumID, photoID int64) (any, error) {
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/photos/%d/likes/delete", albumID, photoID), URLOptions{}), headers, nil, nil)
}

func (a *Album) CreatePhotoLike(ctx context.Context, chatID string, albumID, photoID int64, likeType types.LikeType) (any, error) {
	body := types.Params{"likeType": likeType}
	headers := a.ExtHeaders(HeaderOptions{ChatID: &chatID})
	return a.base.request(ctx, http.MethodPost, a.URL(fmt.Sprintf("/%d/photos/%d/likes/create", albumID, photoID), URLOptions{}), headers, nil, body)
}

// optionalString keeps an absent value as nil rather than "".
func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
