package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vicentereig/line-cli/internal/biz"
	"github.com/vicentereig/line-cli/internal/client"
	"github.com/vicentereig/line-cli/internal/config"
	"github.com/vicentereig/line-cli/internal/output"
	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/store"
	"github.com/vicentereig/line-cli/internal/types"
)

// Options configures NewApp.
type Options struct {
	StoreDir string
	// ConfigPath overrides <StoreDir>/config.yaml and must exist when set.
	ConfigPath string
	Profile    string
	Version    string
	Verbose    bool
	// LogOutput receives log lines; nil discards them.
	LogOutput io.Writer
}

type App struct {
	album    AlbumService
	shop     ShopAuth
	sessions SessionStore
	profile  string
	version  string
	logger   zerolog.Logger
	// sessionErr is set when the profile has no usable session; remote
	// commands report it instead of sending unauthenticated requests.
	sessionErr error
}

func NewApp(opts Options) (*App, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(opts.StoreDir, config.FileName)
	}
	cfg, err := config.LoadFile(configPath, opts.ConfigPath != "")
	if err != nil {
		return nil, err
	}

	logger := newLogger(opts.LogOutput, cfg.Level(), opts.Verbose)

	st, err := store.NewSessionStore(filepath.Join(opts.StoreDir, "session.db"))
	if err != nil {
		return nil, err
	}

	var sessionErr error
	sess, err := st.LoadSession(opts.Profile)
	if err != nil {
		if !errors.Is(err, store.ErrNoSession) {
			st.Close()
			return nil, err
		}
		sessionErr = fmt.Errorf("%w (run: line-cli session set --profile %s)", err, opts.Profile)
	}

	cli, err := client.NewClient(cfg, sess, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	if sessionErr == nil && !cli.IsAuthenticated() {
		sessionErr = fmt.Errorf("session %s has no access token", opts.Profile)
	}

	app := NewAppWithDeps(cli.Album, cli.ShopAuth, st, opts.Profile, opts.Version)
	app.logger = logger
	app.sessionErr = sessionErr
	return app, nil
}

// NewAppWithDeps builds an App around the given dependencies. The session
// is assumed to be usable.
func NewAppWithDeps(album AlbumService, shop ShopAuth, sessions SessionStore, profile, version string) *App {
	return &App{
		album:    album,
		shop:     shop,
		sessions: sessions,
		profile:  profile,
		version:  version,
		logger:   zerolog.Nop(),
	}
}

func newLogger(w io.Writer, level zerolog.Level, verbose bool) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

func (a *App) Close() {
	if a.sessions != nil {
		a.sessions.Close()
	}
}

func (a *App) Version() string {
	return output.Success(map[string]any{
		"version": resolveVersion(a.version, gitDescribe),
	})
}

// call runs one remote operation and renders its result.
func (a *App) call(op string, fn func() (any, error)) string {
	if a.sessionErr != nil {
		return output.Error(a.sessionErr)
	}
	result, err := fn()
	if err != nil {
		a.logger.Error().Err(err).Str("op", op).Msg("request failed")
		return output.Error(err)
	}
	a.logger.Debug().Str("op", op).Msg("ok")
	return output.Success(result)
}

func (a *App) HiddenChats(ctx context.Context) string {
	return a.call("hidden-chats", func() (any, error) { return a.album.GetHiddenChats(ctx) })
}

func (a *App) HideChat(ctx context.Context, chatID string) string {
	return a.call("hide-chat", func() (any, error) { return a.album.HideChat(ctx, chatID) })
}

func (a *App) UnhideChat(ctx context.Context, chatID string) string {
	return a.call("unhide-chat", func() (any, error) { return a.album.DeleteHiddenChat(ctx, chatID) })
}

func (a *App) MoaAlbums(ctx context.Context, p biz.MoaAlbumsParams) string {
	return a.call("moa-albums", func() (any, error) { return a.album.GetMoaAlbums(ctx, p) })
}

func (a *App) MoaPhotos(ctx context.Context, p biz.MoaPhotosParams) string {
	return a.call("moa-photos", func() (any, error) { return a.album.GetMoaPhotos(ctx, p) })
}

func (a *App) GetAlbum(ctx context.Context, p biz.GetAlbumParams) string {
	return a.call("get", func() (any, error) { return a.album.GetAlbum(ctx, p) })
}

func (a *App) ShareAlbum(ctx context.Context, chatID string, albumID int64) string {
	return a.call("share", func() (any, error) { return a.album.ShareToChat(ctx, chatID, albumID) })
}

func (a *App) AlbumPhotos(ctx context.Context, p biz.AlbumPhotosParams) string {
	return a.call("photos", func() (any, error) { return a.album.GetAlbumPhotos(ctx, p) })
}

func (a *App) ListAlbums(ctx context.Context, p biz.FetchAlbumsParams) string {
	return a.call("list", func() (any, error) { return a.album.FetchAlbums(ctx, p) })
}

func (a *App) ListAlbumsV6(ctx context.Context, p biz.FetchAlbumsV6Params) string {
	return a.call("list-v6", func() (any, error) { return a.album.FetchAlbumsV6(ctx, p) })
}

func (a *App) PreviewAlbums(ctx context.Context, p biz.PreviewAlbumsParams) string {
	return a.call("preview", func() (any, error) { return a.album.GetPreviewAlbums(ctx, p) })
}

func (a *App) Promotion(ctx context.Context, p biz.PromotionItemParams) string {
	return a.call("promotion", func() (any, error) { return a.album.GetAlbumPromotionItem(ctx, p) })
}

func (a *App) AgreeTerms(ctx context.Context, version int) string {
	return a.call("terms-agree", func() (any, error) { return a.album.AgreeTerms(ctx, version) })
}

func (a *App) TermsStatus(ctx context.Context) string {
	return a.call("terms-status", func() (any, error) { return a.album.GetAgreementStatus(ctx) })
}

func (a *App) ResolveAlbumID(ctx context.Context, chatID string, legacyAlbumID int64) string {
	return a.call("resolve-id", func() (any, error) { return a.album.GetAlbumID(ctx, chatID, legacyAlbumID) })
}

func (a *App) AddPhotos(ctx context.Context, chatID string, albumID int64, photos []types.AlbumPhoto) string {
	if len(photos) == 0 {
		return output.Error(errors.New("at least one photo is required"))
	}
	return a.call("add-photos", func() (any, error) { return a.album.AddPhotos(ctx, chatID, albumID, photos) })
}

func (a *App) CreateAlbum(ctx context.Context, p biz.CreateAlbumParams) string {
	return a.call("create", func() (any, error) { return a.album.CreateAlbum(ctx, p) })
}

func (a *App) DeleteAlbum(ctx context.Context, chatID string, albumID int64) string {
	return a.call("delete", func() (any, error) { return a.album.DeleteAlbum(ctx, chatID, albumID) })
}

func (a *App) DeletePhotos(ctx context.Context, chatID string, albumID int64, photoIDs []int64) string {
	if len(photoIDs) == 0 {
		return output.Error(errors.New("at least one photo id is required"))
	}
	return a.call("delete-photos", func() (any, error) { return a.album.DeletePhotos(ctx, chatID, albumID, photoIDs) })
}

func (a *App) RenameAlbum(ctx context.Context, chatID string, albumID int64, title string) string {
	return a.call("rename", func() (any, error) { return a.album.UpdateAlbum(ctx, chatID, albumID, title) })
}

func (a *App) DownloadInfo(ctx context.Context, p biz.PhotoDownloadInfoParams) string {
	return a.call("download-info", func() (any, error) { return a.album.GetPhotoDownloadInfo(ctx, p) })
}

func (a *App) PhotoLikes(ctx context.Context, p biz.PhotoLikesParams, preview bool) string {
	if preview {
		return a.call("likes-preview", func() (any, error) { return a.album.GetPhotoLikesPreview(ctx, p) })
	}
	return a.call("likes", func() (any, error) { return a.album.GetPhotoLikes(ctx, p) })
}

func (a *App) LikePhoto(ctx context.Context, chatID string, albumID, photoID int64, likeType types.LikeType) string {
	return a.call("like", func() (any, error) { return a.album.CreatePhotoLike(ctx, chatID, albumID, photoID, likeType) })
}

func (a *App) UnlikePhoto(ctx context.Context, chatID string, albumID, photoID int64) string {
	return a.call("unlike", func() (any, error) { return a.album.DeletePhotoLike(ctx, chatID, albumID, photoID) })
}

func (a *App) EstablishE2EESession(ctx context.Context, publicKey string) string {
	if publicKey == "" {
		return output.Error(errors.New("public key is required"))
	}
	return a.call("establish-e2ee", func() (any, error) { return a.shop.EstablishE2EESession(ctx, publicKey) })
}

// SetSession saves sess under the app's profile. Fields left empty keep
// their stored values.
func (a *App) SetSession(sess session.Session) string {
	if err := a.sessions.SaveSession(a.profile, sess); err != nil {
		return output.Error(err)
	}
	a.logger.Info().Str("profile", a.profile).Msg("session saved")
	return output.Success(map[string]any{
		"saved":   true,
		"profile": a.profile,
	})
}

func (a *App) ShowSession() string {
	sess, err := a.sessions.LoadSession(a.profile)
	if err != nil {
		return output.Error(err)
	}
	return output.Success(map[string]any{
		"profile":            a.profile,
		"mid":                sess.Mid,
		"application":        sess.Application,
		"access_token":       mask(sess.AccessToken),
		"timeline_token":     mask(sess.TimelineToken),
		"album_token":        mask(sess.AlbumToken),
		"has_timeline_token": sess.TimelineToken != "",
		"has_album_token":    sess.AlbumToken != "",
	})
}

func (a *App) DeleteSession() string {
	if err := a.sessions.DeleteSession(a.profile); err != nil {
		return output.Error(err)
	}
	return output.Success(map[string]any{
		"deleted": true,
		"profile": a.profile,
	})
}

func (a *App) ListSessions() string {
	profiles, err := a.sessions.ListProfiles()
	if err != nil {
		return output.Error(err)
	}
	if profiles == nil {
		profiles = []store.Profile{}
	}
	return output.Success(profiles)
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
