package commands

import (
	"context"

	"github.com/vicentereig/line-cli/internal/biz"
	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/store"
	"github.com/vicentereig/line-cli/internal/types"
)

// MockAlbumService implements AlbumService for testing. Unset funcs
// return an empty JSON object.
type MockAlbumService struct {
	GetHiddenChatsFunc        func(ctx context.Context) (any, error)
	HideChatFunc              func(ctx context.Context, chatID string) (any, error)
	DeleteHiddenChatFunc      func(ctx context.Context, chatID string) (any, error)
	GetMoaAlbumsFunc          func(ctx context.Context, p biz.MoaAlbumsParams) (any, error)
	GetMoaPhotosFunc          func(ctx context.Context, p biz.MoaPhotosParams) (any, error)
	GetAlbumFunc              func(ctx context.Context, p biz.GetAlbumParams) (any, error)
	ShareToChatFunc           func(ctx context.Context, chatID string, albumID int64) (any, error)
	GetAlbumPhotosFunc        func(ctx context.Context, p biz.AlbumPhotosParams) (any, error)
	FetchAlbumsFunc           func(ctx context.Context, p biz.FetchAlbumsParams) (any, error)
	FetchAlbumsV6Func         func(ctx context.Context, p biz.FetchAlbumsV6Params) (any, error)
	GetPreviewAlbumsFunc      func(ctx context.Context, p biz.PreviewAlbumsParams) (any, error)
	GetAlbumPromotionItemFunc func(ctx context.Context, p biz.PromotionItemParams) (any, error)
	AgreeTermsFunc            func(ctx context.Context, version int) (any, error)
	GetAgreementStatusFunc    func(ctx context.Context) (any, error)
	GetAlbumIDFunc            func(ctx context.Context, chatID string, legacyAlbumID int64) (any, error)
	AddPhotosFunc             func(ctx context.Context, chatID string, albumID int64, photos []types.AlbumPhoto) (any, error)
	CreateAlbumFunc           func(ctx context.Context, p biz.CreateAlbumParams) (any, error)
	DeleteAlbumFunc           func(ctx context.Context, chatID string, albumID int64) (any, error)
	DeletePhotosFunc          func(ctx context.Context, chatID string, albumID int64, photoIDs []int64) (any, error)
	UpdateAlbumFunc           func(ctx context.Context, chatID string, albumID int64, title string) (any, error)
	GetPhotoDownloadInfoFunc  func(ctx context.Context, p biz.PhotoDownloadInfoParams) (any, error)
	GetPhotoLikesFunc         func(ctx context.Context, p biz.PhotoLikesParams) (any, error)
	GetPhotoLikesPreviewFunc  func(ctx context.Context, p biz.PhotoLikesParams) (any, error)
	DeletePhotoLikeFunc       func(ctx context.Context, chatID string, albumID, photoID int64) (any, error)
	CreatePhotoLikeFunc       func(ctx context.Context, chatID string, albumID, photoID int64, likeType types.LikeType) (any, error)
}

func (m *MockAlbumService) GetHiddenChats(ctx context.Context) (any, error) {
	if m.GetHiddenChatsFunc != nil {
		return m.GetHiddenChatsFunc(ctx)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) HideChat(ctx context.Context, chatID string) (any, error) {
	if m.HideChatFunc != nil {
		return m.HideChatFunc(ctx, chatID)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) DeleteHiddenChat(ctx context.Context, chatID string) (any, error) {
	if m.DeleteHiddenChatFunc != nil {
		return m.DeleteHiddenChatFunc(ctx, chatID)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetMoaAlbums(ctx context.Context, p biz.MoaAlbumsParams) (any, error) {
	if m.GetMoaAlbumsFunc != nil {
		return m.GetMoaAlbumsFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetMoaPhotos(ctx context.Context, p biz.MoaPhotosParams) (any, error) {
	if m.GetMoaPhotosFunc != nil {
		return m.GetMoaPhotosFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetAlbum(ctx context.Context, p biz.GetAlbumParams) (any, error) {
	if m.GetAlbumFunc != nil {
		return m.GetAlbumFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) ShareToChat(ctx context.Context, chatID string, albumID int64) (any, error) {
	if m.ShareToChatFunc != nil {
		return m.ShareToChatFunc(ctx, chatID, albumID)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetAlbumPhotos(ctx context.Context, p biz.AlbumPhotosParams) (any, error) {
	if m.GetAlbumPhotosFunc != nil {
		return m.GetAlbumPhotosFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) FetchAlbums(ctx context.Context, p biz.FetchAlbumsParams) (any, error) {
	if m.FetchAlbumsFunc != nil {
		return m.FetchAlbumsFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) FetchAlbumsV6(ctx context.Context, p biz.FetchAlbumsV6Params) (any, error) {
	if m.FetchAlbumsV6Func != nil {
		return m.FetchAlbumsV6Func(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetPreviewAlbums(ctx context.Context, p biz.PreviewAlbumsParams) (any, error) {
	if m.GetPreviewAlbumsFunc != nil {
		return m.GetPreviewAlbumsFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetAlbumPromotionItem(ctx context.Context, p biz.PromotionItemParams) (any, error) {
	if m.GetAlbumPromotionItemFunc != nil {
		return m.GetAlbumPromotionItemFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) AgreeTerms(ctx context.Context, version int) (any, error) {
	if m.AgreeTermsFunc != nil {
		return m.AgreeTermsFunc(ctx, version)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetAgreementStatus(ctx context.Context) (any, error) {
	if m.GetAgreementStatusFunc != nil {
		return m.GetAgreementStatusFunc(ctx)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetAlbumID(ctx context.Context, chatID string, legacyAlbumID int64) (any, error) {
	if m.GetAlbumIDFunc != nil {
		return m.GetAlbumIDFunc(ctx, chatID, legacyAlbumID)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) AddPhotos(ctx context.Context, chatID string, albumID int64, photos []types.AlbumPhoto) (any, error) {
	if m.AddPhotosFunc != nil {
		return m.AddPhotosFunc(ctx, chatID, albumID, photos)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) CreateAlbum(ctx context.Context, p biz.CreateAlbumParams) (any, error) {
	if m.CreateAlbumFunc != nil {
		return m.CreateAlbumFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) DeleteAlbum(ctx context.Context, chatID string, albumID int64) (any, error) {
	if m.DeleteAlbumFunc != nil {
		return m.DeleteAlbumFunc(ctx, chatID, albumID)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) DeletePhotos(ctx context.Context, chatID string, albumID int64, photoIDs []int64) (any, error) {
	if m.DeletePhotosFunc != nil {
		return m.DeletePhotosFunc(ctx, chatID, albumID, photoIDs)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) UpdateAlbum(ctx context.Context, chatID string, albumID int64, title string) (any, error) {
	if m.UpdateAlbumFunc != nil {
		return m.UpdateAlbumFunc(ctx, chatID, albumID, title)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetPhotoDownloadInfo(ctx context.Context, p biz.PhotoDownloadInfoParams) (any, error) {
	if m.GetPhotoDownloadInfoFunc != nil {
		return m.GetPhotoDownloadInfoFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetPhotoLikes(ctx context.Context, p biz.PhotoLikesParams) (any, error) {
	if m.GetPhotoLikesFunc != nil {
		return m.GetPhotoLikesFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) GetPhotoLikesPreview(ctx context.Context, p biz.PhotoLikesParams) (any, error) {
	if m.GetPhotoLikesPreviewFunc != nil {
		return m.GetPhotoLikesPreviewFunc(ctx, p)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) DeletePhotoLike(ctx context.Context, chatID string, albumID, photoID int64) (any, error) {
	if m.DeletePhotoLikeFunc != nil {
		return m.DeletePhotoLikeFunc(ctx, chatID, albumID, photoID)
	}
	return map[string]any{}, nil
}

func (m *MockAlbumService) CreatePhotoLike(ctx context.Context, chatID string, albumID, photoID int64, likeType types.LikeType) (any, error) {
	if m.CreatePhotoLikeFunc != nil {
		return m.CreatePhotoLikeFunc(ctx, chatID, albumID, photoID, likeType)
	}
	return map[string]any{}, nil
}

// MockShopAuth implements ShopAuth for testing.
type MockShopAuth struct {
	EstablishE2EESessionFunc func(ctx context.Context, clientPublicKey string) (any, error)
}

func (m *MockShopAuth) EstablishE2EESession(ctx context.Context, clientPublicKey string) (any, error) {
	if m.EstablishE2EESessionFunc != nil {
		return m.EstablishE2EESessionFunc(ctx, clientPublicKey)
	}
	return nil, nil
}

// MockSessionStore implements SessionStore for testing.
type MockSessionStore struct {
	SaveSessionFunc   func(profile string, sess session.Session) error
	LoadSessionFunc   func(profile string) (session.Session, error)
	DeleteSessionFunc func(profile string) error
	ListProfilesFunc  func() ([]store.Profile, error)
	CloseFunc         func() error
}

func (m *MockSessionStore) SaveSession(profile string, sess session.Session) error {
	if m.SaveSessionFunc != nil {
		return m.SaveSessionFunc(profile, sess)
	}
	return nil
}

func (m *MockSessionStore) LoadSession(profile string) (session.Session, error) {
	if m.LoadSessionFunc != nil {
		return m.LoadSessionFunc(profile)
	}
	return session.Session{}, store.ErrNoSession
}

func (m *MockSessionStore) DeleteSession(profile string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(profile)
	}
	return nil
}

func (m *MockSessionStore) ListProfiles() ([]store.Profile, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc()
	}
	return nil, nil
}

func (m *MockSessionStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
