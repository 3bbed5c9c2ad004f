// Package types provides shared data structures used across packages.
// Both the album client and the CLI commands import types, so neither
// has to import the other.
package types

import "fmt"

// OrderBy selects the sort order of album and photo listings.
type OrderBy string

const (
	OrderByCreateTimeDesc OrderBy = "createTimeDesc"
	OrderByUpdateTimeDesc OrderBy = "updateTimeDesc"
)

// FilterType narrows a photo listing.
type FilterType string

const (
	FilterTypeSpecificUser FilterType = "specificUser"
)

// ViewType tells the server which screen is asking for album previews.
type ViewType string

const (
	ViewTypeChatMenu    ViewType = "chatMenu"
	ViewTypeSelectAlbum ViewType = "selectAlbum"
)

// LikeType is the reaction attached to a photo like.
type LikeType string

const (
	LikeType1001 LikeType = "1001"
	LikeType1002 LikeType = "1002"
	LikeType1003 LikeType = "1003"
	LikeType1004 LikeType = "1004"
	LikeType1005 LikeType = "1005"
	LikeType1006 LikeType = "1006"
)

// ReferrerType is sent as x-line-album-referrer.
type ReferrerType string

const (
	ReferrerMOA      ReferrerType = "MOA"
	ReferrerNotiLike ReferrerType = "NOTI_LIKE"
	ReferrerNone     ReferrerType = "NONE"
)

// AlbumPhoto is a photo descriptor passed through to the add-photos call
// without interpretation.
type AlbumPhoto map[string]any

func ParseOrderBy(s string) (OrderBy, error) {
	switch v := OrderBy(s); v {
	case OrderByCreateTimeDesc, OrderByUpdateTimeDesc:
		return v, nil
	}
	return "", fmt.Errorf("invalid order: %q (want createTimeDesc or updateTimeDesc)", s)
}

func ParseFilterType(s string) (FilterType, error) {
	if v := FilterType(s); v == FilterTypeSpecificUser {
		return v, nil
	}
	return "", fmt.Errorf("invalid filter type: %q (want specificUser)", s)
}

func ParseViewType(s string) (ViewType, error) {
	switch v := ViewType(s); v {
	case ViewTypeChatMenu, ViewTypeSelectAlbum:
		return v, nil
	}
	return "", fmt.Errorf("invalid view type: %q (want chatMenu or selectAlbum)", s)
}

func ParseLikeType(s string) (LikeType, error) {
	switch v := LikeType(s); v {
	case LikeType1001, LikeType1002, LikeType1003, LikeType1004, LikeType1005, LikeType1006:
		return v, nil
	}
	return "", fmt.Errorf("invalid like type: %q (want 1001-1006)", s)
}

// ParseReferrerType accepts the empty string as "no referrer".
func ParseReferrerType(s string) (ReferrerType, error) {
	switch v := ReferrerType(s); v {
	case "", ReferrerMOA, ReferrerNotiLike, ReferrerNone:
		return v, nil
	}
	return "", fmt.Errorf("invalid referrer: %q (want MOA, NOTI_LIKE or NONE)", s)
}
