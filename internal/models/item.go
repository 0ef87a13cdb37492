// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package models

// ItemKind is the server's item "Type" discriminator.
type ItemKind string

// Item kinds the client distinguishes. Unknown kinds decode as-is.
const (
	KindMovie            ItemKind = "Movie"
	KindEpisode          ItemKind = "Episode"
	KindSeries           ItemKind = "Series"
	KindSeason           ItemKind = "Season"
	KindVideo            ItemKind = "Video"
	KindMusicVideo       ItemKind = "MusicVideo"
	KindTrailer          ItemKind = "Trailer"
	KindAudio            ItemKind = "Audio"
	KindBoxSet           ItemKind = "BoxSet"
	KindFolder           ItemKind = "Folder"
	KindCollectionFolder ItemKind = "CollectionFolder"
	KindUserView         ItemKind = "UserView"
)

// IsContainer reports whether the kind groups other items rather than
// carrying a media stream of its own.
func (k ItemKind) IsContainer() bool {
	switch k {
	case KindSeries, KindSeason, KindBoxSet, KindFolder, KindCollectionFolder, KindUserView:
		return true
	default:
		return false
	}
}

// UserItemData is the per-user state the server keeps for an item.
type UserItemData struct {
	Played                bool    `json:"Played"`
	PlaybackPositionTicks int64   `json:"PlaybackPositionTicks"`
	PlayedPercentage      float64 `json:"PlayedPercentage,omitempty"`
	PlayCount             int     `json:"PlayCount"`
	IsFavorite            bool    `json:"IsFavorite"`
	UnplayedItemCount     int     `json:"UnplayedItemCount,omitempty"`
}

// HasResumePosition reports whether playback was left part-way through.
func (u *UserItemData) HasResumePosition() bool {
	return u != nil && !u.Played && u.PlaybackPositionTicks > 0
}

// MediaItem is an immutable snapshot of a library item.
type MediaItem struct {
	ID                string            `json:"Id"`
	Name              string            `json:"Name"`
	Type              ItemKind          `json:"Type"`
	MediaType         string            `json:"MediaType,omitempty"`
	CollectionType    string            `json:"CollectionType,omitempty"`
	ParentID          string            `json:"ParentId,omitempty"`
	SeriesID          string            `json:"SeriesId,omitempty"`
	SeriesName        string            `json:"SeriesName,omitempty"`
	SeasonID          string            `json:"SeasonId,omitempty"`
	SeasonName        string            `json:"SeasonName,omitempty"`
	IndexNumber       *int              `json:"IndexNumber,omitempty"`
	ParentIndexNumber *int              `json:"ParentIndexNumber,omitempty"`
	ProductionYear    int               `json:"ProductionYear,omitempty"`
	Overview          string            `json:"Overview,omitempty"`
	RunTimeTicks      int64             `json:"RunTimeTicks,omitempty"`
	IsFolder          bool              `json:"IsFolder"`
	ImageTags         map[string]string `json:"ImageTags,omitempty"`
	BackdropImageTags []string          `json:"BackdropImageTags,omitempty"`
	UserData          *UserItemData     `json:"UserData,omitempty"`
}

// EpisodeIndex returns the episode number, or 0 when the server sent none.
func (m *MediaItem) EpisodeIndex() int {
	if m.IndexNumber == nil {
		return 0
	}
	return *m.IndexNumber
}

// SeasonIndex returns the season number, or 0 when the server sent none.
func (m *MediaItem) SeasonIndex() int {
	if m.ParentIndexNumber == nil {
		return 0
	}
	return *m.ParentIndexNumber
}

// ResumeTicks returns the saved playback position, or 0 when there is none.
func (m *MediaItem) ResumeTicks() int64 {
	if !m.UserData.HasResumePosition() {
		return 0
	}
	return m.UserData.PlaybackPositionTicks
}

// Page is one slice of a paginated listing together with the total count.
type Page[T any] struct {
	Items            []T `json:"Items"`
	TotalRecordCount int `json:"TotalRecordCount"`
	StartIndex       int `json:"StartIndex"`
}

// ItemQuery narrows Users/{id}/Items.
type ItemQuery struct {
	ParentID         string
	IncludeItemTypes []ItemKind
	Recursive        bool
	SortBy           []string
	SortOrder        string
	Filters          []string
	Fields           []string
	StartIndex       int
	Limit            int
}
