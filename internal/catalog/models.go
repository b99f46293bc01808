// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

// TopAnimeResponse is the Jikan v4 /top/anime payload.
type TopAnimeResponse struct {
	Pagination Pagination `json:"pagination"`
	Data       []Anime    `json:"data"`
}

// Pagination describes the page returned.
type Pagination struct {
	LastVisiblePage int             `json:"last_visible_page"`
	HasNextPage     bool            `json:"has_next_page"`
	CurrentPage     int             `json:"current_page"`
	Items           PaginationItems `json:"items"`
}

// PaginationItems carries page counts.
type PaginationItems struct {
	Count   int `json:"count"`
	Total   int `json:"total"`
	PerPage int `json:"per_page"`
}

// Anime is one entry. Nullable fields are pointers.
type Anime struct {
	MalID         int      `json:"mal_id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	TitleEnglish  *string  `json:"title_english"`
	TitleJapanese *string  `json:"title_japanese"`
	TitleSynonyms []string `json:"title_synonyms"`
	Synopsis      *string  `json:"synopsis"`
	Genres        []Named  `json:"genres"`
	Images        Images   `json:"images"`
	Rank          *int     `json:"rank"`
	Score         *float64 `json:"score"`
}

// Named is a Jikan resource reference such as a genre.
type Named struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// Images groups cover image formats.
type Images struct {
	JPG ImageSet `json:"jpg"`
}

// ImageSet holds the image URLs of one format.
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// ErrorResponse is returned by Jikan on failures.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
