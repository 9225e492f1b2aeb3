// Package contents provides HTTP handlers for the contents read endpoint.
package contents

import (
	"time"

	"follow-digest/internal/domain/entity"
)

// ItemDTO represents one content item in responses.
type ItemDTO struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Description string     `json:"description,omitempty"`
}

// ListResponse is the body of a contents read.
type ListResponse struct {
	Platform  string    `json:"platform"`
	Username  string    `json:"username"`
	Since     string    `json:"since"`
	Count     int       `json:"count"`
	Contents  []ItemDTO `json:"contents"`
	FetchedAt time.Time `json:"fetched_at"`
}

func toItemDTOs(items []entity.ContentItem) []ItemDTO {
	out := make([]ItemDTO, len(items))
	for i, item := range items {
		out[i] = ItemDTO{
			Title:       item.Title,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
			ImageURL:    item.ImageURL,
			Description: item.Description,
		}
	}
	return out
}
