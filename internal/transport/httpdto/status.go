package httpdto

import (
	"time"

	"whitebeat/internal/domain/status"
)

type CreateStatusRequest struct {
	Type            string   `json:"type"`
	Content         *string  `json:"content,omitempty"`
	MediaURL        *string  `json:"media_url,omitempty"`
	BackgroundColor *string  `json:"background_color,omitempty"`
	Privacy         string   `json:"privacy"`
	Audience        []string `json:"audience,omitempty"`
}

// StatusDTO represents a status in API responses
type StatusDTO struct {
	ID              string `json:"id"`
	OwnerID         string `json:"owner_id"`
	Type            string `json:"type"`
	Content         string `json:"content,omitempty"`
	MediaURL        string `json:"media_url,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	Privacy         string `json:"privacy"`
	CreatedAt       string `json:"created_at"`
	ExpiresAt       string `json:"expires_at"`
}

// StatusEntryDTO is one status annotated for a viewer
type StatusEntryDTO struct {
	Status    StatusDTO `json:"status"`
	HasViewed bool      `json:"has_viewed"`
	ViewCount int64     `json:"view_count"`
}

// AuthorFeedDTO groups one author's entries on the feed screen
type AuthorFeedDTO struct {
	AuthorID string           `json:"author_id"`
	Statuses []StatusEntryDTO `json:"statuses"`
}

// FromStatus converts a domain status to StatusDTO
func FromStatus(s status.Status) StatusDTO {
	dto := StatusDTO{
		ID:        s.ID.String(),
		OwnerID:   s.OwnerID.String(),
		Type:      string(s.Type),
		Privacy:   string(s.Privacy),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	}
	if s.Content != nil {
		dto.Content = *s.Content
	}
	if s.MediaURL != nil {
		dto.MediaURL = *s.MediaURL
	}
	if s.BackgroundColor != nil {
		dto.BackgroundColor = *s.BackgroundColor
	}
	return dto
}

// FromStatusEntry converts a viewer-annotated status to StatusEntryDTO
func FromStatusEntry(s status.Status, hasViewed bool, viewCount int64) StatusEntryDTO {
	return StatusEntryDTO{
		Status:    FromStatus(s),
		HasViewed: hasViewed,
		ViewCount: viewCount,
	}
}
