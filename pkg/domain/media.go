package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaItem is an uploaded photo or video. Variants are derived renditions
// (thumbnails, resized copies) and always travel with their parent item.
type MediaItem struct {
	ID          uuid.UUID      `json:"id"`
	FamilyID    uuid.UUID      `json:"family_id"`
	UploaderID  uuid.UUID      `json:"uploader_id"`
	FileName    string         `json:"file_name"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	CreatedAt   time.Time      `json:"created_at"`
	Variants    []MediaVariant `json:"variants,omitempty"`
}

// MediaVariant is a derived rendition of a media item.
type MediaVariant struct {
	ID          uuid.UUID `json:"id"`
	MediaItemID uuid.UUID `json:"media_item_id"`
	Variant     string    `json:"variant"`
	StoragePath string    `json:"storage_path"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
}
