package models

import "time"

// Style is one of the fixed art-style presets. The prompt suffix associated
// with each style lives in config so deployments can tune the wording without
// widening the set.
type Style string

const (
	StyleRealistic Style = "realistic"
	StyleCartoon   Style = "cartoon"
	StyleCyberpunk Style = "cyberpunk"
	StyleFantasy   Style = "fantasy"
	StyleAbstract  Style = "abstract"
)

var allStyles = []Style{
	StyleRealistic,
	StyleCartoon,
	StyleCyberpunk,
	StyleFantasy,
	StyleAbstract,
}

// Styles returns the closed style set in display order.
func Styles() []Style {
	out := make([]Style, len(allStyles))
	copy(out, allStyles)
	return out
}

// ParseStyle reports whether s names a known style.
func ParseStyle(s string) (Style, bool) {
	for _, style := range allStyles {
		if string(style) == s {
			return style, true
		}
	}
	return "", false
}

type RecordStatus string

const RecordStatusCompleted RecordStatus = "completed"

// Feedback is the user's rating of one generated image. It is written together
// with its GenerationRecord, never on its own.
type Feedback struct {
	Rating  int    `bson:"rating" json:"rating"`
	Comment string `bson:"comment" json:"comment"`
}

// GenerationRecord is one completed, rated generation. Records are inserted
// exactly once, after feedback, and never updated in place.
type GenerationRecord struct {
	ID             string       `bson:"id" json:"id"`
	Prompt         string       `bson:"prompt" json:"prompt"`
	Style          Style        `bson:"expected_style" json:"style"`
	Filename       string       `bson:"filename" json:"filename"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
	GenerationTime *float64     `bson:"generation_time,omitempty" json:"generationTimeSeconds,omitempty"`
	Status         RecordStatus `bson:"status" json:"status"`
	FileSize       *int64       `bson:"file_size,omitempty" json:"fileSizeBytes,omitempty"`
	Feedback       *Feedback    `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// PromptHistoryEntry is the projection returned by the prompt-history listing.
type PromptHistoryEntry struct {
	Prompt    string    `bson:"prompt" json:"prompt"`
	Style     Style     `bson:"expected_style" json:"style"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
