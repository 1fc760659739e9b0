package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"promptcanvas/internal/models"
	"promptcanvas/internal/session"
	"promptcanvas/internal/storage"
)

var (
	ErrEmptyPrompt     = errors.New("prompt must not be empty")
	ErrUnknownStyle    = errors.New("unknown art style")
	ErrPendingFeedback = errors.New("a generated image is awaiting feedback")
	ErrNoPending       = errors.New("no pending generation to rate")
	ErrInvalidRating   = errors.New("rating must be between 1 and 10")

	// ErrPersistFailed means the rated generation could not be made durable:
	// either the image write or the record insert failed after feedback.
	ErrPersistFailed = errors.New("failed to persist rated generation")
)

// Generator produces one encoded image per call.
type Generator interface {
	Generate(ctx context.Context, prompt string, style models.Style) ([]byte, error)
}

// RecordStore is the degraded-mode record collection (see repository package).
type RecordStore interface {
	Insert(ctx context.Context, record models.GenerationRecord) bool
	ListRecent(ctx context.Context, limit int64) []models.GenerationRecord
	ListPromptHistory(ctx context.Context) []models.PromptHistoryEntry
	Count(ctx context.Context) int64
	Delete(ctx context.Context, id string) bool
}

// StudioService drives the two view-state transitions: prompt submission
// (main -> feedback) and feedback submission (feedback -> main, with
// persistence). It owns no state itself; the Flow value is threaded through.
type StudioService struct {
	generator Generator
	records   RecordStore
	images    storage.ImageStore
	stats     *StatsService
	log       zerolog.Logger
}

func NewStudioService(generator Generator, records RecordStore, images storage.ImageStore, stats *StatsService, log zerolog.Logger) *StudioService {
	return &StudioService{
		generator: generator,
		records:   records,
		images:    images,
		stats:     stats,
		log:       log,
	}
}

// Generate validates the submission, calls the inference client and advances
// the flow to the feedback view. On any failure the original flow is
// returned unchanged and the error is the user-facing outcome. Nothing is
// persisted here.
func (s *StudioService) Generate(ctx context.Context, flow session.Flow, prompt, style string) (session.Flow, error) {
	if flow.InFeedback() {
		return flow, ErrPendingFeedback
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return flow, ErrEmptyPrompt
	}

	parsed, ok := models.ParseStyle(style)
	if !ok {
		return flow, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	start := time.Now()
	data, err := s.generator.Generate(ctx, prompt, parsed)
	if err != nil {
		s.log.Warn().Err(err).Str("style", style).Msg("generation failed")
		return flow, err
	}
	elapsed := time.Since(start).Seconds()

	s.log.Info().
		Str("style", style).
		Float64("seconds", elapsed).
		Int("bytes", len(data)).
		Msg("image generated")

	return flow.ToFeedback(session.Pending{
		Image:          data,
		Prompt:         prompt,
		Style:          parsed,
		GenerationTime: elapsed,
	}), nil
}

// SubmitFeedback builds the GenerationRecord from the pending fields plus
// the rating, writes the image bytes under a fresh id, inserts the record
// and returns to the main view. The flow returns to main even when
// persistence fails, so the session is never stuck; the failure is reported
// once via the returned error.
func (s *StudioService) SubmitFeedback(ctx context.Context, flow session.Flow, rating int, comment string) (session.Flow, *models.GenerationRecord, error) {
	if !flow.InFeedback() || flow.Pending == nil {
		return flow, nil, ErrNoPending
	}
	if rating < 1 || rating > 10 {
		return flow, nil, ErrInvalidRating
	}

	pending := flow.Pending
	id := uuid.NewString()
	filename := id + ".png"

	size, err := s.images.Save(ctx, filename, pending.Image)
	if err != nil {
		s.log.Error().Err(err).Str("record_id", id).Msg("image write failed")
		return flow.ToMain(), nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	genTime := pending.GenerationTime
	record := models.GenerationRecord{
		ID:             id,
		Prompt:         pending.Prompt,
		Style:          pending.Style,
		Filename:       filename,
		CreatedAt:      time.Now().UTC(),
		GenerationTime: &genTime,
		Status:         models.RecordStatusCompleted,
		FileSize:       &size,
		Feedback: &models.Feedback{
			Rating:  rating,
			Comment: comment,
		},
	}

	if !s.records.Insert(ctx, record) {
		s.log.Error().Str("record_id", id).Msg("record insert failed after feedback")
		return flow.ToMain(), nil, fmt.Errorf("%w: record insert failed", ErrPersistFailed)
	}

	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}

	s.log.Info().
		Str("record_id", id).
		Int("rating", rating).
		Int64("bytes", size).
		Msg("rated generation persisted")

	return flow.ToMain(), &record, nil
}
