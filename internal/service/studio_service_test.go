package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcanvas/internal/models"
	"promptcanvas/internal/session"
	"promptcanvas/internal/storage"
)

type fakeGenerator struct {
	data       []byte
	err        error
	calls      int
	lastPrompt string
	lastStyle  models.Style
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, style models.Style) ([]byte, error) {
	g.calls++
	g.lastPrompt = prompt
	g.lastStyle = style
	if g.err != nil {
		return nil, g.err
	}
	return g.data, nil
}

type fakeRecordStore struct {
	inserted   []models.GenerationRecord
	failInsert bool
}

func (s *fakeRecordStore) Insert(ctx context.Context, record models.GenerationRecord) bool {
	if s.failInsert {
		return false
	}
	s.inserted = append(s.inserted, record)
	return true
}

func (s *fakeRecordStore) ListRecent(ctx context.Context, limit int64) []models.GenerationRecord {
	if int64(len(s.inserted)) <= limit {
		out := make([]models.GenerationRecord, len(s.inserted))
		copy(out, s.inserted)
		return out
	}
	return append([]models.GenerationRecord{}, s.inserted[:limit]...)
}

func (s *fakeRecordStore) ListPromptHistory(ctx context.Context) []models.PromptHistoryEntry {
	entries := make([]models.PromptHistoryEntry, 0, len(s.inserted))
	for _, record := range s.inserted {
		entries = append(entries, models.PromptHistoryEntry{
			Prompt:    record.Prompt,
			Style:     record.Style,
			CreatedAt: record.CreatedAt,
		})
	}
	return entries
}

func (s *fakeRecordStore) Count(ctx context.Context) int64 { return int64(len(s.inserted)) }

func (s *fakeRecordStore) Delete(ctx context.Context, id string) bool {
	for i, record := range s.inserted {
		if record.ID == id {
			s.inserted = append(s.inserted[:i], s.inserted[i+1:]...)
			return true
		}
	}
	return false
}

func newTestStudio(t *testing.T, gen *fakeGenerator, records *fakeRecordStore) (*StudioService, storage.ImageStore) {
	t.Helper()
	images, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return NewStudioService(gen, records, images, nil, zerolog.Nop()), images
}

func TestGenerateEmptyPromptSkipsClient(t *testing.T) {
	gen := &fakeGenerator{data: []byte("img")}
	studio, _ := newTestStudio(t, gen, &fakeRecordStore{})

	for _, prompt := range []string{"", "   ", "\n\t"} {
		flow, err := studio.Generate(context.Background(), session.NewFlow(), prompt, "fantasy")
		require.ErrorIs(t, err, ErrEmptyPrompt)
		assert.True(t, flow.InMain())
	}
	assert.Zero(t, gen.calls)
}

func TestGenerateUnknownStyleRejected(t *testing.T) {
	gen := &fakeGenerator{data: []byte("img")}
	studio, _ := newTestStudio(t, gen, &fakeRecordStore{})

	flow, err := studio.Generate(context.Background(), session.NewFlow(), "a fox", "vaporwave")
	require.ErrorIs(t, err, ErrUnknownStyle)
	assert.True(t, flow.InMain())
	assert.Zero(t, gen.calls)
}

func TestGenerateSuccessAdvancesWithoutPersisting(t *testing.T) {
	gen := &fakeGenerator{data: []byte("png-bytes")}
	records := &fakeRecordStore{}
	studio, _ := newTestStudio(t, gen, records)

	flow, err := studio.Generate(context.Background(), session.NewFlow(), "a red fox in snow", "fantasy")
	require.NoError(t, err)

	require.True(t, flow.InFeedback())
	require.NotNil(t, flow.Pending)
	assert.Equal(t, "a red fox in snow", flow.Pending.Prompt)
	assert.Equal(t, models.StyleFantasy, flow.Pending.Style)
	assert.Equal(t, []byte("png-bytes"), flow.Pending.Image)
	assert.GreaterOrEqual(t, flow.Pending.GenerationTime, 0.0)

	// nothing reaches the store until feedback lands
	assert.Empty(t, records.inserted)
}

func TestGenerateFailureKeepsFlow(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("remote exploded")}
	studio, _ := newTestStudio(t, gen, &fakeRecordStore{})

	flow, err := studio.Generate(context.Background(), session.NewFlow(), "a fox", "cartoon")
	require.Error(t, err)
	assert.True(t, flow.InMain())
	assert.Nil(t, flow.Pending)
}

func TestGenerateRejectedWhileFeedbackPending(t *testing.T) {
	gen := &fakeGenerator{data: []byte("img")}
	studio, _ := newTestStudio(t, gen, &fakeRecordStore{})

	pending := session.NewFlow().ToFeedback(session.Pending{Image: []byte("x"), Prompt: "p", Style: models.StyleAbstract})

	flow, err := studio.Generate(context.Background(), pending, "another", "fantasy")
	require.ErrorIs(t, err, ErrPendingFeedback)
	assert.True(t, flow.InFeedback())
	assert.Zero(t, gen.calls)
}

func TestSubmitFeedbackPersistsExactlyOneRecord(t *testing.T) {
	records := &fakeRecordStore{}
	studio, images := newTestStudio(t, &fakeGenerator{}, records)

	pending := session.NewFlow().ToFeedback(session.Pending{
		Image:          []byte("png-bytes"),
		Prompt:         "a red fox in snow",
		Style:          models.StyleFantasy,
		GenerationTime: 31.7,
	})

	flow, record, err := studio.SubmitFeedback(context.Background(), pending, 8, "great lighting")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.True(t, flow.InMain())
	assert.Nil(t, flow.Pending)

	require.Len(t, records.inserted, 1)
	stored := records.inserted[0]
	assert.Equal(t, record.ID, stored.ID)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "a red fox in snow", stored.Prompt)
	assert.Equal(t, models.StyleFantasy, stored.Style)
	assert.Equal(t, stored.ID+".png", stored.Filename)
	assert.Equal(t, models.RecordStatusCompleted, stored.Status)
	require.NotNil(t, stored.GenerationTime)
	assert.Equal(t, 31.7, *stored.GenerationTime)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, 8, stored.Feedback.Rating)
	assert.Equal(t, "great lighting", stored.Feedback.Comment)

	// file size matches the bytes actually written
	require.NotNil(t, stored.FileSize)
	assert.Equal(t, int64(len("png-bytes")), *stored.FileSize)

	data, err := images.Load(context.Background(), stored.Filename)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSubmitFeedbackUniqueIDs(t *testing.T) {
	records := &fakeRecordStore{}
	studio, _ := newTestStudio(t, &fakeGenerator{}, records)

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		pending := session.NewFlow().ToFeedback(session.Pending{Image: []byte("x"), Prompt: "p", Style: models.StyleCartoon})
		_, record, err := studio.SubmitFeedback(context.Background(), pending, 5, "")
		require.NoError(t, err)
		_, dup := seen[record.ID]
		require.False(t, dup)
		seen[record.ID] = struct{}{}
	}
}

func TestSubmitFeedbackRatingBounds(t *testing.T) {
	studio, _ := newTestStudio(t, &fakeGenerator{}, &fakeRecordStore{})

	pending := session.NewFlow().ToFeedback(session.Pending{Image: []byte("x"), Prompt: "p", Style: models.StyleCartoon})

	for _, rating := range []int{0, -1, 11, 100} {
		flow, record, err := studio.SubmitFeedback(context.Background(), pending, rating, "")
		require.ErrorIs(t, err, ErrInvalidRating)
		assert.Nil(t, record)
		// invalid input does not consume the pending generation
		assert.True(t, flow.InFeedback())
	}

	for _, rating := range []int{1, 10} {
		pending := session.NewFlow().ToFeedback(session.Pending{Image: []byte("x"), Prompt: "p", Style: models.StyleCartoon})
		_, record, err := studio.SubmitFeedback(context.Background(), pending, rating, "")
		require.NoError(t, err)
		assert.Equal(t, rating, record.Feedback.Rating)
	}
}

func TestSubmitFeedbackWithoutPending(t *testing.T) {
	studio, _ := newTestStudio(t, &fakeGenerator{}, &fakeRecordStore{})

	flow, record, err := studio.SubmitFeedback(context.Background(), session.NewFlow(), 5, "")
	require.ErrorIs(t, err, ErrNoPending)
	assert.Nil(t, record)
	assert.True(t, flow.InMain())
}

func TestSubmitFeedbackInsertFailureStillReturnsToMain(t *testing.T) {
	records := &fakeRecordStore{failInsert: true}
	studio, _ := newTestStudio(t, &fakeGenerator{}, records)

	pending := session.NewFlow().ToFeedback(session.Pending{Image: []byte("x"), Prompt: "p", Style: models.StyleRealistic})

	flow, record, err := studio.SubmitFeedback(context.Background(), pending, 7, "nice")
	require.ErrorIs(t, err, ErrPersistFailed)
	assert.Nil(t, record)

	// the session must not hang in the feedback view
	assert.True(t, flow.InMain())
	assert.Empty(t, records.ListRecent(context.Background(), 100))
}
