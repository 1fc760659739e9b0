package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcanvas/internal/session"
	"promptcanvas/internal/storage"
)

type fakeIndex struct {
	connected bool
	filenames []string
}

func (f *fakeIndex) Connected() bool                            { return f.connected }
func (f *fakeIndex) ListFilenames(ctx context.Context) []string { return f.filenames }

func newTestJanitor(t *testing.T, index *fakeIndex) (*Janitor, storage.ImageStore) {
	t.Helper()
	images, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	sessions := session.NewManager(time.Hour)
	return NewJanitor(sessions, index, images, zerolog.Nop()), images
}

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	index := &fakeIndex{connected: true, filenames: []string{"live.png"}}
	janitor, images := newTestJanitor(t, index)

	ctx := context.Background()
	_, err := images.Save(ctx, "live.png", []byte("keep"))
	require.NoError(t, err)
	_, err = images.Save(ctx, "orphan.png", []byte("drop"))
	require.NoError(t, err)

	janitor.sweepOrphans()

	names, err := images.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"live.png"}, names)
}

func TestSweepSkippedWhenStoreDisconnected(t *testing.T) {
	index := &fakeIndex{connected: false}
	janitor, images := newTestJanitor(t, index)

	ctx := context.Background()
	_, err := images.Save(ctx, "maybe-orphan.png", []byte("x"))
	require.NoError(t, err)

	janitor.sweepOrphans()

	names, err := images.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"maybe-orphan.png"}, names)
}
