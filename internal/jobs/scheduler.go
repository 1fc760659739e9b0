package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"promptcanvas/internal/session"
	"promptcanvas/internal/storage"
)

// RecordIndex is the slice of the record store the janitor needs to tell
// orphaned image files from live ones.
type RecordIndex interface {
	Connected() bool
	ListFilenames(ctx context.Context) []string
}

// Janitor runs the periodic housekeeping: evicting idle sessions (their
// pending generations die with them) and sweeping image files that no
// record references, which a failed insert after feedback can leave behind.
type Janitor struct {
	cron     *cron.Cron
	sessions *session.Manager
	records  RecordIndex
	images   storage.ImageStore
	log      zerolog.Logger
}

func NewJanitor(sessions *session.Manager, records RecordIndex, images storage.ImageStore, log zerolog.Logger) *Janitor {
	return &Janitor{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		records:  records,
		images:   images,
		log:      log,
	}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("0 */10 * * * *", j.evictIdleSessions); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc("0 0 3 * * *", j.sweepOrphans); err != nil {
		return err
	}

	j.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for a running job to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (j *Janitor) evictIdleSessions() {
	if evicted := j.sessions.EvictIdle(time.Now()); evicted > 0 {
		j.log.Info().Int("evicted", evicted).Msg("idle sessions evicted")
	}
}

func (j *Janitor) sweepOrphans() {
	// without the record collection there is no way to tell an orphan from
	// a live image, so skip the sweep entirely
	if !j.records.Connected() {
		j.log.Debug().Msg("store disconnected, skipping orphan sweep")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	referenced := make(map[string]struct{})
	for _, filename := range j.records.ListFilenames(ctx) {
		referenced[filename] = struct{}{}
	}

	stored, err := j.images.List(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("orphan sweep listing failed")
		return
	}

	removed := 0
	for _, filename := range stored {
		if _, ok := referenced[filename]; ok {
			continue
		}
		if err := j.images.Remove(ctx, filename); err != nil {
			j.log.Warn().Err(err).Str("filename", filename).Msg("orphan removal failed")
			continue
		}
		removed++
	}
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("orphaned image files swept")
	}
}
