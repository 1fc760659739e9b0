package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"promptcanvas/internal/models"
)

const statsCacheKey = "promptcanvas:stats"

// StatsReport is the aggregate view over recent records. TotalRecords is
// the store's full count; the means and histogram are taken over the newest
// scanned records (up to the scan cap), counting absent values as zero, and
// are zero for an empty store.
type StatsReport struct {
	TotalRecords          int64                `json:"totalRecords"`
	ScannedRecords        int                  `json:"scannedRecords"`
	MeanGenerationSeconds float64              `json:"meanGenerationSeconds"`
	MeanFileSizeBytes     float64              `json:"meanFileSizeBytes"`
	StyleHistogram        map[models.Style]int `json:"styleHistogram"`
	RecentPrompts         []string             `json:"recentPrompts"`
}

// StatsService computes the report over the newest records, capped by the
// configured scan limit. A Redis client, when present, caches the computed
// report briefly; every successful insert invalidates it. With no cache the
// report is recomputed per request.
type StatsService struct {
	records       RecordStore
	cache         *redis.Client
	scanCap       int64
	recentPrompts int
	cacheTTL      time.Duration
	log           zerolog.Logger
}

func NewStatsService(records RecordStore, cache *redis.Client, scanCap int64, recentPrompts int, cacheTTL time.Duration, log zerolog.Logger) *StatsService {
	return &StatsService{
		records:       records,
		cache:         cache,
		scanCap:       scanCap,
		recentPrompts: recentPrompts,
		cacheTTL:      cacheTTL,
		log:           log,
	}
}

func (s *StatsService) Report(ctx context.Context) StatsReport {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var report StatsReport
			if err := json.Unmarshal(cached, &report); err == nil {
				return report
			}
		}
	}

	report := s.compute(ctx)

	if s.cache != nil {
		if encoded, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.log.Debug().Err(err).Msg("stats cache write failed")
			}
		}
	}
	return report
}

// Invalidate drops the cached report. Called after every insert.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.log.Debug().Err(err).Msg("stats cache invalidation failed")
	}
}

func (s *StatsService) compute(ctx context.Context) StatsReport {
	records := s.records.ListRecent(ctx, s.scanCap)

	report := StatsReport{
		TotalRecords:   s.records.Count(ctx),
		ScannedRecords: len(records),
		StyleHistogram: make(map[models.Style]int),
		RecentPrompts:  []string{},
	}
	if len(records) == 0 {
		return report
	}

	var totalSeconds, totalBytes float64
	for _, record := range records {
		report.StyleHistogram[record.Style]++
		if record.GenerationTime != nil {
			totalSeconds += *record.GenerationTime
		}
		if record.FileSize != nil {
			totalBytes += float64(*record.FileSize)
		}
	}
	report.MeanGenerationSeconds = totalSeconds / float64(len(records))
	report.MeanFileSizeBytes = totalBytes / float64(len(records))

	// records come back newest first
	for _, record := range records[:min(s.recentPrompts, len(records))] {
		report.RecentPrompts = append(report.RecentPrompts, truncatePrompt(record.Prompt, 50))
	}
	return report
}

// truncatePrompt shortens prompt to max runes for display. Cutting on rune
// boundaries keeps multi-byte prompts valid UTF-8 in the JSON payload.
func truncatePrompt(prompt string, max int) string {
	runes := []rune(prompt)
	if len(runes) <= max {
		return prompt
	}
	return string(runes[:max]) + "..."
}
