package repository

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promptcanvas/internal/config"
	"promptcanvas/internal/models"
)

// RecordStore wraps the MongoDB collection of generation records.
//
// The store is allowed to be disconnected: Connect failing (or never being
// called) leaves every operation in degraded mode, where reads return empty
// results, Count returns zero and writes return false. Driver errors are
// logged here and never propagate to callers.
type RecordStore struct {
	cfg config.MongoConfig
	log zerolog.Logger

	mu         sync.RWMutex
	client     *mongo.Client
	collection *mongo.Collection
}

func NewRecordStore(cfg config.MongoConfig, log zerolog.Logger) *RecordStore {
	return &RecordStore{cfg: cfg, log: log}
}

// Connect establishes the client session and verifies it with a ping.
// Failure is not fatal: the store stays disconnected and degraded.
func (s *RecordStore) Connect(ctx context.Context) bool {
	if s.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.cfg.URI))
	if err != nil {
		s.log.Warn().Err(err).Msg("mongo connect failed, store degraded")
		return false
	}

	if err := client.Ping(ctx, nil); err != nil {
		s.log.Warn().Err(err).Msg("mongo ping failed, store degraded")
		_ = client.Disconnect(context.Background())
		return false
	}

	s.mu.Lock()
	s.client = client
	s.collection = client.Database(s.cfg.Database).Collection(s.cfg.Collection)
	s.mu.Unlock()

	s.log.Info().Str("database", s.cfg.Database).Str("collection", s.cfg.Collection).Msg("mongo connected")
	return true
}

// Connected reports whether the store has a live collection handle.
func (s *RecordStore) Connected() bool {
	return s.coll() != nil
}

func (s *RecordStore) coll() *mongo.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection
}

// Insert writes one record. Returns false when disconnected or on any driver
// failure; a record is either fully written or not at all.
func (s *RecordStore) Insert(ctx context.Context, record models.GenerationRecord) bool {
	coll := s.coll()
	if coll == nil {
		s.log.Warn().Str("record_id", record.ID).Msg("store disconnected, skipping insert")
		return false
	}

	if _, err := coll.InsertOne(ctx, record); err != nil {
		s.log.Error().Err(err).Str("record_id", record.ID).Msg("insert record failed")
		return false
	}
	return true
}

// ListRecent returns up to limit records, newest first. Empty slice when
// disconnected or on failure.
func (s *RecordStore) ListRecent(ctx context.Context, limit int64) []models.GenerationRecord {
	coll := s.coll()
	if coll == nil {
		return []models.GenerationRecord{}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		s.log.Error().Err(err).Msg("list recent records failed")
		return []models.GenerationRecord{}
	}

	var records []models.GenerationRecord
	if err := cursor.All(ctx, &records); err != nil {
		s.log.Error().Err(err).Msg("decode recent records failed")
		return []models.GenerationRecord{}
	}
	if records == nil {
		records = []models.GenerationRecord{}
	}
	return records
}

// ListPromptHistory returns the prompt/style/time projection of every record,
// newest first.
func (s *RecordStore) ListPromptHistory(ctx context.Context) []models.PromptHistoryEntry {
	coll := s.coll()
	if coll == nil {
		return []models.PromptHistoryEntry{}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.D{
			{Key: "prompt", Value: 1},
			{Key: "expected_style", Value: 1},
			{Key: "created_at", Value: 1},
		})

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		s.log.Error().Err(err).Msg("list prompt history failed")
		return []models.PromptHistoryEntry{}
	}

	var entries []models.PromptHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		s.log.Error().Err(err).Msg("decode prompt history failed")
		return []models.PromptHistoryEntry{}
	}
	if entries == nil {
		entries = []models.PromptHistoryEntry{}
	}
	return entries
}

// Count returns the total number of records, zero when disconnected.
func (s *RecordStore) Count(ctx context.Context) int64 {
	coll := s.coll()
	if coll == nil {
		return 0
	}

	n, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		s.log.Error().Err(err).Msg("count records failed")
		return 0
	}
	return n
}

// Delete removes the record with the given id. Returns false when nothing
// matched, on failure or when disconnected.
func (s *RecordStore) Delete(ctx context.Context, id string) bool {
	coll := s.coll()
	if coll == nil {
		return false
	}

	result, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		s.log.Error().Err(err).Str("record_id", id).Msg("delete record failed")
		return false
	}
	return result.DeletedCount > 0
}

// ListFilenames returns the storage filename of every record. Used by the
// orphan-file janitor.
func (s *RecordStore) ListFilenames(ctx context.Context) []string {
	coll := s.coll()
	if coll == nil {
		return []string{}
	}

	opts := options.Find().SetProjection(bson.D{{Key: "filename", Value: 1}})
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		s.log.Error().Err(err).Msg("list filenames failed")
		return []string{}
	}

	var docs []struct {
		Filename string `bson:"filename"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		s.log.Error().Err(err).Msg("decode filenames failed")
		return []string{}
	}

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Filename != "" {
			names = append(names, doc.Filename)
		}
	}
	return names
}

// Close disconnects the underlying client, if any.
func (s *RecordStore) Close(ctx context.Context) {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.collection = nil
	s.mu.Unlock()

	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		s.log.Error().Err(err).Msg("mongo disconnect error")
	}
}
