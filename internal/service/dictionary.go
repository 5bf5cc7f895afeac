package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

type (
	DictionaryCacheConfig struct {
		MaxEntries int64
		TTL        time.Duration
	}

	DictionaryService struct {
		repo     dal.DictionaryRepository
		cache    *ristretto.Cache[string, dal.DictionaryEntry]
		cacheTTL time.Duration

		log *slog.Logger
	}
)

func NewDictionaryService(repo dal.DictionaryRepository, conf DictionaryCacheConfig, log *slog.Logger) (*DictionaryService, error) {
	res := &DictionaryService{
		repo:     repo,
		cacheTTL: conf.TTL,
		log:      log,
	}

	if conf.MaxEntries > 0 {
		c, err := ristretto.NewCache(&ristretto.Config[string, dal.DictionaryEntry]{
			NumCounters: conf.MaxEntries * 10, //nolint:mnd // recommended ratio
			MaxCost:     conf.MaxEntries,
			BufferItems: 64, //nolint:mnd // recommended value
		})
		if err != nil {
			return nil, fmt.Errorf("create dictionary cache: %w", err)
		}
		res.cache = c
	}

	return res, nil
}

// NormalizeWord is applied to dictionary words before they are stored or looked up.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func (s *DictionaryService) RandomWord(ctx context.Context) (*dal.DictionaryEntry, error) {
	entry, err := s.repo.FindRandomDictionaryEntry(ctx)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return nil, NotFoundError("No words in dictionary")
		}
		return nil, InternalError("Failed to fetch random word", err)
	}
	return entry, nil
}

func (s *DictionaryService) Definition(ctx context.Context, word string) (*dal.DictionaryEntry, error) {
	word = NormalizeWord(word)

	if s.cache != nil {
		if cached, ok := s.cache.Get(word); ok {
			return &cached, nil
		}
	}

	entry, err := s.repo.FindDictionaryEntry(ctx, word)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return nil, NotFoundError("Word not found")
		}
		return nil, InternalError("Failed to fetch word", err)
	}

	s.remember(*entry)
	return entry, nil
}

// AddWord stores the entry, replacing the definition of an existing word.
func (s *DictionaryService) AddWord(ctx context.Context, entry dal.DictionaryEntry) (*dal.DictionaryEntry, error) {
	entry.ID = ""
	entry.Word = NormalizeWord(entry.Word)

	if err := s.repo.UpsertDictionaryEntry(ctx, &entry); err != nil {
		return nil, InternalError("Failed to add word", err)
	}

	s.remember(entry)
	s.log.DebugContext(ctx, "dictionary word added", "word", entry.Word)
	return &entry, nil
}

// Close releases the cache resources.
func (s *DictionaryService) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

func (s *DictionaryService) remember(entry dal.DictionaryEntry) {
	if s.cache == nil {
		return
	}
	s.cache.Del(entry.Word)
	s.cache.SetWithTTL(entry.Word, entry, 1, s.cacheTTL)
}
