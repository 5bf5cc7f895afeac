package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

type (
	VocabService struct {
		repo dal.Repository
		log  *slog.Logger
	}

	ListsOverview struct {
		Lists []dal.VocabList
		// HistoryID is empty when the user has no lists.
		HistoryID string
	}

	ListWords struct {
		ListName string
		Words    []dal.WordInList
	}

	// WordPatch holds the fields to change, nil fields are left as is.
	WordPatch struct {
		Word       *string
		Definition *string
		Categories *string
	}
)

func NewVocabService(repo dal.Repository, log *slog.Logger) *VocabService {
	return &VocabService{
		repo: repo,
		log:  log,
	}
}

func (s *VocabService) GetAllLists(ctx context.Context, userID string) ([]dal.VocabList, error) {
	lists, err := s.repo.FindLists(ctx, userID)
	if err != nil {
		return nil, InternalError("Failed to fetch lists", err)
	}
	return lists, nil
}

func (s *VocabService) GetListsExcludingHistory(ctx context.Context, userID string) (ListsOverview, error) {
	var (
		lists   []dal.VocabList
		history *dal.VocabList
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		lists, err = s.repo.FindLists(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		history, err = s.repo.FindHistoryList(egCtx, userID)
		if errors.Is(err, dal.ErrNotFound) {
			return nil
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return ListsOverview{}, InternalError("Failed to fetch lists", err)
	}

	res := ListsOverview{Lists: make([]dal.VocabList, 0, len(lists))}
	if history != nil {
		res.HistoryID = history.ID
	}
	for _, l := range lists {
		if l.ID != res.HistoryID {
			res.Lists = append(res.Lists, l)
		}
	}

	return res, nil
}

func (s *VocabService) CreateList(ctx context.Context, userID, name string) (*dal.VocabList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ValidationError("Please enter a list name")
	}
	if userID == "" {
		return nil, ValidationError("userId is required")
	}

	list := &dal.VocabList{UserID: userID, Name: name}
	if err := s.repo.InsertList(ctx, list); err != nil {
		return nil, InternalError("Failed to create list", err)
	}

	return list, nil
}

func (s *VocabService) GetWordsInList(ctx context.Context, userID, listID string) (ListWords, error) {
	var (
		list  *dal.VocabList
		words []dal.WordInList
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		list, err = s.repo.FindList(egCtx, userID, listID)
		return err
	})
	eg.Go(func() error {
		var err error
		words, err = s.repo.FindWordsInList(egCtx, userID, listID)
		return err
	})
	if err := eg.Wait(); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return ListWords{}, NotFoundError("List not found")
		}
		return ListWords{}, InternalError("Failed to fetch words", err)
	}

	return ListWords{ListName: list.Name, Words: words}, nil
}

// AddWordToList saves the word unless the list already has it. Words are compared as given.
func (s *VocabService) AddWordToList(ctx context.Context, word dal.WordInList) (*dal.WordInList, error) {
	if word.UserID == "" || word.ListID == "" {
		return nil, ValidationError("userId and listId are required")
	}
	if strings.TrimSpace(word.Word) == "" {
		return nil, ValidationError("Please enter a word")
	}

	_, err := s.repo.FindWordInList(ctx, word.UserID, word.ListID, word.Word)
	switch {
	case err == nil:
		return nil, ConflictError("This word already exists in this list")
	case !errors.Is(err, dal.ErrNotFound):
		return nil, InternalError("Failed to save word", err)
	}

	word.ID = ""
	if err = s.repo.InsertWord(ctx, &word); err != nil {
		return nil, InternalError("Failed to save word", err)
	}

	return &word, nil
}

func (s *VocabService) UpdateWord(ctx context.Context, wordID string, patch WordPatch) (*dal.WordInList, error) {
	word, err := s.repo.FindWord(ctx, wordID)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return nil, NotFoundError("Word not found")
		}
		return nil, InternalError("Failed to update word", err)
	}

	if patch.Word != nil {
		word.Word = *patch.Word
	}
	if patch.Definition != nil {
		word.Definition = *patch.Definition
	}
	if patch.Categories != nil {
		word.Categories = *patch.Categories
	}

	if err = s.repo.UpdateWord(ctx, *word); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return nil, NotFoundError("Word not found")
		}
		return nil, InternalError("Failed to update word", fmt.Errorf("update word %s: %w", wordID, err))
	}

	return word, nil
}

// DeleteWord succeeds for missing words too.
func (s *VocabService) DeleteWord(ctx context.Context, wordID string) error {
	if err := s.repo.DeleteWord(ctx, wordID); err != nil {
		return InternalError("Failed to delete word", err)
	}
	return nil
}
