package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
	"github.com/Roma7-7-7/vocab-api/internal/service"
)

type (
	VocabService interface {
		GetAllLists(ctx context.Context, userID string) ([]dal.VocabList, error)
		GetListsExcludingHistory(ctx context.Context, userID string) (service.ListsOverview, error)
		CreateList(ctx context.Context, userID, name string) (*dal.VocabList, error)
		GetWordsInList(ctx context.Context, userID, listID string) (service.ListWords, error)
		AddWordToList(ctx context.Context, word dal.WordInList) (*dal.WordInList, error)
		UpdateWord(ctx context.Context, wordID string, patch service.WordPatch) (*dal.WordInList, error)
		DeleteWord(ctx context.Context, wordID string) error
	}

	VocabList struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		ListName  string    `json:"listName"`
		IsHistory bool      `json:"isHistory"`
		CreatedAt time.Time `json:"createdAt"`
	}

	WordInList struct {
		ID         string    `json:"id"`
		UserID     string    `json:"userId"`
		ListID     string    `json:"listId"`
		Word       string    `json:"word"`
		Definition string    `json:"definition"`
		Categories string    `json:"categories"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	VocabHandler struct {
		vocab VocabService
		log   *slog.Logger
	}

	userQuery struct {
		UserID string `query:"userId" validate:"required"`
	}

	wordsQuery struct {
		UserID string `query:"userId" validate:"required"`
		ListID string `query:"listId" validate:"required"`
	}

	createListRequest struct {
		UserID   string `json:"userId"`
		ListName string `json:"listName"`
	}

	addWordRequest struct {
		UserID     string `json:"userId"`
		ListID     string `json:"listId"`
		Word       string `json:"word"`
		Definition string `json:"definition"`
		Categories string `json:"categories"`
	}

	updateWordRequest struct {
		ID         string  `param:"id" json:"-" validate:"required"`
		Word       *string `json:"word" validate:"omitempty,min=1"`
		Definition *string `json:"definition"`
		Categories *string `json:"categories"`
	}

	wordIDParam struct {
		ID string `param:"id" validate:"required"`
	}
)

func NewVocabHandler(vocab VocabService, log *slog.Logger) *VocabHandler {
	return &VocabHandler{
		vocab: vocab,
		log:   log,
	}
}

func (h *VocabHandler) GetAllLists(c echo.Context) error {
	var q userQuery
	if err := h.bindAndValidate(c, &q); err != nil {
		return err
	}

	lists, err := h.vocab.GetAllLists(c.Request().Context(), q.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toVocabLists(lists))
}

func (h *VocabHandler) GetListsExcludingHistory(c echo.Context) error {
	var q userQuery
	if err := h.bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.vocab.GetListsExcludingHistory(c.Request().Context(), q.UserID)
	if err != nil {
		return err
	}

	var historyID *string
	if res.HistoryID != "" {
		historyID = &res.HistoryID
	}

	return c.JSON(http.StatusOK, echo.Map{
		"lists":          toVocabLists(res.Lists),
		"vocabHistoryId": historyID,
	})
}

func (h *VocabHandler) CreateList(c echo.Context) error {
	var req createListRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	list, err := h.vocab.CreateList(c.Request().Context(), req.UserID, req.ListName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "List created successfully",
		"list":    toVocabList(*list),
	})
}

func (h *VocabHandler) GetWordsInList(c echo.Context) error {
	var q wordsQuery
	if err := h.bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.vocab.GetWordsInList(c.Request().Context(), q.UserID, q.ListID)
	if err != nil {
		return err
	}

	words := make([]WordInList, len(res.Words))
	for i, w := range res.Words {
		words[i] = toWordInList(w)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"listName": res.ListName,
		"words":    words,
	})
}

func (h *VocabHandler) AddWordToList(c echo.Context) error {
	var req addWordRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	word, err := h.vocab.AddWordToList(c.Request().Context(), dal.WordInList{
		UserID:     req.UserID,
		ListID:     req.ListID,
		Word:       req.Word,
		Definition: req.Definition,
		Categories: req.Categories,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Word saved successfully",
		"word":    toWordInList(*word),
	})
}

func (h *VocabHandler) UpdateWord(c echo.Context) error {
	var req updateWordRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return err
	}

	word, err := h.vocab.UpdateWord(c.Request().Context(), req.ID, service.WordPatch{
		Word:       req.Word,
		Definition: req.Definition,
		Categories: req.Categories,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Word updated successfully",
		"word":    toWordInList(*word),
	})
}

func (h *VocabHandler) DeleteWord(c echo.Context) error {
	var p wordIDParam
	if err := h.bindAndValidate(c, &p); err != nil {
		return err
	}

	if err := h.vocab.DeleteWord(c.Request().Context(), p.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Word deleted successfully"})
}

func (h *VocabHandler) bindAndValidate(c echo.Context, target any) error {
	if err := c.Bind(target); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, BadRequestError.Message)
	}
	return c.Validate(target)
}

func toVocabLists(lists []dal.VocabList) []VocabList {
	res := make([]VocabList, len(lists))
	for i, l := range lists {
		res[i] = toVocabList(l)
	}
	return res
}

func toVocabList(l dal.VocabList) VocabList {
	return VocabList{
		ID:        l.ID,
		UserID:    l.UserID,
		ListName:  l.Name,
		IsHistory: l.IsHistory,
		CreatedAt: l.CreatedAt,
	}
}

func toWordInList(w dal.WordInList) WordInList {
	return WordInList{
		ID:         w.ID,
		UserID:     w.UserID,
		ListID:     w.ListID,
		Word:       w.Word,
		Definition: w.Definition,
		Categories: w.Categories,
		CreatedAt:  w.CreatedAt,
	}
}
