package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

type (
	DictionaryService interface {
		RandomWord(ctx context.Context) (*dal.DictionaryEntry, error)
		Definition(ctx context.Context, word string) (*dal.DictionaryEntry, error)
		AddWord(ctx context.Context, entry dal.DictionaryEntry) (*dal.DictionaryEntry, error)
	}

	DictionaryEntry struct {
		ID           string `json:"id"`
		Word         string `json:"word"`
		ShortDef     string `json:"shortdef"`
		Category     string `json:"category"`
		PartOfSpeech string `json:"partOfSpeech"`
	}

	DictionaryHandler struct {
		dictionary DictionaryService
		log        *slog.Logger
	}
)

func NewDictionaryHandler(dictionary DictionaryService, log *slog.Logger) *DictionaryHandler {
	return &DictionaryHandler{
		dictionary: dictionary,
		log:        log,
	}
}

func (h *DictionaryHandler) Random(c echo.Context) error {
	entry, err := h.dictionary.RandomWord(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDictionaryEntry(*entry))
}

func (h *DictionaryHandler) Definition(c echo.Context) error {
	entry, err := h.dictionary.Definition(c.Request().Context(), c.Param("word"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDictionaryEntry(*entry))
}

func (h *DictionaryHandler) AddWord(c echo.Context) error {
	var req DictionaryEntry
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	entry, err := h.dictionary.AddWord(c.Request().Context(), dal.DictionaryEntry{
		Word:            req.Word,
		ShortDefinition: req.ShortDef,
		Category:        req.Category,
		PartOfSpeech:    req.PartOfSpeech,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toDictionaryEntry(*entry))
}

func toDictionaryEntry(e dal.DictionaryEntry) DictionaryEntry {
	return DictionaryEntry{
		ID:           e.ID,
		Word:         e.Word,
		ShortDef:     e.ShortDefinition,
		Category:     e.Category,
		PartOfSpeech: e.PartOfSpeech,
	}
}
