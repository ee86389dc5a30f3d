package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-stash/backend/internal/collection"
	"github.com/codyseavey/card-stash/backend/internal/models"
	"github.com/codyseavey/card-stash/backend/internal/stats"
)

type CardHandler struct {
	cards  *collection.Controller
	engine *stats.Engine
}

func NewCardHandler(cards *collection.Controller, engine *stats.Engine) *CardHandler {
	return &CardHandler{cards: cards, engine: engine}
}

// ListCards returns the cards matching the query/tag/status filters.
// Absent filters match everything.
func (h *CardHandler) ListCards(c *gin.Context) {
	f := collection.Filter{
		Query:  c.Query("query"),
		Tag:    c.DefaultQuery("tag", collection.TagAll),
		Status: c.DefaultQuery("status", collection.StatusAll),
	}
	cards := h.cards.List(f)
	c.JSON(http.StatusOK, gin.H{
		"cards": cards,
		"count": len(cards),
	})
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	var input models.CardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cards.Create(input)
	if err != nil {
		writeCardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	var input models.CardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, found, err := h.cards.Update(c.Param("id"), input)
	if err != nil {
		writeCardError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

// DeleteCard always answers 204: deleting an unknown ID is a no-op.
// The confirmation prompt belongs to the caller.
func (h *CardHandler) DeleteCard(c *gin.Context) {
	h.cards.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// GetStats returns the dashboard aggregates plus both chart projections.
func (h *CardHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"summary":       h.engine.Summary(),
		"distribution":  h.engine.Distribution(),
		"monthlyProfit": h.engine.MonthlyRealizedProfit(),
	})
}

// GetTags returns the preset category vocabulary for the editing UI.
func (h *CardHandler) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": models.PresetTags})
}

func writeCardError(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "missing or invalid fields",
			"fields": verr.Fields,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
