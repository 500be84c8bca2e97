package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csesnitw/MessApp-server/internal/messcard"
)

// GetMessCard serves the display projection for one roll number.
func (h *Handler) GetMessCard(c *gin.Context) {
	card, err := h.cards.Lookup(c.Request.Context(), c.Param("rollNo"))
	if err != nil {
		if errors.Is(err, messcard.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mess card not found"})
			return
		}
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// CreateMessCard writes a new card. The card store is independent of the
// roster; nothing here cross-checks or syncs the student record.
func (h *Handler) CreateMessCard(c *gin.Context) {
	var card messcard.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		h.fail(c, http.StatusBadRequest, "rollNo is required", err)
		return
	}

	if err := h.cards.Create(c.Request.Context(), card); err != nil {
		if errors.Is(err, messcard.ErrDuplicate) {
			h.fail(c, http.StatusConflict, "Mess card already exists", nil)
			return
		}
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}
