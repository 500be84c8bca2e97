package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csesnitw/MessApp-server/internal/auth"
	"github.com/csesnitw/MessApp-server/internal/importer"
	"github.com/csesnitw/MessApp-server/internal/menu"
	"github.com/csesnitw/MessApp-server/internal/roster"
)

// AdminLogin verifies username/password against the stored bcrypt hash and
// issues a session token scoped to the admin's mess.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "username and password are required", err)
		return
	}

	admin, err := h.admins.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.fail(c, http.StatusBadRequest, "Invalid credentials", nil)
			return
		}
		h.storeFail(c, err)
		return
	}

	token, _, err := auth.Issue(admin.ID, admin.Role, admin.MessName, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AdminTokenTTL)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "token issue failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"role":     admin.Role,
		"messName": admin.MessName,
	})
}

// ImportRoster accepts a CSV or XLSX upload and inserts one student per row.
// Rows with duplicate roll numbers are skipped and reported, not batch-fatal.
func (h *Handler) ImportRoster(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	defer file.Close()

	rows, err := importer.Decode(header.Filename, file)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Could not parse roster file", err)
		return
	}

	result, err := h.roster.Import(c.Request.Context(), rows)
	if err != nil {
		log.Printf("roster import aborted after %d rows: %v", result.Count, err)
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Roster uploaded successfully",
		"count":   result.Count,
		"skipped": result.Skipped,
	})
}

// ClearStudents deletes every student of the admin's own mess. Other messes
// are never touched; zero deletions is still success.
func (h *Handler) ClearStudents(c *gin.Context) {
	claims, _ := auth.AdminClaims(c)

	deleted, err := h.roster.ClearMess(c.Request.Context(), claims.MessName)
	if err != nil {
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "All students from " + claims.MessName + " cleared successfully",
		"deletedCount": deleted,
	})
}

// RedeemSpecial activates the special-dinner token for every student in the
// admin's mess. Safe to re-run; already-active students are unchanged.
func (h *Handler) RedeemSpecial(c *gin.Context) {
	claims, _ := auth.AdminClaims(c)

	count, err := h.roster.RedeemAll(c.Request.Context(), claims.MessName)
	if err != nil {
		if errors.Is(err, roster.ErrNoStudents) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "No students found in your mess",
				"mess":    claims.MessName,
			})
			return
		}
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Special tokens activated",
		"mess":    claims.MessName,
		"count":   count,
	})
}

// UpsertMenuDay applies a partial update to the canonical entry for one day
// of the admin's mess.
func (h *Handler) UpsertMenuDay(c *gin.Context) {
	h.upsertDay(c, h.menus.UpsertCanonical)
}

// UpsertOverrideDay applies a partial update to the override entry for one
// day of the admin's mess.
func (h *Handler) UpsertOverrideDay(c *gin.Context) {
	h.upsertDay(c, h.menus.UpsertOverride)
}

func (h *Handler) upsertDay(c *gin.Context, upsert func(ctx context.Context, mess, day string, upd menu.Update) (menu.Entry, error)) {
	claims, _ := auth.AdminClaims(c)
	day := c.Param("day")

	var upd menu.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.fail(c, http.StatusBadRequest, "Malformed menu update", err)
		return
	}

	entry, err := upsert(c.Request.Context(), claims.MessName, day, upd)
	if err != nil {
		h.menuError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu for " + day + " updated", "data": entry})
}

// SetWeekMenu replaces the whole canonical week for the admin's mess.
func (h *Handler) SetWeekMenu(c *gin.Context) {
	claims, _ := auth.AdminClaims(c)

	var week []menu.DayUpdate
	if err := c.ShouldBindJSON(&week); err != nil {
		h.fail(c, http.StatusBadRequest, "Provide 7 days menu", err)
		return
	}

	entries, err := h.menus.SetWeek(c.Request.Context(), claims.MessName, week)
	if err != nil {
		h.menuError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Week menu added", "data": entries})
}

// OverrideWeekMenu applies per-day override upserts for the whole week.
func (h *Handler) OverrideWeekMenu(c *gin.Context) {
	claims, _ := auth.AdminClaims(c)

	var week []menu.DayUpdate
	if err := c.ShouldBindJSON(&week); err != nil {
		h.fail(c, http.StatusBadRequest, "Provide 7 days menu", err)
		return
	}

	entries, err := h.menus.OverrideWeek(c.Request.Context(), claims.MessName, week)
	if err != nil {
		h.menuError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Week updated successfully", "data": entries})
}

// DeleteOverride removes one day's override; resolution falls back to the
// canonical entry afterwards.
func (h *Handler) DeleteOverride(c *gin.Context) {
	claims, _ := auth.AdminClaims(c)
	day := c.Param("day")

	deleted, err := h.menus.DeleteOverride(c.Request.Context(), claims.MessName, day)
	if err != nil {
		h.menuError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override for " + day + " deleted", "data": deleted})
}

func (h *Handler) menuError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, menu.ErrBadDay), errors.Is(err, menu.ErrBadWeek):
		h.fail(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, menu.ErrNotFound):
		h.fail(c, http.StatusNotFound, "No override found", nil)
	default:
		h.storeFail(c, err)
	}
}
