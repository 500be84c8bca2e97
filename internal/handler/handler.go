// Package handler holds the gin handlers for the mess management API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csesnitw/MessApp-server/internal/auth"
	"github.com/csesnitw/MessApp-server/internal/cloudinary"
	"github.com/csesnitw/MessApp-server/internal/config"
	"github.com/csesnitw/MessApp-server/internal/menu"
	"github.com/csesnitw/MessApp-server/internal/messcard"
	"github.com/csesnitw/MessApp-server/internal/roster"
)

// adminStore is the slice of the admin repository the handlers need.
type adminStore interface {
	Login(ctx context.Context, username, password string) (*auth.Admin, error)
}

// Handler wires the services into HTTP endpoints.
type Handler struct {
	cfg    config.App
	loc    *time.Location
	admins adminStore
	roster *roster.Service
	menus  *menu.Service
	cards  *messcard.Service
	cloud  *cloudinary.Client // nil when Cloudinary is not configured
}

// New creates a handler set.
func New(cfg config.App, admins adminStore, rosterSvc *roster.Service, menus *menu.Service, cards *messcard.Service, cloud *cloudinary.Client) *Handler {
	return &Handler{
		cfg:    cfg,
		loc:    cfg.Location(),
		admins: admins,
		roster: rosterSvc,
		menus:  menus,
		cards:  cards,
		cloud:  cloud,
	}
}

// fail writes the structured error response. Diagnostic detail is attached
// outside production only.
func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	resp := gin.H{"message": msg}
	if err != nil && h.cfg.Env != "production" && h.cfg.Env != "prod" {
		resp["error"] = err.Error()
	}
	c.JSON(status, resp)
}

// storeFail maps storage failures; none of them terminate the process.
func (h *Handler) storeFail(c *gin.Context, err error) {
	h.fail(c, http.StatusServiceUnavailable, "Storage unavailable", err)
}

// Root is the liveness text route.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Backend is running")
}
