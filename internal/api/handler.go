package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/normalize"
	"clinic-desk-backend/internal/store"
	"clinic-desk-backend/internal/upstream"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	session    *dashboard.Session
	commands   dashboard.Commands
	store      store.Store
	webpush    *webpush.Options
	shiftCache *cache.Cache
}

// NewHandler creates a new API handler.
func NewHandler(session *dashboard.Session, commands dashboard.Commands, s store.Store, webpushOptions *webpush.Options, shiftCache *cache.Cache) *Handler {
	return &Handler{
		session:    session,
		commands:   commands,
		store:      s,
		webpush:    webpushOptions,
		shiftCache: shiftCache,
	}
}

// RequireSession rejects requests until a doctor session has been initialized.
func (h *Handler) RequireSession(c *gin.Context) {
	if h.session.DoctorID() == "" {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "no active doctor session"})
		return
	}
	c.Next()
}

// commandError maps backend and validation errors to HTTP statuses.
func commandError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, upstream.ErrRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, upstream.ErrTransport), errors.Is(err, normalize.ErrMalformedResponse):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
