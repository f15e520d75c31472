package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type startSessionRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
}

// StartSession initializes the dashboard for a doctor and remembers the choice.
func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.session.Initialize(c.Request.Context(), req.DoctorID); err != nil {
		commandError(c, err)
		return
	}
	if h.shiftCache != nil {
		h.shiftCache.Flush()
	}
	if err := h.store.RememberDoctor(c.Request.Context(), req.DoctorID); err != nil {
		log.Warn().Err(err).Str("doctor_id", req.DoctorID).Msg("doctor session not persisted")
	}

	c.JSON(http.StatusOK, h.stateBody())
}

// EndSession closes the push channels, unbinds the doctor and forgets the remembered one.
func (h *Handler) EndSession(c *gin.Context) {
	h.session.End()
	if h.shiftCache != nil {
		h.shiftCache.Flush()
	}
	if err := h.store.ForgetDoctor(c.Request.Context()); err != nil {
		commandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetState returns the session status.
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.stateBody())
}

func (h *Handler) stateBody() gin.H {
	st := h.session.State()
	return gin.H{
		"doctorId":  st.DoctorID,
		"busy":      st.Busy,
		"lastError": st.LastError,
		"overrides": st.Overrides,
	}
}
