package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func refreshRequested(c *gin.Context) bool {
	return c.Query("refresh") == "true"
}

// GetProfile returns the doctor's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	if refreshRequested(c) {
		h.session.LoadProfile(c.Request.Context())
	}
	st := h.session.State()
	if st.Profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not loaded", "lastError": st.LastError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": st.Profile})
}

// GetSchedule returns the two-week grid of the doctor's own shifts.
func (h *Handler) GetSchedule(c *gin.Context) {
	if refreshRequested(c) {
		h.session.LoadSelfShifts(c.Request.Context())
	}
	grid := h.session.Schedule()
	c.JSON(http.StatusOK, gin.H{
		"columns":     grid.Columns,
		"rows":        grid.Rows,
		"assignments": grid.Assignments(),
		"dropped":     grid.Dropped,
	})
}

// GetAllShifts returns shifts of every doctor, or of the one named by docId.
func (h *Handler) GetAllShifts(c *gin.Context) {
	shifts, err := h.session.FetchAllShifts(c.Request.Context(), c.Query("docId"))
	if err != nil {
		commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// GetPatients returns the roster with local status overrides applied.
func (h *Handler) GetPatients(c *gin.Context) {
	if refreshRequested(c) {
		h.session.LoadPatients(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"patients": h.session.PatientViews()})
}

// GetAddRequests returns the pending add-number applications.
func (h *Handler) GetAddRequests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"addApplications": h.session.AddRequestViews()})
}

// GetNotifications returns the doctor's notifications.
func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.session.NotificationViews()})
}
