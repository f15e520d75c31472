package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/transform"
)

type patientStatusRequest struct {
	PatientStatus *model.PatientStatus `json:"patientStatus" binding:"required"`
	DoctorStatus  int                  `json:"doctorStatus"`
}

// UpdatePatientStatus sends the new status to the backend and keeps it as a local
// override so reloads show it too.
func (h *Handler) UpdatePatientStatus(c *gin.Context) {
	var req patientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := *req.PatientStatus
	if !transform.ValidPatientStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown patientStatus"})
		return
	}
	if req.DoctorStatus != model.DoctorPending && req.DoctorStatus != model.DoctorFinished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown doctorStatus"})
		return
	}

	registerID := c.Param("registerId")
	err := h.commands.UpdatePatientStatus(c.Request.Context(), model.PatientStatusUpdate{
		DoctorID:      h.session.DoctorID(),
		RegisterID:    registerID,
		DoctorStatus:  req.DoctorStatus,
		PatientStatus: status,
	})
	if err != nil {
		commandError(c, err)
		return
	}

	h.session.SetPatientStatusOverride(registerID, status)
	log.Info().Str("register_id", registerID).Int("patient_status", int(status)).Msg("patient status updated")
	c.JSON(http.StatusOK, gin.H{
		"registerId":    registerID,
		"patientStatus": status,
		"statusLabel":   transform.PatientStatusLabel(status),
	})
}

// ClearPatientStatus drops the local override for a patient.
func (h *Handler) ClearPatientStatus(c *gin.Context) {
	h.session.ClearPatientStatusOverride(c.Param("registerId"))
	c.Status(http.StatusNoContent)
}

// GetRegisterRecords returns the registration records of a visit.
func (h *Handler) GetRegisterRecords(c *gin.Context) {
	records, err := h.commands.RegisterRecords(c.Request.Context(), c.Param("registerId"), h.session.DoctorID())
	if err != nil {
		commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

type addNumberDecisionRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Note     string `json:"note"`
}

// DecideAddRequest approves or rejects an add-number application.
func (h *Handler) DecideAddRequest(c *gin.Context) {
	var req addNumberDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.commands.SubmitAddNumberResult(c.Request.Context(), model.AddNumberDecision{
		AddID:    c.Param("addId"),
		Approved: *req.Approved,
		Note:     req.Note,
	})
	if err != nil {
		commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SubmitScheduleChange validates and forwards a swap or leave request, then reloads
// the doctor's shifts.
func (h *Handler) SubmitScheduleChange(c *gin.Context) {
	var req model.ScheduleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DoctorID == "" {
		req.DoctorID = h.session.DoctorID()
	}
	if err := dashboard.ValidateScheduleChange(req, h.session.Vocabulary()); err != nil {
		commandError(c, err)
		return
	}

	res, err := h.commands.SubmitScheduleChange(c.Request.Context(), req)
	if err != nil {
		commandError(c, err)
		return
	}

	if h.shiftCache != nil {
		h.shiftCache.Flush()
	}
	h.session.LoadSelfShifts(c.Request.Context())
	c.JSON(http.StatusOK, res)
}
