package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"clinic-desk-backend/config"
	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/mw"
	"clinic-desk-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(session *dashboard.Session, commands dashboard.Commands, s store.Store, webpushOptions *webpush.Options, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	shiftCache := cache.New(ttl, 2*ttl)
	handler := NewHandler(session, commands, s, webpushOptions, shiftCache)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	caching := mw.Cache(shiftCache, ttl)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/session", handler.StartSession)
		api.DELETE("/session", handler.EndSession)
		api.GET("/state", handler.GetState)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		doctor := api.Group("")
		doctor.Use(handler.RequireSession)
		{
			doctor.GET("/profile", handler.GetProfile)
			doctor.GET("/schedule", handler.GetSchedule)
			doctor.GET("/shifts/all", caching, handler.GetAllShifts)

			doctor.GET("/patients", handler.GetPatients)
			doctor.POST("/patients/:registerId/status", handler.UpdatePatientStatus)
			doctor.DELETE("/patients/:registerId/status", handler.ClearPatientStatus)
			doctor.GET("/patients/:registerId/records", handler.GetRegisterRecords)

			doctor.GET("/add-requests", handler.GetAddRequests)
			doctor.POST("/add-requests/:addId/decision", handler.DecideAddRequest)
			doctor.POST("/schedule-changes", handler.SubmitScheduleChange)

			doctor.GET("/notifications", handler.GetNotifications)
		}
	}

	return r
}
