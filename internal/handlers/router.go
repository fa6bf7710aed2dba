package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Profiles     *ProfileHandler
	Employers    *EmployerHandler
	Email        *EmailHandler
	Admin        *AdminHandler

	// UploadsDir is served at /uploads and /download-resume when set.
	UploadsDir  string
	CORSOrigins []string
	Logger      *zap.Logger
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func NewRouter(deps RouterDeps) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(requestLogger(deps.Logger), gin.Recovery())

	config := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = deps.CORSOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	if deps.UploadsDir != "" {
		r.Static("/uploads", deps.UploadsDir)
		r.GET("/download-resume/:filename", DownloadUpload(deps.UploadsDir))
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		jobs := api.Group("/jobs")
		jobs.POST("", deps.Jobs.CreateJob)
		jobs.POST("/extract", deps.Jobs.ParseJob)
		jobs.GET("", deps.Jobs.ListJobs)
		jobs.GET("/employer/:email", deps.Jobs.ListByEmployer)
		jobs.GET("/suggested/:email", deps.Jobs.SuggestedJobs)
		jobs.GET("/suggested/:email/:jobId", deps.Jobs.SuggestedCandidates)
		jobs.GET("/:id", deps.Jobs.GetJob)
		jobs.PUT("/:id", deps.Jobs.UpdateJob)
		jobs.DELETE("/:id", deps.Jobs.DeleteJob)

		apps := api.Group("/applications")
		apps.POST("", deps.Applications.Submit)
		apps.GET("/employer/:email", deps.Applications.ListByEmployer)
		apps.GET("/user/:email", deps.Applications.ListByCandidate)
		apps.GET("/job/:jobId", deps.Applications.ListByJob)
		apps.GET("/accepted/employer/:email", deps.Applications.ListAcceptedByEmployer)
		apps.GET("/accepted/user/:email", deps.Applications.ListAcceptedByCandidate)
		apps.GET("/accepted/job/:jobId", deps.Applications.ListAcceptedByJob)
		apps.GET("/:id", deps.Applications.Get)
		apps.PATCH("/:id", deps.Applications.UpdateStatus)

		profiles := api.Group("/profiles")
		profiles.POST("", deps.Profiles.Submit)
		profiles.GET("", deps.Profiles.List)
		profiles.GET("/:email", deps.Profiles.Get)
		profiles.PUT("/:email", deps.Profiles.Update)

		employers := api.Group("/employers")
		employers.GET("", deps.Employers.List)
		employers.GET("/:email", deps.Employers.Get)
		employers.PUT("/:email", deps.Employers.Upsert)

		api.POST("/resumes", deps.Profiles.UploadResume)
		api.POST("/email/send-acceptance", deps.Email.SendAcceptance)
		api.GET("/admin/dashboard-stats", deps.Admin.DashboardStats)
	}
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
