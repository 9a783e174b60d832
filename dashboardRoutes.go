package main

import (
	"net/http"

	"github.com/altustec/bizadmin_backend/models"
	"github.com/gin-gonic/gin"
)

func registerDashboardRoutes(r *gin.Engine) {
	r.GET("/dashboard", dashboardHandler())
}

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "dashboard")
		defer span.End()

		data, err := models.GetDashboardData(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}
