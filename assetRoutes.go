package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/altustec/bizadmin_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func registerAssetRoutes(r *gin.Engine) {
	r.POST("/assets", createAssetHandler())
	r.GET("/assets", listAssetsHandler())
	r.GET("/assets/search", searchAssetsHandler())
	r.GET("/assets/stats", assetStatsHandler())
	r.GET("/assets/maintenance/due", assetsDueMaintenanceHandler())
	r.GET("/assets/code/:code", getAssetByCodeHandler())
	r.GET("/assets/:id", getAssetHandler())
	r.PUT("/assets/:id", updateAssetHandler())
	r.DELETE("/assets/:id", deleteAssetHandler())
	r.PUT("/assets/:id/status", updateAssetStatusHandler())
	r.PUT("/assets/:id/assign", assignAssetHandler())
	r.PUT("/assets/:id/unassign", unassignAssetHandler())
	r.PUT("/assets/:id/value", updateAssetValueHandler())
	r.PUT("/assets/:id/maintenance/schedule", scheduleMaintenanceHandler())
	r.PUT("/assets/:id/maintenance/complete", completeMaintenanceHandler())
}

func createAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		var input models.NewAsset
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		asset, err := models.CreateAsset(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, asset)
	}
}

func getAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		asset, err := models.GetAsset(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func getAssetByCodeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		asset, err := models.GetAssetByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func listAssetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.AssetFilter
		if v := c.Query("status"); v != "" {
			status := models.AssetStatus(v)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filter.Status = &status
		}
		filter.Department = c.Query("department")
		if v := c.Query("assigned_to"); v != "" {
			userId, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_to"})
				return
			}
			filter.AssignedTo = &userId
		}
		assets, err := models.ListAssets(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, assets)
	}
}

func searchAssetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		assets, err := models.SearchAssets(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, assets)
	}
}

func updateAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateAssetInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		asset, err := models.UpdateAsset(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func deleteAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		if err := models.DeleteAsset(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateAssetStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			Status models.AssetStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		asset, err := models.UpdateAssetStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func assignAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			UserId int `json:"user_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		asset, err := models.AssignAsset(c.Request.Context(), id, req.UserId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func unassignAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		asset, err := models.UnassignAsset(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func updateAssetValueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			CurrentValue decimal.Decimal `json:"current_value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		asset, err := models.UpdateAssetValue(c.Request.Context(), id, req.CurrentValue)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func scheduleMaintenanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			NextMaintenanceDate time.Time `json:"next_maintenance_date" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		asset, err := models.ScheduleMaintenance(c.Request.Context(), id, req.NextMaintenanceDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func completeMaintenanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		asset, err := models.CompleteMaintenance(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func assetsDueMaintenanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 30
		if v := c.Query("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
				return
			}
			days = n
		}
		assets, err := models.ListAssetsDueMaintenance(c.Request.Context(), time.Duration(days)*24*time.Hour)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, assets)
	}
}

func assetStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetAssetStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
