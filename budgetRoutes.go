package main

import (
	"net/http"
	"strconv"

	"github.com/altustec/bizadmin_backend/models"
	"github.com/gin-gonic/gin"
)

func registerBudgetRoutes(r *gin.Engine) {
	r.POST("/budgets", createBudgetHandler())
	r.GET("/budgets", listBudgetsHandler())
	r.GET("/budgets/search", searchBudgetsHandler())
	r.GET("/budgets/stats", budgetStatsHandler())
	r.GET("/budgets/:id", getBudgetHandler())
	r.PUT("/budgets/:id", updateBudgetHandler())
	r.DELETE("/budgets/:id", deleteBudgetHandler())
	r.PUT("/budgets/:id/status", updateBudgetStatusHandler())
}

func createBudgetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		var input models.NewBudget
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		budget, err := models.CreateBudget(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, budget)
	}
}

func getBudgetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		budget, err := models.GetBudget(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func listBudgetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.BudgetFilter
		if v := c.Query("status"); v != "" {
			status := models.BudgetStatus(v)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filter.Status = &status
		}
		if v := c.Query("type"); v != "" {
			budgetType := models.BudgetType(v)
			if !budgetType.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
				return
			}
			filter.Type = &budgetType
		}
		if v := c.Query("category"); v != "" {
			category := models.BudgetCategory(v)
			if !category.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			filter.Category = &category
		}
		if v := c.Query("user_id"); v != "" {
			userId, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
				return
			}
			filter.UserId = &userId
		}
		budgets, err := models.ListBudgets(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budgets)
	}
}

func searchBudgetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		budgets, err := models.SearchBudgets(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budgets)
	}
}

func updateBudgetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateBudgetInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		budget, err := models.UpdateBudget(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func deleteBudgetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		if err := models.DeleteBudget(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateBudgetStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			Status models.BudgetStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		budget, err := models.UpdateBudgetStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func budgetStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetBudgetStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
