package main

import (
	"net/http"
	"strconv"

	"github.com/altustec/bizadmin_backend/models"
	"github.com/gin-gonic/gin"
)

func registerProcurementRoutes(r *gin.Engine) {
	r.POST("/procurement-orders", createProcurementOrderHandler())
	r.GET("/procurement-orders", listProcurementOrdersHandler())
	r.GET("/procurement-orders/search", searchProcurementOrdersHandler())
	r.GET("/procurement-orders/stats", procurementStatsHandler())
	r.GET("/procurement-orders/number/:number", getProcurementOrderByNumberHandler())
	r.GET("/procurement-orders/:id", getProcurementOrderHandler())
	r.PUT("/procurement-orders/:id", updateProcurementOrderHandler())
	r.DELETE("/procurement-orders/:id", deleteProcurementOrderHandler())
	r.PUT("/procurement-orders/:id/status", updateProcurementStatusHandler())
}

func createProcurementOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		var input models.NewProcurementOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		order, err := models.CreateProcurementOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func getProcurementOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetProcurementOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func getProcurementOrderByNumberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := models.GetProcurementOrderByNumber(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listProcurementOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ProcurementFilter
		if v := c.Query("status"); v != "" {
			status := models.ProcurementStatus(v)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filter.Status = &status
		}
		if v := c.Query("supplier_id"); v != "" {
			supplierId, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier_id"})
				return
			}
			filter.SupplierId = &supplierId
		}
		orders, err := models.ListProcurementOrders(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func searchProcurementOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		orders, err := models.SearchProcurementOrders(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func updateProcurementOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateProcurementOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		order, err := models.UpdateProcurementOrder(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func deleteProcurementOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		if err := models.DeleteProcurementOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateProcurementStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			Status models.ProcurementStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		order, err := models.UpdateProcurementStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func procurementStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetProcurementStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
