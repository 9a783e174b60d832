package main

import (
	"net/http"
	"strconv"

	"github.com/altustec/bizadmin_backend/models"
	"github.com/gin-gonic/gin"
)

func registerSalesRoutes(r *gin.Engine) {
	r.POST("/sales-orders", createSalesOrderHandler())
	r.GET("/sales-orders", listSalesOrdersHandler())
	r.GET("/sales-orders/search", searchSalesOrdersHandler())
	r.GET("/sales-orders/stats", salesStatsHandler())
	r.GET("/sales-orders/number/:number", getSalesOrderByNumberHandler())
	r.GET("/sales-orders/:id", getSalesOrderHandler())
	r.PUT("/sales-orders/:id", updateSalesOrderHandler())
	r.DELETE("/sales-orders/:id", deleteSalesOrderHandler())
	r.PUT("/sales-orders/:id/status", updateSalesStatusHandler())
}

func createSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		var input models.NewSalesOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		order, err := models.CreateSalesOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func getSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetSalesOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func getSalesOrderByNumberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := models.GetSalesOrderByNumber(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listSalesOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.SalesFilter
		if v := c.Query("status"); v != "" {
			status := models.SalesStatus(v)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filter.Status = &status
		}
		if v := c.Query("customer_id"); v != "" {
			customerId, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
				return
			}
			filter.CustomerId = &customerId
		}
		orders, err := models.ListSalesOrders(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func searchSalesOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		orders, err := models.SearchSalesOrders(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func updateSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateSalesOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		order, err := models.UpdateSalesOrder(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func deleteSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		if err := models.DeleteSalesOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateSalesStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req struct {
			Status models.SalesStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		order, err := models.UpdateSalesStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func salesStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetSalesStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
