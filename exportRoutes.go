package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerExportRoutes(r *gin.Engine) {
	r.GET("/export/assets", exportAssetsHandler())
	r.GET("/export/budgets", exportBudgetsHandler())
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func sendWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "exportRoutes.go", "sendWorkbook", "write", filename, err)
	}
}

func exportAssetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		assets, err := models.ListAssets(c.Request.Context(), models.AssetFilter{})
		if err != nil {
			respondError(c, err)
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := "Assets"
		f.SetSheetName(f.GetSheetName(0), sheet)

		headers := []string{
			"Asset Code", "Name", "Category", "Brand", "Model", "Serial Number",
			"Status", "Location", "Department", "Assigned To",
			"Purchase Date", "Purchase Price", "Current Value",
		}
		if err := writeHeaderRow(f, sheet, headers); err != nil {
			respondError(c, err)
			return
		}
		for i, a := range assets {
			purchasePrice, _ := a.PurchasePrice.Float64()
			currentValue, _ := a.CurrentValue.Float64()
			row := []interface{}{
				a.AssetCode, a.AssetName, a.Category, a.Brand, a.Model, a.SerialNumber,
				string(a.Status), a.Location, a.Department, a.AssignedToName(),
				a.PurchaseDate.Format("2006-01-02"), purchasePrice, currentValue,
			}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				respondError(c, err)
				return
			}
		}

		filename := fmt.Sprintf("assets-%s.xlsx", time.Now().Format("20060102"))
		sendWorkbook(c, f, filename)
		c.Status(http.StatusOK)
	}
}

func exportBudgetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		budgets, err := models.ListBudgets(c.Request.Context(), models.BudgetFilter{})
		if err != nil {
			respondError(c, err)
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := "Budgets"
		f.SetSheetName(f.GetSheetName(0), sheet)

		headers := []string{
			"Title", "Category", "Type", "Status", "Amount", "Owner", "Created At",
		}
		if err := writeHeaderRow(f, sheet, headers); err != nil {
			respondError(c, err)
			return
		}
		for i, b := range budgets {
			amount, _ := b.Amount.Float64()
			owner := ""
			if b.User != nil {
				owner = b.User.Name
			}
			row := []interface{}{
				b.Title, string(b.Category), string(b.Type), string(b.Status),
				amount, owner, b.CreatedAt.Format("2006-01-02"),
			}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				respondError(c, err)
				return
			}
		}

		filename := fmt.Sprintf("budgets-%s.xlsx", time.Now().Format("20060102"))
		sendWorkbook(c, f, filename)
		c.Status(http.StatusOK)
	}
}
