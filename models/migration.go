package models

import (
	"log"

	"github.com/altustec/bizadmin_backend/config"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&Supplier{},
		&Customer{},
		&Asset{},
		&ProcurementOrder{},
		&ProcurementItem{},
		&SalesOrder{},
		&SalesItem{},
		&Budget{},
	)
	if err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	}
}
