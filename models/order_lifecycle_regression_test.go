package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/models"
	"github.com/altustec/bizadmin_backend/utils"
	"github.com/shopspring/decimal"
)

func setupIntegrationEnv(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "bizadmin_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	ctx = utils.SetUserEmailInContext(ctx, "test@local")
	return ctx
}

func TestSalesOrderLifecycle(t *testing.T) {
	ctx := setupIntegrationEnv(t)
	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name: "Acme Corp",
		Code: "CUST-ACME",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	// Create: 2 x 100 + 1 x 50 = 250, status pending, generated number.
	order, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		CustomerId: customer.ID,
		Items: []models.NewOrderItem{
			{ProductName: "Widget", ProductCode: "WID-01", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductName: "Gadget", ProductCode: "GAD-01", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if order.Status != models.SalesStatusPending {
		t.Errorf("expected status pending, got %s", order.Status)
	}
	if !utils.IsValidBusinessCode(order.OrderNumber) {
		t.Errorf("unexpected order number format %q", order.OrderNumber)
	}
	if !strings.HasPrefix(order.OrderNumber, "SO-") {
		t.Errorf("expected SO prefix, got %q", order.OrderNumber)
	}
	if order.TotalAmount.Cmp(decimal.NewFromInt(250)) != 0 {
		t.Errorf("expected total 250, got %s", order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	// Update with replacement items: old items gone, total recomputed.
	updated, err := models.UpdateSalesOrder(ctx, order.ID, &models.UpdateSalesOrderInput{
		Items: []models.NewOrderItem{
			{ProductName: "Widget", ProductCode: "WID-01", Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("UpdateSalesOrder: %v", err)
	}
	if updated.TotalAmount.Cmp(decimal.NewFromInt(300)) != 0 {
		t.Errorf("expected total 300 after replacement, got %s", updated.TotalAmount)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("expected 1 item after replacement, got %d", len(updated.Items))
	}
	var itemCount int64
	if err := db.WithContext(ctx).Model(&models.SalesItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 1 {
		t.Errorf("expected 1 stored item row, got %d", itemCount)
	}

	// Delivered sets the actual delivery date.
	delivered, err := models.UpdateSalesStatus(ctx, order.ID, models.SalesStatusDelivered)
	if err != nil {
		t.Fatalf("UpdateSalesStatus: %v", err)
	}
	if delivered.Status != models.SalesStatusDelivered {
		t.Errorf("expected delivered, got %s", delivered.Status)
	}
	if delivered.ActualDeliveryDate == nil {
		t.Error("expected actual delivery date to be set on delivered")
	}

	// Delete removes the order and its items.
	if err := models.DeleteSalesOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteSalesOrder: %v", err)
	}
	if _, err := models.GetSalesOrder(ctx, order.ID); err != utils.ErrorRecordNotFound {
		t.Errorf("expected ErrorRecordNotFound after delete, got %v", err)
	}
	if err := db.WithContext(ctx).Model(&models.SalesItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items after delete: %v", err)
	}
	if itemCount != 0 {
		t.Errorf("expected 0 item rows after delete, got %d", itemCount)
	}
}

func TestProcurementOrderApprovalAndStats(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name: "Supply Co",
		Code: "SUP-001",
	})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	order, err := models.CreateProcurementOrder(ctx, &models.NewProcurementOrder{
		SupplierId: supplier.ID,
		Items: []models.NewOrderItem{
			{ProductName: "Desk", ProductCode: "DSK-01", Quantity: 4, UnitPrice: decimal.NewFromInt(250)},
		},
	})
	if err != nil {
		t.Fatalf("CreateProcurementOrder: %v", err)
	}
	if order.Status != models.ProcurementStatusPending {
		t.Errorf("expected pending, got %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderNumber, "PO-") {
		t.Errorf("expected PO prefix, got %q", order.OrderNumber)
	}
	if order.TotalAmount.Cmp(decimal.NewFromInt(1000)) != 0 {
		t.Errorf("expected total 1000, got %s", order.TotalAmount)
	}

	approved, err := models.UpdateProcurementStatus(ctx, order.ID, models.ProcurementStatusApproved)
	if err != nil {
		t.Fatalf("UpdateProcurementStatus(approved): %v", err)
	}
	if approved.ApprovedBy != "Test" {
		t.Errorf("expected approved_by from context, got %q", approved.ApprovedBy)
	}

	completed, err := models.UpdateProcurementStatus(ctx, order.ID, models.ProcurementStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateProcurementStatus(completed): %v", err)
	}
	if completed.ActualDeliveryDate == nil {
		t.Error("expected actual delivery date to be set on completed")
	}

	stats, err := models.GetProcurementStats(ctx)
	if err != nil {
		t.Fatalf("GetProcurementStats: %v", err)
	}
	if stats.TotalOrders != 1 || stats.CompletedOrders != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.TotalAmount.Cmp(decimal.NewFromInt(1000)) != 0 {
		t.Errorf("expected stats total 1000, got %s", stats.TotalAmount)
	}

	// Supplier is now referenced; delete must be refused.
	if err := models.DeleteSupplier(ctx, supplier.ID); !utils.IsValidationError(err) {
		t.Errorf("expected validation error deleting referenced supplier, got %v", err)
	}

	// Approving through the generic update path stamps the approver in the
	// same write as the status change.
	second, err := models.CreateProcurementOrder(ctx, &models.NewProcurementOrder{
		SupplierId: supplier.ID,
		Items: []models.NewOrderItem{
			{ProductName: "Chair", ProductCode: "CHR-01", Quantity: 2, UnitPrice: decimal.NewFromInt(120)},
		},
	})
	if err != nil {
		t.Fatalf("CreateProcurementOrder: %v", err)
	}
	approvedStatus := models.ProcurementStatusApproved
	updated, err := models.UpdateProcurementOrder(ctx, second.ID, &models.UpdateProcurementOrderInput{Status: &approvedStatus})
	if err != nil {
		t.Fatalf("UpdateProcurementOrder(approved): %v", err)
	}
	if updated.ApprovedBy != "Test" {
		t.Errorf("expected approved_by from context, got %q", updated.ApprovedBy)
	}
}

func TestBudgetStatsNetAmount(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	user, err := models.CreateUser(ctx, &models.NewUser{
		Name:     "Finance",
		Email:    "finance@example.com",
		Password: "passw0rd1",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := models.CreateBudget(ctx, &models.NewBudget{
		Title:    "Consulting revenue",
		Amount:   decimal.NewFromInt(1000),
		Category: models.BudgetCategoryOther,
		Type:     models.BudgetTypeIncome,
		UserId:   user.ID,
	}); err != nil {
		t.Fatalf("CreateBudget(income): %v", err)
	}
	if _, err := models.CreateBudget(ctx, &models.NewBudget{
		Title:    "Office chairs",
		Amount:   decimal.NewFromInt(400),
		Category: models.BudgetCategoryOfficeSupplies,
		Type:     models.BudgetTypeExpense,
		UserId:   user.ID,
	}); err != nil {
		t.Fatalf("CreateBudget(expense): %v", err)
	}

	stats, err := models.GetBudgetStats(ctx)
	if err != nil {
		t.Fatalf("GetBudgetStats: %v", err)
	}
	if stats.TotalBudgets != 2 {
		t.Errorf("expected 2 budgets, got %d", stats.TotalBudgets)
	}
	if stats.TotalIncome.Cmp(decimal.NewFromInt(1000)) != 0 {
		t.Errorf("expected income 1000, got %s", stats.TotalIncome)
	}
	if stats.TotalExpense.Cmp(decimal.NewFromInt(400)) != 0 {
		t.Errorf("expected expense 400, got %s", stats.TotalExpense)
	}
	if stats.NetAmount.Cmp(decimal.NewFromInt(600)) != 0 {
		t.Errorf("expected net 600, got %s", stats.NetAmount)
	}
	if stats.PendingCount != 2 {
		t.Errorf("expected 2 pending, got %d", stats.PendingCount)
	}
}

func TestAssetDefaultsAndUserDeletionReleasesAssets(t *testing.T) {
	ctx := setupIntegrationEnv(t)
	db := config.GetDB()

	user, err := models.CreateUser(ctx, &models.NewUser{
		Name:     "Holder",
		Email:    "holder@example.com",
		Password: "passw0rd1",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	price := decimal.NewFromInt(1500)
	asset, err := models.CreateAsset(ctx, &models.NewAsset{
		AssetName:     "MacBook Pro",
		Category:      "IT Equipment",
		PurchaseDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PurchasePrice: price,
		Location:      "HQ",
		Department:    "Engineering",
		AssignedTo:    &user.ID,
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if asset.Status != models.AssetStatusActive {
		t.Errorf("expected default status active, got %s", asset.Status)
	}
	if asset.CurrentValue.Cmp(price) != 0 {
		t.Errorf("expected current value to initialize to purchase price, got %s", asset.CurrentValue)
	}
	if !strings.HasPrefix(asset.AssetCode, "AST-") {
		t.Errorf("expected AST prefix, got %q", asset.AssetCode)
	}
	if asset.AssignedToName() != "Holder" {
		t.Errorf("expected joined assignee name, got %q", asset.AssignedToName())
	}

	// Deleting the user must null the assignment, not orphan it.
	if err := models.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	var released models.Asset
	if err := db.WithContext(ctx).First(&released, asset.ID).Error; err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	if released.AssignedTo != nil {
		t.Errorf("expected assignment to be released, got %v", *released.AssignedTo)
	}

	// Updates against a missing id must not write anything.
	name := "Ghost"
	if _, err := models.UpdateAsset(ctx, 999999, &models.UpdateAssetInput{AssetName: &name}); err != utils.ErrorRecordNotFound {
		t.Errorf("expected ErrorRecordNotFound, got %v", err)
	}
	if err := models.DeleteAsset(ctx, 999999); err != utils.ErrorRecordNotFound {
		t.Errorf("expected ErrorRecordNotFound, got %v", err)
	}
}

func TestDuplicateCodeOneWinner(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	// With the precheck disabled, the unique index decides the winner.
	t.Setenv("DUPLICATE_CODE_PRECHECK", "false")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = models.CreateCustomer(ctx, &models.NewCustomer{
				Name: fmt.Sprintf("Racer %d", i),
				Code: "CUST-RACE",
			})
		}(i)
	}
	wg.Wait()

	var winners, duplicates int
	for _, err := range errs {
		switch err {
		case nil:
			winners++
		case utils.ErrorDuplicateCode:
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 || duplicates != 1 {
		t.Errorf("expected exactly one winner and one duplicate, got winners=%d duplicates=%d", winners, duplicates)
	}
}

func TestGetByCodeDistinguishesMissingFromStorageFailure(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	if _, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name: "Lookup Co",
		Code: "SUP-LOOKUP",
	}); err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	// A missing code is NotFound.
	if _, err := models.GetSupplierByCode(ctx, "NO-SUCH-CODE"); err != utils.ErrorRecordNotFound {
		t.Errorf("expected ErrorRecordNotFound for missing code, got %v", err)
	}

	// A query that fails for infrastructure reasons must not be reported
	// as NotFound.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := models.GetSupplierByCode(cancelled, "SUP-LOOKUP")
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("storage failure reported as ErrorRecordNotFound: %v", err)
	}
	if _, err := models.GetAssetByCode(cancelled, "AST-00000000-XXXX"); errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("storage failure reported as ErrorRecordNotFound: %v", err)
	}
	if _, err := models.GetUserByEmail(cancelled, "nobody@example.com"); errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("storage failure reported as ErrorRecordNotFound: %v", err)
	}
}

func TestPartyStats(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	for i, code := range []string{"SUP-A", "SUP-B", "SUP-C"} {
		supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
			Name: fmt.Sprintf("Supplier %d", i),
			Code: code,
		})
		if err != nil {
			t.Fatalf("CreateSupplier: %v", err)
		}
		if i == 2 {
			if _, err := models.UpdateSupplierStatus(ctx, supplier.ID, models.PartyStatusInactive); err != nil {
				t.Fatalf("UpdateSupplierStatus: %v", err)
			}
		}
	}
	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name: "Sole Customer",
		Code: "CUST-SOLE",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if _, err := models.UpdateCustomerStatus(ctx, customer.ID, models.PartyStatusSuspended); err != nil {
		t.Fatalf("UpdateCustomerStatus: %v", err)
	}

	supplierStats, err := models.GetSupplierStats(ctx)
	if err != nil {
		t.Fatalf("GetSupplierStats: %v", err)
	}
	if supplierStats.TotalSuppliers != 3 || supplierStats.ActiveSuppliers != 2 || supplierStats.InactiveSuppliers != 1 {
		t.Errorf("unexpected supplier stats %+v", supplierStats)
	}
	if got, want := supplierStats.ActiveSuppliers+supplierStats.InactiveSuppliers+supplierStats.SuspendedSuppliers, supplierStats.TotalSuppliers; got != want {
		t.Errorf("per-status counts %d do not add up to total %d", got, want)
	}

	customerStats, err := models.GetCustomerStats(ctx)
	if err != nil {
		t.Fatalf("GetCustomerStats: %v", err)
	}
	if customerStats.TotalCustomers != 1 || customerStats.SuspendedCustomers != 1 || customerStats.ActiveCustomers != 0 {
		t.Errorf("unexpected customer stats %+v", customerStats)
	}
}

func TestCreateBudgetRequiresOwner(t *testing.T) {
	// No signed-in user and no explicit owner: reject before touching storage.
	_, err := models.CreateBudget(context.Background(), &models.NewBudget{
		Title:    "Orphan entry",
		Amount:   decimal.NewFromInt(10),
		Category: models.BudgetCategoryOther,
		Type:     models.BudgetTypeExpense,
	})
	if !utils.IsValidationError(err) {
		t.Errorf("expected validation error for missing owner, got %v", err)
	}
}

func TestSignIn(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	if _, err := models.CreateUser(ctx, &models.NewUser{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "s3cretpass",
		Role:     models.UserRoleAdmin,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, token, err := models.SignIn(ctx, "admin@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if user.Role != models.UserRoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}

	if _, _, err := models.SignIn(ctx, "admin@example.com", "wrongpass"); err != utils.ErrorInvalidCredentials {
		t.Errorf("expected ErrorInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := models.SignIn(ctx, "nobody@local", "s3cretpass"); err != utils.ErrorInvalidCredentials {
		t.Errorf("expected ErrorInvalidCredentials for unknown user, got %v", err)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("bizadmin-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("bizadmin-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=bizadmin_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
