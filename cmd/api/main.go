package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-store-pos/internal/config"
	"go-store-pos/internal/handler"
	"go-store-pos/internal/middleware"
	"go-store-pos/internal/model"
	"go-store-pos/internal/repository"
	"go-store-pos/internal/service"
	"go-store-pos/internal/sheets"
	"go-store-pos/internal/ws"
	"go-store-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.Expense{}, &model.User{}, &model.Privilege{}, &model.Role{})

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	var pusher service.SheetPusher
	if cfg.SheetsConfigured() {
		pusher = sheets.New(sheets.Config{
			ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
			PrivateKeyPEM:       cfg.GoogleServiceAccountKey,
			SpreadsheetID:       cfg.GoogleSpreadsheetID,
		})
	}

	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	checkoutService := service.NewCheckoutService(productRepo, txRepo, wsHub)
	analyticsService := service.NewAnalyticsService(productRepo, txRepo, cfg.LowStockThreshold)
	exportService := service.NewExportService(productRepo, txRepo, expenseRepo, pusher)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, txRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, cfg.RevenueWindowDays)
	expenseHandler := handler.NewExpenseHandler(expenseRepo)
	exportHandler := handler.NewExportHandler(exportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)
	scanHandler := handler.NewScanHandler(catalogService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "School Store POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog Routes (with privilege checks)
	protected.Get("/products", middleware.RequirePrivilege("product:view"), catalogHandler.GetProducts)
	protected.Get("/products/barcode/:barcode", middleware.RequirePrivilege("product:view"), catalogHandler.ResolveBarcode)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), catalogHandler.DeleteProduct)
	protected.Post("/products/:id/restock", middleware.RequirePrivilege("product:update"), catalogHandler.Restock)

	// Sales Routes
	protected.Post("/checkout", middleware.RequirePrivilege("checkout:create"), checkoutHandler.Checkout)
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), checkoutHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), checkoutHandler.GetTransaction)

	// Expense Routes
	protected.Get("/expenses", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpenses)
	protected.Post("/expenses", middleware.RequirePrivilege("expense:create"), expenseHandler.CreateExpense)

	// Analytics Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("analytics:view"), analyticsHandler.GetDashboardStats)
	protected.Get("/analytics/categories", middleware.RequirePrivilege("analytics:view"), analyticsHandler.GetCategoryBreakdown)
	protected.Get("/analytics/stock-levels", middleware.RequirePrivilege("analytics:view"), analyticsHandler.GetStockLevels)
	protected.Get("/analytics/revenue", middleware.RequirePrivilege("analytics:view"), analyticsHandler.GetRevenueSeries)

	// Export Routes
	protected.Post("/export/sheets", middleware.RequirePrivilege("export:run"), exportHandler.SyncSheets)
	protected.Get("/export/workbook", middleware.RequireAnyPrivilege("export:run", "analytics:view"), exportHandler.DownloadWorkbook)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
	app.Get("/ws/scan", websocket.New(scanHandler.Feed))

	// 8. Scheduled Sheets Sync
	var sched *cron.Cron
	if cfg.SheetsConfigured() {
		sched = cron.New()
		if _, err := sched.AddFunc(cfg.SheetsSyncCron, func() {
			runSheetsSync(exportService)
		}); err != nil {
			log.Printf("Warning: invalid SHEETS_SYNC_CRON %q: %v", cfg.SheetsSyncCron, err)
		} else {
			sched.Start()
			log.Printf("Sheets sync scheduled: %s", cfg.SheetsSyncCron)
		}
	}

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if sched != nil {
		<-sched.Stop().Done()
	}
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func runSheetsSync(export service.ExportService) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stats, err := export.SyncToSheets(ctx)
	if err != nil {
		log.Printf("Sheets sync failed: %v", err)
		return
	}
	log.Printf("Sheets sync done: %d products, %d transactions, %d expenses",
		stats.Products, stats.Transactions, stats.Expenses)
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// STAFF runs the register and manages stock
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		staffPrivileges, _ := privilegeRepo.FindByCodes(model.StaffPrivilegeCodes)
		db.Model(&staffRole).Association("Privileges").Replace(staffPrivileges)
		log.Println("STAFF role assigned register privileges")
	}

	// VIEWER is read-only
	viewerRole, err := roleRepo.FindByCode(model.RoleViewer)
	if err == nil && len(viewerRole.Privileges) == 0 {
		viewerPrivileges, _ := privilegeRepo.FindByCodes(model.ViewerPrivilegeCodes)
		db.Model(&viewerRole).Association("Privileges").Replace(viewerPrivileges)
		log.Println("VIEWER role assigned read-only privileges")
	}

	// 4. Create default admin user
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	_, err = userRepo.FindByEmail(adminEmail)
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:      adminEmail,
			FullName:   "Store Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user created: %s (ADMIN)", adminEmail)
		}
	}
}
