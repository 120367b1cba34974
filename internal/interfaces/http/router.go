package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-pms/internal/application/auth"
	"github.com/jhoicas/farmacia-pms/internal/application/usecase"
	"github.com/jhoicas/farmacia-pms/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	BranchUC    *usecase.BranchUseCase
	WarehouseUC *usecase.WarehouseUseCase
	StockUC     *usecase.StockQueryUseCase
	Transfers   TransferEngine
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Branches y Warehouses (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", RequireRole(entity.RoleAdmin), branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Stock y auditoría (protegido, solo lectura)
	stockHandler := NewStockHandler(deps.StockUC)
	warehouses.Get("/:id/stock", stockHandler.ListWarehouseStock)
	branches.Get("/:id/stock", stockHandler.ListBranchStock)
	protected.Get("/stock-transactions", stockHandler.ListTransactions)

	// Traslados bodega → sucursal (protegido; solo admin y bodeguero)
	transfers := protected.Group("/transfers", RequireRole(entity.RoleAdmin, entity.RoleBodeguero))
	transferHandler := NewTransferHandler(deps.Transfers)
	transfers.Post("/", transferHandler.Create)
	transfers.Post("/validate", transferHandler.Validate)
}
