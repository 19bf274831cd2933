package container

import (
	"context"
	"fmt"

	"inventory-backend/internal/config"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/pkg/jwt"

	alertHandler "inventory-backend/internal/domains/alert/handler"
	alertRepo "inventory-backend/internal/domains/alert/repository"
	alertService "inventory-backend/internal/domains/alert/service"
	analyticsHandler "inventory-backend/internal/domains/analytics/handler"
	analyticsRepo "inventory-backend/internal/domains/analytics/repository"
	analyticsService "inventory-backend/internal/domains/analytics/service"
	catalogHandler "inventory-backend/internal/domains/catalog/handler"
	catalogRepo "inventory-backend/internal/domains/catalog/repository"
	catalogService "inventory-backend/internal/domains/catalog/service"
	documentHandler "inventory-backend/internal/domains/document/handler"
	documentRepo "inventory-backend/internal/domains/document/repository"
	documentService "inventory-backend/internal/domains/document/service"
	productHandler "inventory-backend/internal/domains/product/handler"
	productRepo "inventory-backend/internal/domains/product/repository"
	productService "inventory-backend/internal/domains/product/service"
	stockHandler "inventory-backend/internal/domains/stock/handler"
	stockRepo "inventory-backend/internal/domains/stock/repository"
	stockService "inventory-backend/internal/domains/stock/service"
	userHandler "inventory-backend/internal/domains/user/handler"
	userRepo "inventory-backend/internal/domains/user/repository"
	userService "inventory-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything is wired once at
// startup and passed down explicitly; there is no module-level state.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	JWTManager *jwt.Manager

	StockRepo     stockRepo.RepositoryInterface
	AlertRepo     alertRepo.RepositoryInterface
	ProductRepo   productRepo.RepositoryInterface
	DocumentRepo  documentRepo.RepositoryInterface
	CatalogRepo   catalogRepo.RepositoryInterface
	UserRepo      userRepo.RepositoryInterface
	AnalyticsRepo analyticsRepo.RepositoryInterface

	StockService     stockService.ServiceInterface
	AlertService     alertService.ServiceInterface
	ProductService   productService.ServiceInterface
	DocumentService  documentService.ServiceInterface
	CatalogService   catalogService.ServiceInterface
	UserService      userService.ServiceInterface
	AnalyticsService analyticsService.ServiceInterface

	StockHandler     *stockHandler.StockHandler
	AlertHandler     *alertHandler.AlertHandler
	ProductHandler   *productHandler.ProductHandler
	DocumentHandler  *documentHandler.DocumentHandler
	CatalogHandler   *catalogHandler.CatalogHandler
	UserHandler      *userHandler.UserHandler
	AnalyticsHandler *analyticsHandler.AnalyticsHandler
}

// New connects the database and wires every layer bottom-up.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	c := &Container{
		Config:     cfg,
		DB:         db,
		JWTManager: jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry),
	}

	pool := db.Pool
	c.StockRepo = stockRepo.NewStockRepository(pool)
	c.AlertRepo = alertRepo.NewAlertRepository(pool)
	c.ProductRepo = productRepo.NewProductRepository(pool)
	c.DocumentRepo = documentRepo.NewDocumentRepository(pool)
	c.CatalogRepo = catalogRepo.NewCatalogRepository(pool)
	c.UserRepo = userRepo.NewUserRepository(pool)
	c.AnalyticsRepo = analyticsRepo.NewAnalyticsRepository(pool)

	c.AlertService = alertService.NewAlertService(c.AlertRepo)
	c.StockService = stockService.NewStockService(pool, c.StockRepo, c.ProductRepo, c.AlertService)
	c.ProductService = productService.NewProductService(c.ProductRepo, c.StockRepo)
	c.DocumentService = documentService.NewDocumentService(pool, c.DocumentRepo, c.ProductRepo, c.StockRepo, c.AlertService)
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, cfg.Inventory.PasswordHashCost)
	c.AnalyticsService = analyticsService.NewAnalyticsService(c.AnalyticsRepo, cfg.Inventory.CurrencyCode)

	c.StockHandler = stockHandler.NewStockHandler(c.StockService)
	c.AlertHandler = alertHandler.NewAlertHandler(c.AlertService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.DocumentHandler = documentHandler.NewDocumentHandler(c.DocumentService)
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.AnalyticsHandler = analyticsHandler.NewAnalyticsHandler(c.AnalyticsService)

	return c, nil
}

// Close releases the container's resources.
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}
