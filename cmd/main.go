package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"restaurant-service/internal/api"
	"restaurant-service/internal/config"
	"restaurant-service/internal/repository"
	"restaurant-service/internal/service"
	"restaurant-service/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func main() {
	db, err := connectDBEnv(os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"))
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateCustomers(3, db); err != nil {
		log.Fatalf("Failed to migrate customers table: %v", err)
	}
	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate orders table: %v", err)
	}
	if err := migrations.AutoMigrateOrderProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate order_products table: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	})

	kafkaWriter := config.NewKafkaWriter("order-events")

	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	loyaltyService := service.NewLoyaltyService(orderRepo, customerRepo)
	orderService := service.NewOrderService(orderRepo, customerRepo, productRepo, loyaltyService, kafkaWriter, rdb)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo, rdb)

	customerHandler := api.NewCustomerHandler(customerService)
	productHandler := api.NewProductHandler(productService)
	orderHandler := api.NewOrderHandler(orderService)
	loyaltyHandler := api.NewLoyaltyHandler(loyaltyService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     60,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.POST("/customers", customerHandler.CreateCustomer)
	e.GET("/customers", customerHandler.ListCustomers)
	e.GET("/customers/:id", customerHandler.GetCustomer)
	e.PUT("/customers/:id", customerHandler.UpdateCustomer)
	e.DELETE("/customers/:id", customerHandler.DeleteCustomer)

	e.POST("/products", productHandler.CreateProduct)
	e.GET("/products", productHandler.ListProducts)
	e.GET("/products/:id", productHandler.GetProduct)
	e.PUT("/products/:id", productHandler.UpdateProduct)
	e.DELETE("/products/:id", productHandler.DeleteProduct)

	e.POST("/orders", orderHandler.CreateOrder)
	e.GET("/orders", orderHandler.ListOrders)
	e.GET("/orders/:id", orderHandler.GetOrder)
	e.PUT("/orders/:id", orderHandler.UpdateOrder)
	e.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
	e.DELETE("/orders/:id", orderHandler.CancelOrder)
	e.GET("/customers/:id/orders", orderHandler.ListCustomerOrders)

	e.GET("/customers/:id/loyalty", loyaltyHandler.GetLoyaltyInfo)
	e.GET("/customers/:id/loyalty/tier", loyaltyHandler.GetTier)
	e.GET("/customers/:id/loyalty/stats", loyaltyHandler.GetStats)
	e.GET("/customers/:id/loyalty/metrics", loyaltyHandler.GetMetrics)
	e.GET("/customers/:id/loyalty/points", loyaltyHandler.GetPoints)
	e.GET("/customers/:id/loyalty/expired-points", loyaltyHandler.GetExpiredPoints)
	e.POST("/customers/:id/loyalty/quote", loyaltyHandler.QuoteNextOrder)
	e.POST("/customers/:id/loyalty/adjustments", loyaltyHandler.AdjustPoints)
	e.POST("/customers/:id/loyalty/suspend", loyaltyHandler.Suspend)
	e.POST("/customers/:id/loyalty/reactivate", loyaltyHandler.Reactivate)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "restaurant-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	e.Logger.Fatal(e.Start(addr))
}
