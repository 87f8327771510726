package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"eshop-api/internal/auth"
	"eshop-api/internal/category"
	"eshop-api/internal/events"
	"eshop-api/internal/httpx"
	"eshop-api/internal/order"
	"eshop-api/internal/product"
	"eshop-api/internal/storage"
	"eshop-api/internal/telemetry"
	"eshop-api/internal/user"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mongoURI() string   { return env("MONGO_URI", "mongodb://localhost:27017") }
func mongoDB() string    { return env("MONGO_DB", "eshop") }
func brokerAddr() string { return env("KAFKA_BROKER", "localhost:9092") }
func apiPrefix() string  { return env("API_PREFIX", "/api/v1") }
func listenAddr() string { return env("LISTEN_ADDR", ":8080") }
func uploadDir() string  { return env("UPLOAD_DIR", "public/uploads") }

func jwtSecret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		panic("JWT_SECRET is required")
	}
	return []byte(s)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := telemetry.Setup(ctx, "eshop-api")
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer tel.Shutdown(context.Background())
	log := tel.Log

	metrics, err := telemetry.NewMetrics(tel.Meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	secret := jwtSecret()

	client, err := storage.Connect(ctx, mongoURI())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	store := storage.New(client.Database(mongoDB()))
	log.Info("database connection is ready")

	broker := brokerAddr()
	if err := events.EnsureTopic(ctx, broker, "orders", 3, 1); err != nil {
		log.Warn("failed to create topic orders (may already exist)", zap.Error(err))
	}
	producer := events.NewProducer([]string{broker}, "orders")
	defer producer.Close()

	orderUC := order.NewUseCase(store, producer, metrics, log, tel.Tracer)
	orderCtrl := order.NewController(orderUC, log, tel.Tracer)
	productCtrl := product.NewController(product.NewUseCase(store, log), uploadDir(), log)
	categoryCtrl := category.NewController(category.NewUseCase(store, log), log)
	userCtrl := user.NewController(user.NewUseCase(store, secret, metrics, log), log)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          httpx.ErrorHandler,
	})
	app.Use(otelfiber.Middleware())

	prefix := apiPrefix()
	app.Use(auth.Middleware(secret, auth.DefaultExemptions(prefix), nil, log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Static("/public/uploads", uploadDir())

	api := app.Group(prefix)

	orders := api.Group("/orders")
	orders.Get("/get/totalsales", orderCtrl.TotalSales)
	orders.Get("/get/userorders/:userId", orderCtrl.UserOrders)
	orders.Get("/", orderCtrl.List)
	orders.Get("/:id", orderCtrl.Get)
	orders.Post("/", orderCtrl.Create)
	orders.Put("/:id", orderCtrl.UpdateStatus)
	orders.Delete("/:id", orderCtrl.Delete)

	products := api.Group("/products")
	products.Get("/get/count", productCtrl.Count)
	products.Get("/get/featured/:count", productCtrl.Featured)
	products.Get("/", productCtrl.List)
	products.Get("/:id", productCtrl.Get)
	products.Post("/", productCtrl.Create)
	products.Put("/gallery-images/:id", productCtrl.UpdateGallery)
	products.Put("/:id", productCtrl.Update)
	products.Delete("/:id", productCtrl.Delete)

	categories := api.Group("/categories")
	categories.Get("/", categoryCtrl.List)
	categories.Get("/:id", categoryCtrl.Get)
	categories.Post("/", categoryCtrl.Create)
	categories.Put("/:id", categoryCtrl.Update)
	categories.Delete("/:id", categoryCtrl.Delete)

	users := api.Group("/users")
	users.Get("/get/count", userCtrl.Count)
	users.Post("/login", userCtrl.Login)
	users.Post("/register", userCtrl.Register)
	users.Get("/", userCtrl.List)
	users.Get("/:id", userCtrl.Get)
	users.Delete("/:id", userCtrl.Delete)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down eshop-api...")
		_ = app.Shutdown()
		cancel()
	}()

	log.Info("eshop-api listening", zap.String("addr", listenAddr()), zap.String("prefix", prefix))
	if err := app.Listen(listenAddr()); err != nil {
		log.Error("server error", zap.Error(err))
	}
}
