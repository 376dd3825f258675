package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/kalagato/valuebot-backend/database"
	"github.com/kalagato/valuebot-backend/internal/handlers"
	"github.com/kalagato/valuebot-backend/internal/jobs"
	"github.com/kalagato/valuebot-backend/internal/models"
	"github.com/kalagato/valuebot-backend/internal/routes"
	"github.com/kalagato/valuebot-backend/internal/services"
	"github.com/kalagato/valuebot-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	if os.Getenv("WHATSAPP_TOKEN") == "" || os.Getenv("PHONE_NUMBER_ID") == "" {
		log.Println("⚠️  WhatsApp credentials not found - outbound messages will be suppressed")
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		if err := database.DB.AutoMigrate(&models.ValuationLead{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Outbound messenger: Meta Cloud API by default, Twilio when selected
	var messenger services.Messenger
	if os.Getenv("MESSENGER_PROVIDER") == "twilio" {
		twilioService, err := services.NewTwilioService()
		if err != nil {
			log.Fatal("Failed to initialize Twilio service:", err)
		}
		messenger = twilioService
		log.Println("✅ Twilio messenger initialized")
	} else {
		messenger = services.NewWhatsAppService()
		log.Println("✅ WhatsApp Cloud API messenger initialized")
	}

	// Collaborator sinks
	sheetsSink := services.NewSheetsSink()
	emailService := services.NewEmailService()

	// Session manager and dialogue engine
	sessionTTL := services.DefaultSessionTTL
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			sessionTTL = time.Duration(minutes) * time.Minute
		}
	}
	sessionManager := services.NewSessionManager(sessionTTL)

	recordSinks := []services.RecordSink{services.NewStoreSink(store)}
	if sheetsSink.Configured() {
		recordSinks = append(recordSinks, sheetsSink)
	}

	engine := services.NewDialogueEngine(sessionManager, messenger, emailService, recordSinks...)
	deduper := services.NewDeduper(services.DefaultDedupWindow)

	// Start the expired-session sweeper
	sweeper := jobs.NewSessionSweeper(sessionManager)
	sweeper.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "ValueBot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Setup routes
	whatsappHandler := handlers.NewWhatsAppHandler(engine, deduper)
	healthHandler := handlers.NewHealthHandler("1.0.0", store, engine)
	routes.SetupRoutes(app, whatsappHandler, healthHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping session sweeper...")
		sweeper.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 ValueBot Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("📱 WhatsApp: %s", getWhatsAppStatus())
	log.Printf("📧 Email: %s", getEmailStatus())
	log.Printf("📄 Sheets: %s", getSheetsStatus(sheetsSink))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus() string {
	if os.Getenv("MESSENGER_PROVIDER") == "twilio" {
		return "Twilio"
	}
	if os.Getenv("WHATSAPP_TOKEN") == "" {
		return "Not configured"
	}
	return "Meta Cloud API"
}

func getEmailStatus() string {
	if os.Getenv("GMAIL_USER") == "" {
		return "Not configured"
	}
	return "Configured"
}

func getSheetsStatus(s *services.SheetsSink) string {
	if !s.Configured() {
		return "Not configured"
	}
	return "Configured"
}
