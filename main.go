// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lens-admin/controllers"
	"lens-admin/middleware"
	"lens-admin/routes"
	"lens-admin/store"
	"lens-admin/storage"
	"lens-admin/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the session signing key
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		utils.JwtKey = []byte(secret)
	}

	ctx := context.Background()

	// Connect to MongoDB. A missing MONGO_URI degrades database-backed
	// endpoints rather than stopping the process.
	st := store.New(ctx, store.ConfigFromEnv())
	resolver := store.NewCollectionResolver(st)

	// Asset storage: cloud when credentials are present, local disk otherwise
	local := storage.NewLocal(os.Getenv("UPLOAD_DIR"))
	var cloud storage.Backend
	gcsBackend, err := storage.NewGCS(ctx, storage.GCSConfigFromEnv())
	if err != nil {
		log.Printf("Cloud asset storage disabled: %v", err)
	} else {
		cloud = gcsBackend
	}
	assets := storage.NewManager(cloud, local)

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Initialize controllers
	c := routes.Controllers{
		Orders:   controllers.NewOrderController(st, emailService),
		Products: controllers.NewProductController(st, resolver),
		Payments: controllers.NewPaymentController(st),
		Accounts: controllers.NewAccountController(st),
		Stats:    controllers.NewStatsController(st, resolver),
		Admin:    controllers.NewAdminController(st),
		Upload:   controllers.NewUploadController(assets),
		Diag:     controllers.NewDiagController(st),
	}

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.Observe)
	router.Use(middleware.AuthMiddleware)
	routes.RegisterRoutes(router, c, local.Root())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server is running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Shut down cleanly on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}
	if gcsBackend != nil {
		if err := gcsBackend.Close(); err != nil {
			log.Printf("GCS client close: %v", err)
		}
	}
}
