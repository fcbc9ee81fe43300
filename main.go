// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ddroy9090-ind/reliant-page-access/database"
	"github.com/ddroy9090-ind/reliant-page-access/handlers"
	"github.com/ddroy9090-ind/reliant-page-access/middleware"
	"github.com/ddroy9090-ind/reliant-page-access/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logStore, closeStore, err := newLogStore()
	if err != nil {
		log.Fatalf("Failed to initialize access-log store: %v", err)
	}
	defer closeStore()

	rowLimit := store.DefaultRowLimit
	if raw := os.Getenv("ANALYTICS_ROW_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Printf("Ignoring invalid ANALYTICS_ROW_LIMIT %q", raw)
		} else {
			rowLimit = parsed
		}
	}

	analyticsHandlers := handlers.NewAnalyticsHandlers(logStore, rowLimit)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/track", analyticsHandlers.TrackAccess)
		api.GET("/analytics", analyticsHandlers.GetPageAnalytics)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Page-access analytics API starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// newLogStore picks the access-log backend from LOG_STORE: ClickHouse by
// default, or the portal's relational database when set to "postgres".
func newLogStore() (store.LogStore, func(), error) {
	switch os.Getenv("LOG_STORE") {
	case "postgres":
		dbClient, err := database.NewPostgresDB()
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresLogStore(dbClient.DB), dbClient.Close, nil
	default:
		chClient, err := database.NewClickHouseDB()
		if err != nil {
			return nil, nil, err
		}
		return store.NewClickHouseLogStore(chClient), chClient.Close, nil
	}
}
