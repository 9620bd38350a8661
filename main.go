package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("nutrition-tracker-go-api: ")
	log.SetFlags(0)

	// .env is optional in deployed environments where DB_URL comes from the
	// platform; only warn when it's absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	if os.Getenv("DB_URL") == "" {
		log.Fatal("DB_URL is required")
	}

	pool := getDBPool()
	defer pool.Close()

	h := newHandler(pool)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
