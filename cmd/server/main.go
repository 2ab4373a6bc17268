package main

import (
	"github.com/joho/godotenv"

	"github.com/Yamanxl9/employee-management-system/internal/app/server"
)

func main() {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()
	server.Run()
}
