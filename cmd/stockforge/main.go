package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/stockforge/stockforge/internal/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on the environment")
	}

	cmd.Execute()
}
