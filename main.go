package main

import (
	"github.com/joho/godotenv"

	"chillmix/internal/cli"
)

func main() {
	// Optional .env for generator/upload API keys; absence is fine.
	_ = godotenv.Load()

	cli.Execute()
}
