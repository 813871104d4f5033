package main

import (
	"log"

	"bidanalyser/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("bidanalyser: %v", err)
	}
}
