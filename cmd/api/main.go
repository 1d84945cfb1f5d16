package main

import (
	"context"
	"log"

	"github.com/cafepos/cafe-api-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("cafe API failed: %v", err)
	}
}
