package main

import (
	"context"
	"log"

	"github.com/opencrafts-io/keepup/internal/app"
	"github.com/opencrafts-io/keepup/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	a.Run(ctx)

}
