package main

import (
	"context"
	"log"
	"os"

	"github.com/companylock/agent/internal/agent/config"
	"github.com/companylock/agent/internal/lockctl"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := lockctl.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	err = app.Run(ctx, os.Args[1:])
	_ = app.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}

}
