package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/billingcat/clinvoice/controller"
	"github.com/billingcat/clinvoice/model"

	"github.com/joho/godotenv"
)

func dothings() error {
	// a missing .env is fine
	_ = godotenv.Load()

	cfgPath := model.ConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return controller.Run(ctx, cfg, cfgPath, os.Args)
}

func main() {
	log.SetFlags(0)
	if err := dothings(); err != nil {
		log.Fatal(err)
	}
}
