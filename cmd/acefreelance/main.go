package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"acefreelance/internal/config"
	"acefreelance/internal/handlers"
	"acefreelance/internal/httpserver"
	"acefreelance/internal/logging"
)

func main() {
	logging.Logg = logging.NewLogger("info", os.Stdout)

	var cfg config.Config
	if err := cfg.ParseFlags(); err != nil {
		logging.Logg.Error("Server configuration error", "error", err)
		os.Exit(1)
	}
	logging.Logg = logging.NewLogger(cfg.LogLevel, os.Stdout)

	handler, err := handlers.NewServer(cfg, nil)
	if err != nil {
		logging.Logg.Error("Server creation error", "error", err)
		os.Exit(1)
	}
	defer handler.Store.Close()

	serv := httpserver.New(&cfg, handler)

	go func() {
		if err := serv.Start(); err != nil {
			logging.Logg.Error("Server failed to start", "error", err)
			fmt.Println("Server failed to start:", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	if err := serv.Shutdown(context.Background()); err != nil {
		os.Exit(1)
	}
}
