package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/issoudelache/ANT-tsp--demo/internal/config"
	"github.com/issoudelache/ANT-tsp--demo/internal/db"
	"github.com/issoudelache/ANT-tsp--demo/internal/monitor"
	"github.com/issoudelache/ANT-tsp--demo/internal/version"
)

var (
	listen     = flag.String("listen", "", "HTTP listen address (default from config)")
	dbFile     = flag.String("db", "", "Path to the SQLite results database (default from config, \"none\" disables persistence)")
	configFile = flag.String("config", "", "Path to a tuning config JSON file")
)

func main() {
	flag.Parse()

	log.Printf("ant-server %s", version.String())

	tuning := config.EmptyTuningConfig()
	if *configFile != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configFile, err)
		}
		log.Printf("Loaded tuning config from %s", *configFile)
	} else if cfg, err := config.LoadTuningConfig(config.DefaultConfigPath); err == nil {
		tuning = cfg
		log.Printf("Loaded tuning defaults from %s", config.DefaultConfigPath)
	}

	address := *listen
	if address == "" {
		address = tuning.GetListen()
	}

	path := *dbFile
	if path == "" {
		path = tuning.GetDatabasePath()
	}

	var store *db.DB
	if path != "none" {
		var err error
		store, err = db.NewDB(path)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		log.Printf("Recording benchmark results in %s", path)
	} else {
		log.Printf("Result persistence disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws := monitor.NewWebServer(monitor.WebServerConfig{
		Address: address,
		DB:      store,
		Tuning:  tuning,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ws.Start(ctx); err != nil {
			log.Printf("Web server error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
