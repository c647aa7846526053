package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wojo-o/inker-sub001/internal/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	cfg, err := configFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// configFromEnv resolves process configuration. Everything has a
// sensible default so a bare `inker` starts a working server.
func configFromEnv() (app.Config, error) {
	dataDir := os.Getenv("INKER_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return app.Config{}, err
		}
		dataDir = filepath.Join(homeDir, ".local", "share", "inker")
	}

	addr := os.Getenv("INKER_ADDR")
	if addr == "" {
		addr = ":8320"
	}

	zone := time.Local
	if tz := os.Getenv("INKER_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("config: unknown timezone %q, using local: %v", tz, err)
		} else {
			zone = loc
		}
	}

	return app.Config{
		DataDir:    dataDir,
		Addr:       addr,
		ChromePath: os.Getenv("INKER_CHROME"),
		Zone:       zone,
	}, nil
}
