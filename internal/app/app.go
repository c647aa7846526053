// Package app wires storage, caches, the browser session and the
// services together and exposes them over HTTP.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/wojo-o/inker-sub001/internal/browser"
	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/fetch"
	"github.com/wojo-o/inker-sub001/internal/overlay"
	"github.com/wojo-o/inker-sub001/internal/secret"
	"github.com/wojo-o/inker-sub001/internal/service"
	"github.com/wojo-o/inker-sub001/internal/storage"
	"github.com/wojo-o/inker-sub001/internal/widget"
)

// Config is the process configuration, resolved from the environment
// by main.
type Config struct {
	DataDir    string
	Addr       string
	ChromePath string
	Zone       *time.Location
}

// App owns the full object graph and its lifecycle.
type App struct {
	cfg Config

	db       *storage.DB
	designs  *storage.DesignStore
	devices  *storage.DeviceStore
	customs  *storage.CustomWidgetStore
	captures *cache.CaptureCache
	drawings *overlay.DrawingStore
	session  *browser.Session
	watcher  *overlay.Watcher

	renderSvc *service.RenderService
	designSvc *service.DesignService
	deviceSvc *service.DeviceService
	customSvc *service.CustomWidgetService
	scheduler *service.Scheduler

	httpSrv *http.Server
}

// New builds the application. Nothing is started yet; Run launches the
// watcher, scheduler and HTTP server.
func New(cfg Config) (*App, error) {
	db, err := storage.New(filepath.Join(cfg.DataDir, "inker.db"), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	captures, err := cache.NewCaptureCache(filepath.Join(cfg.DataDir, "captures"))
	if err != nil {
		return nil, err
	}
	drawings, err := overlay.NewDrawingStore(filepath.Join(cfg.DataDir, "drawings"))
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg,
		db:       db,
		designs:  storage.NewDesignStore(db),
		devices:  storage.NewDeviceStore(db),
		customs:  storage.NewCustomWidgetStore(db),
		captures: captures,
		drawings: drawings,
		session:  browser.NewSession(cfg.ChromePath),
	}

	lookups := cache.NewTTL(widget.LookupTTL)
	registry := widget.NewRegistry(fetch.NewHTTPFetcher(), a.customs, secret.NewEnvStore(), lookups, cfg.Zone)
	notifier := &service.StoreNotifier{Devices: a.devices}

	a.renderSvc = service.NewRenderService(a.designs, registry, a.session, drawings, captures, a.customs)
	a.designSvc = service.NewDesignService(a.designs, captures, drawings, notifier)
	a.deviceSvc = service.NewDeviceService(a.devices)
	a.customSvc = service.NewCustomWidgetService(a.customs, a.designs, captures, notifier)
	a.scheduler = service.NewScheduler(a.renderSvc, a.devices, lookups)

	return a, nil
}

// Run starts all background components and serves HTTP until ctx is
// canceled.
func (a *App) Run(ctx context.Context) error {
	watcher, err := overlay.Watch(a.drawings, func(designID string) {
		if err := a.captures.Invalidate(designID); err != nil {
			log.Printf("app: invalidate capture for %s: %v", designID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("watch drawings: %w", err)
	}
	a.watcher = watcher

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	a.httpSrv = &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.routes(),
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("app: listening on %s", a.cfg.Addr)
		errc <- a.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		a.shutdown(context.Background())
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.shutdown(shutdownCtx)
		return nil
	}
}

func (a *App) shutdown(ctx context.Context) {
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(ctx); err != nil {
			log.Printf("app: http shutdown: %v", err)
		}
	}
	a.scheduler.Stop()
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.session.Shutdown()
	if err := a.db.Close(); err != nil {
		log.Printf("app: close database: %v", err)
	}
}
