package main // Entry point package

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lamesa/reserva/internal/catalog"
	"github.com/lamesa/reserva/internal/config"
	"github.com/lamesa/reserva/internal/engine"
	"github.com/lamesa/reserva/internal/handler"
	"github.com/lamesa/reserva/internal/queue"
	"github.com/lamesa/reserva/internal/router"
	"github.com/lamesa/reserva/internal/store"
	"github.com/lamesa/reserva/internal/syncer"
)

func main() {
	cfg := config.Load()

	// Each process is one client of the shared store; the id lets it skip
	// change signals for its own writes.
	clientID := uuid.NewString()

	st, err := buildStore(cfg, clientID)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	catCfg := catalog.Default()
	if cfg.CatalogPath != "" {
		catCfg, err = catalog.LoadConfig(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("catalog config failed: %v", err)
		}
	}
	// Adopt the table set already shared through the store, seeding it from
	// the local configuration on first start.
	syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	catCfg, err = catalog.SyncShared(syncCtx, st, catCfg)
	cancel()
	if err != nil {
		log.Fatalf("catalog sync failed: %v", err)
	}

	cat, err := catalog.New(catCfg)
	if err != nil {
		log.Fatalf("catalog invalid: %v", err)
	}
	ids := catalog.NewIdentityMapper(catCfg.Labels, catCfg.LegacyLabels)

	var publisher engine.EventPublisher
	if cfg.QueueEnabled {
		publisher = queue.NewPublisher()
		go func() {
			if err := queue.StartReservationConsumer(); err != nil {
				log.Printf("reservation consumer stopped: %v", err)
			}
		}()
	}

	resolver := engine.NewResolver(cat, time.Duration(cfg.SeparationMinutes)*time.Minute)
	svc := engine.NewService(cat, ids, st, resolver, publisher)
	if err := svc.Refresh(context.Background()); err != nil {
		log.Printf("initial refresh failed (continuing): %v", err)
	}

	syn := syncer.New(st, svc, clientID, cfg.ReconcileInterval)
	go func() {
		if err := syn.Run(context.Background()); err != nil && err != context.Canceled {
			log.Printf("synchronizer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewTableHandler(svc),
		handler.NewReservationHandler(svc),
		handler.NewSyncHandler(syn),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// buildStore selects the shared store backend from configuration.
func buildStore(cfg config.Config, clientID string) (store.KeyedStore, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(clientID), nil
	case "redis":
		client := config.NewRedisClient()
		if client == nil {
			return nil, fmt.Errorf("redis unreachable")
		}
		return store.NewRedisStore(client, clientID), nil
	case "mysql":
		db, err := store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return store.NewMySQLStore(db, clientID)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
