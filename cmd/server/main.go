package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/thinai_hub/internal/config"
	"github.com/Skotchmaster/thinai_hub/internal/docstore"
	"github.com/Skotchmaster/thinai_hub/internal/es"
	firestoreinfra "github.com/Skotchmaster/thinai_hub/internal/firestore"
	"github.com/Skotchmaster/thinai_hub/internal/handlers"
	"github.com/Skotchmaster/thinai_hub/internal/kv"
	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
	"github.com/Skotchmaster/thinai_hub/internal/mykafka"
	"github.com/Skotchmaster/thinai_hub/internal/profile"
	"github.com/Skotchmaster/thinai_hub/internal/service"
	httpserver "github.com/Skotchmaster/thinai_hub/internal/transport/http"
	pkgdb "github.com/Skotchmaster/thinai_hub/pkg/db"
	"github.com/Skotchmaster/thinai_hub/pkg/metrics"
	authmw "github.com/Skotchmaster/thinai_hub/pkg/middleware/auth"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var db *gorm.DB
	var store docstore.Store
	switch cfg.StoreDriver {
	case config.DriverFile:
		store = docstore.NewFileStore(cfg.DBFile)
	default:
		var err error
		db, err = pkgdb.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		repo, err := kv.NewGormRepo(ctx, db)
		if err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		store = docstore.NewSlotStore(repo, cfg.DBSlot)
	}

	observers := []service.Observer{metrics.ChangeCounter{}}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		observers = append(observers, mykafka.NewEventPublisher(producer))
	}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		observers = append(observers, es.NewProductIndexer(esClient, cfg.ESIndex))
	}

	svc := service.NewCollectionService(store, observers...)
	deps := &httpserver.Deps{
		Products: handlers.NewCollectionHTTP(svc, models.Products),
		Orders:   handlers.NewCollectionHTTP(svc, models.Orders),
	}

	var fs *firestoreinfra.ClientWrapper
	if len(cfg.JWTSecret) > 0 {
		var profiles profile.Store
		switch {
		case cfg.FirestoreProjectID != "":
			var err error
			fs, err = firestoreinfra.NewClient(context.Background(), cfg.FirestoreProjectID, cfg.FirestoreCredentials)
			if err != nil {
				log.Fatalf("firestore: %v", err)
			}
			profiles = firestoreinfra.NewProfileStore(fs.Client)
		case db != nil:
			gs, err := profile.NewGormStore(ctx, db)
			if err != nil {
				log.Fatalf("profiles migrate: %v", err)
			}
			profiles = gs
		default:
			logger.Warn("profile sync disabled", "reason", "no firestore project and no database configured")
		}
		if profiles != nil {
			deps.Profile = &handlers.ProfileHTTP{Svc: profile.NewService(profiles)}
			deps.Identity = authmw.NewIdentityMiddleware(cfg.JWTSecret)
		}
	}

	e := httpserver.New(logger, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}
	if fs != nil {
		_ = fs.Close()
	}
	if db != nil {
		_ = pkgdb.Close(db)
	}

	logger.Info("server stopped")
}
