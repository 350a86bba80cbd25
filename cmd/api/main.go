package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/reel-locator/internal/adapter/chromedp_caption"
	"github.com/user/reel-locator/internal/adapter/embed"
	"github.com/user/reel-locator/internal/adapter/googlemaps"
	kafka_adapter "github.com/user/reel-locator/internal/adapter/kafka"
	"github.com/user/reel-locator/internal/adapter/mapbox"
	minio_adapter "github.com/user/reel-locator/internal/adapter/minio"
	"github.com/user/reel-locator/internal/adapter/nlp"
	"github.com/user/reel-locator/internal/adapter/opencage"
	"github.com/user/reel-locator/internal/adapter/postgres"
	redis_adapter "github.com/user/reel-locator/internal/adapter/redis"
	"github.com/user/reel-locator/internal/adapter/serpapi"
	"github.com/user/reel-locator/internal/adapter/sqlite"
	"github.com/user/reel-locator/internal/adapter/ytdlp"
	"github.com/user/reel-locator/internal/delivery/http/handler"
	"github.com/user/reel-locator/internal/delivery/http/router"
	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/internal/usecase"
	"github.com/user/reel-locator/pkg/config"
	"github.com/user/reel-locator/pkg/logger"
	"github.com/user/reel-locator/pkg/metrics"
	"github.com/user/reel-locator/pkg/region"
	"github.com/user/reel-locator/pkg/useragent"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("reel-locator: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	// --- Metrics ---
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Region profile ---
	profile := region.Default()
	if cfg.RegionProfilePath != "" {
		if profile, err = region.LoadFile(cfg.RegionProfilePath); err != nil {
			return err
		}
	}
	profiles := region.NewStore(profile)
	log.Info("Region profile loaded",
		zap.String("locality", profile.Locality),
		zap.String("reference", profile.ReferencePoint.Label),
	)

	// --- Location store ---
	var store repository.LocationStore
	switch cfg.StoreDriver {
	case "postgres":
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer dbpool.Close()
		if store, err = postgres.NewLocationRepo(ctx, dbpool); err != nil {
			return err
		}
		log.Info("PostgreSQL location store ready")
	default:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
		log.Info("SQLite location store ready", zap.String("path", cfg.SQLitePath))
	}

	// --- Optional infrastructure ---
	var cache repository.ResolutionCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable, resolution cache disabled", zap.Error(err))
		} else {
			cache = redis_adapter.NewCacheRepo(rdb)
			log.Info("Redis resolution cache enabled", zap.Duration("ttl", cfg.ResolutionCacheTTL))
		}
	}

	var publisher repository.LocationPublisher
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		p := kafka_adapter.NewLocationPublisher(kafka_adapter.NewWriter(brokers, cfg.KafkaTopic))
		defer p.Close()
		publisher = p
		log.Info("Kafka publisher enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}

	var archive repository.CaptionArchive
	if cfg.MinioEndpoint != "" {
		a, err := minio_adapter.NewCaptionArchive(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
		if err != nil {
			log.Warn("MinIO unavailable, caption archive disabled", zap.Error(err))
		} else {
			archive = a
			log.Info("Caption archive enabled", zap.String("bucket", cfg.MinioBucket))
		}
	}

	// --- Caption strategies ---
	agents := useragent.NewRotator()
	var strategies []repository.CaptionStrategy
	for _, s := range ytdlp.Strategies(cfg.YtDlpBinary, cfg.YtDlpTimeout, ytdlp.ExecRunner{}, agents) {
		strategies = append(strategies, s)
	}
	strategies = append(strategies, embed.NewStrategy(cfg.EmbedTimeout, agents))
	if cfg.HeadlessCaptionEnabled {
		headless := chromedp_caption.NewChromedpCaption(cfg.HeadlessPoolSize, cfg.HeadlessTimeout, agents, log)
		defer headless.Close()
		strategies = append(strategies, headless)
	}

	// --- Entity tagging ---
	gazetteer, err := nlp.LoadGazetteer(cfg.GazetteerPath)
	if err != nil {
		return err
	}
	log.Info("Gazetteer loaded", zap.Int("phrases", gazetteer.Len()))
	tagger := nlp.Chain{gazetteer}
	taggerName := "gazetteer"
	if cfg.NLPServiceURL != "" {
		tagger = nlp.Chain{nlp.NewHTTPTagger(cfg.NLPServiceURL, cfg.ProviderTimeout), gazetteer}
		taggerName = "ner_service+gazetteer"
	}

	// --- Places and geocoding providers ---
	google := googlemaps.NewClient(cfg.GoogleMapsAPIKey, profile.LanguageCode, profile.CountryCode, cfg.ProviderTimeout)
	var (
		searchers []repository.PlaceSearcher
		geocoders []repository.Geocoder
		details   repository.PlaceDetailer
	)
	if cfg.GoogleMapsAPIKey != "" {
		searchers = append(searchers, google)
		details = google
	}
	if cfg.SerpAPIKey != "" {
		searchers = append(searchers, serpapi.NewClient(cfg.SerpAPIKey, profiles, cfg.ProviderTimeout))
	}
	if cfg.OpenCageAPIKey != "" {
		geocoders = append(geocoders, opencage.NewGeocoder(cfg.OpenCageAPIKey, profile.CountryCode, cfg.ProviderTimeout))
	}
	if cfg.GoogleMapsAPIKey != "" {
		geocoders = append(geocoders, google.Geocoder())
	}
	if cfg.MapboxToken != "" {
		geocoders = append(geocoders, mapbox.NewGeocoder(cfg.MapboxToken, profile.CountryCode, cfg.ProviderTimeout))
	}

	// --- Use Cases ---
	locator := usecase.NewLocator(usecase.Capabilities{
		Captions: usecase.NewCaptionSource(log, strategies...),
		Entities: usecase.NewEntityExtractor(tagger, log),
		Places:   usecase.NewPlaceResolver(log, searchers...),
		Geocoder: usecase.NewAddressGeocoder(log, geocoders...),
		Details:  details,
		Cache:    cache,
		Archive:  archive,
		Profile:  profiles,
		CacheTTL: cfg.ResolutionCacheTTL,
	}, log)
	ref := profile.ReferencePoint
	locations := usecase.NewLocationService(store, publisher, entity.ReferencePoint{Lat: ref.Lat, Lon: ref.Lon, Label: ref.Label}, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(locator, locations, handler.Diagnostics{
		Providers: map[string]bool{
			"google_maps": cfg.GoogleMapsAPIKey != "",
			"serpapi":     cfg.SerpAPIKey != "",
			"opencage":    cfg.OpenCageAPIKey != "",
			"mapbox":      cfg.MapboxToken != "",
		},
		EntityTagger: taggerName,
	}, log)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.New(apiHandler, log),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})
	if cfg.RegionProfilePath != "" {
		watcher := region.NewWatcher(cfg.RegionProfilePath, profiles, log)
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil {
				log.Warn("Region profile watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	return g.Wait()
}
