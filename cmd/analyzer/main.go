package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"coffee_persona/internal/adapters/dataset"
	"coffee_persona/internal/adapters/observability"
	redisad "coffee_persona/internal/adapters/redis"
	"coffee_persona/internal/adapters/sastrawi"
	"coffee_persona/internal/app"
	"coffee_persona/internal/domain"
	"coffee_persona/internal/lexicon"
	"coffee_persona/internal/persona"
	"coffee_persona/internal/shared"
	mysqlrepo "coffee_persona/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// logs go to stderr; stdout carries the report
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// only when METRICS_ADDR is set explicitly; a short run is over before any scrape
	observability.Serve(cfg.BatchMetricsAddr, observability.InitRegistry())

	log.Info().
		Str("shops", cfg.ShopsCSV).
		Str("reviews", cfg.ReviewsCSV).
		Int("workers", cfg.Workers).
		Bool("persist", cfg.Persist).
		Msg("analyzer starting")

	lx, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load lexicon")
	}
	scorer, err := lx.Scorer(sastrawi.New())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build scorer")
	}
	reviewPolicy, _ := domain.ParsePolicy(cfg.ReviewPolicy)
	venuePolicy, _ := domain.ParsePolicy(cfg.VenuePolicy)
	engine := persona.NewEngine(scorer, persona.Options{
		Workers:      cfg.Workers,
		ReviewPolicy: reviewPolicy,
		VenuePolicy:  venuePolicy,
	})

	src, err := dataset.New(cfg.ShopsCSV, cfg.ReviewsCSV, cfg.ReviewsEncoding)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dataset loader")
	}

	var (
		repo  domain.VenueRepository
		cache domain.Cache
	)
	if cfg.Persist {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		repo = mysqlrepo.New(db)

		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			// stale API responses expire with the TTL; not worth failing the run
			log.Warn().Err(err).Msg("redis unreachable; cached responses will not be invalidated")
		} else {
			cache = rc
		}
	}

	out, err := app.NewAnalysisService(src, engine, repo, cache).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	prod, soc, _ := lx.Tables()
	report := app.BuildReport(out, []persona.WeightTable{prod, soc}, app.ReportOptions{
		TopN:    cfg.TopN,
		Exclude: lx.Exclusions(),
	})
	if err := app.WriteReport(os.Stdout, report); err != nil {
		log.Error().Err(err).Msg("failed to write report")
	}

	if cfg.ExportPath != "" {
		f, err := os.Create(cfg.ExportPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ExportPath).Msg("failed to create export file")
		}
		if err := dataset.WriteProfiles(f, out.Profiles); err != nil {
			_ = f.Close()
			log.Fatal().Err(err).Msg("export failed")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		log.Info().Str("path", cfg.ExportPath).Int("venues", len(out.Profiles)).Msg("profiles exported")
	}
	log.Info().Str("run_id", out.Run.ID).Msg("analyzer completed")
}
