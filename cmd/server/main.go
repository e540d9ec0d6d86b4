package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"go.uber.org/zap"

	"cypher/internal/chat"
	"cypher/internal/config"
	"cypher/internal/game"
	"cypher/internal/logging"
	"cypher/internal/store"
	"cypher/internal/store/sqlite"
	"cypher/internal/web"
)

// records is what both store implementations provide.
type records interface {
	web.Records
	game.WorldWriter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	log.Info("cypher resolver ready", zap.String("version", version()))

	recs, closeStore, err := openRecords(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.WorldPath != "" {
		world, err := game.LoadWorld(cfg.WorldPath)
		if err != nil {
			return err
		}
		if err := world.Seed(context.Background(), recs); err != nil {
			return err
		}
		log.Info("world seeded",
			zap.String("path", cfg.WorldPath),
			zap.Int("characters", len(world.Characters)),
			zap.Int("tokens", len(world.Tokens)),
		)
	}

	table := chat.Logger{Log: log.Named("chat"), GMName: cfg.GMName}
	srv := &web.Server{
		Engine:   game.NewEngine(recs, recs, table, log.Named("resolver")),
		Records:  recs,
		Notifier: table,
		Logger:   log.Named("http"),
	}

	log.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("persistent", cfg.Persistent()))
	return http.ListenAndServe(cfg.Addr, srv.Routes())
}

func openRecords(cfg config.Config) (records, func(), error) {
	if !cfg.Persistent() {
		return store.NewWorld(), func() {}, nil
	}
	s, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

// version reports the module version stamped by the go tool.
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
