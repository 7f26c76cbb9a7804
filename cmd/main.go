package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/config"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/maxaizer/job-board/internal/services"
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

func newBoard(ctx context.Context, cfg *config.Config, dbContext *repositories.DbContext,
	bus EventBus.Bus) *services.JobBoard {

	entities, err := repositories.LoadEntitiesFile(cfg.Board.DataFile)
	if err != nil {
		log.Fatalf("can't load jobs: %v", err)
	}

	data := repositories.NewDataRepository(dbContext.DB)
	bookmarks := repositories.NewBookmarksRepository(data, cfg.Board.BookmarksKey)

	board, err := services.NewJobBoard(ctx, entities, bookmarks, bus, services.Options{
		ItemsPerPage: cfg.Board.ItemsPerPage,
		CacheTTL:     cfg.Board.CacheTTL,
	})
	if err != nil {
		log.Fatalf("can't create job board: %v", err)
	}
	return board
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Port)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	bus := EventBus.New()
	board := newBoard(ctx, cfg, dbContext, bus)

	resync, err := services.NewBookmarksResync(board, cfg.Board.BookmarksResyncSchedule)
	if err != nil {
		log.Fatalf("can't create bookmarks resync: %v", err)
	}
	defer resync.Stop()

	search := services.NewSearchInput(board, bus, cfg.Board.SearchDebounce)
	defer search.Close()

	ui := newConsole(board, search, os.Stdout)

	if err = ui.subscribe(bus); err != nil {
		log.Fatalf("can't wire console: %v", err)
	}

	ui.run(ctx, os.Stdin)

	log.Info("Shutting down...")
}
