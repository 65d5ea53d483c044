package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/influencer-metrics/internal/config"
	"github.com/AngelCh415/influencer-metrics/internal/models"
	"github.com/AngelCh415/influencer-metrics/internal/utils"
)

// Loader reads the four source tables from local files or HTTP URLs.
type Loader struct {
	c       HTTPClient
	log     *slog.Logger
	src     config.Sources
	backoff utils.Backoff
}

func NewLoader(c HTTPClient, log *slog.Logger, cfg config.Config) *Loader {
	return &Loader{
		c:       c,
		log:     log,
		src:     cfg.Sources,
		backoff: utils.NewBackoff(100*time.Millisecond, cfg.FetchRetries),
	}
}

// Load fetches and parses all four tables concurrently. A missing column in
// any table fails the whole load with a *models.SchemaError; unreadable rows
// are skipped and logged.
func (l *Loader) Load(ctx context.Context) (models.Dataset, error) {
	var ds models.Dataset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := l.read(gctx, l.src.Influencers)
		if err != nil {
			return fmt.Errorf("%s: %w", DatasetInfluencers, err)
		}
		rows, skipped, err := parseInfluencers(b)
		l.report(DatasetInfluencers, len(rows), skipped)
		ds.Influencers = rows
		return err
	})
	g.Go(func() error {
		b, err := l.read(gctx, l.src.Posts)
		if err != nil {
			return fmt.Errorf("%s: %w", DatasetPosts, err)
		}
		rows, skipped, err := parsePosts(b)
		l.report(DatasetPosts, len(rows), skipped)
		ds.Posts = rows
		return err
	})
	g.Go(func() error {
		b, err := l.read(gctx, l.src.Tracking)
		if err != nil {
			return fmt.Errorf("%s: %w", DatasetTracking, err)
		}
		rows, skipped, err := parseTracking(b)
		l.report(DatasetTracking, len(rows), skipped)
		ds.Tracking = rows
		return err
	})
	g.Go(func() error {
		b, err := l.read(gctx, l.src.Payouts)
		if err != nil {
			return fmt.Errorf("%s: %w", DatasetPayouts, err)
		}
		rows, skipped, err := parsePayouts(b)
		l.report(DatasetPayouts, len(rows), skipped)
		ds.Payouts = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Dataset{}, err
	}
	if err := ds.Validate(); err != nil {
		return models.Dataset{}, err
	}
	ds.LoadedAt = time.Now().UTC()
	l.log.Info("datasets loaded",
		slog.Int("influencers", len(ds.Influencers)),
		slog.Int("posts", len(ds.Posts)),
		slog.Int("tracking", len(ds.Tracking)),
		slog.Int("payouts", len(ds.Payouts)))
	return ds, nil
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return GetWithRetry(ctx, l.c, src, l.backoff)
	}
	return os.ReadFile(src)
}

func (l *Loader) report(dataset string, rows, skipped int) {
	if skipped > 0 {
		l.log.Warn("skipped unreadable rows", slog.String("dataset", dataset), slog.Int("rows", rows), slog.Int("skipped", skipped))
		return
	}
	l.log.Debug("dataset parsed", slog.String("dataset", dataset), slog.Int("rows", rows))
}
