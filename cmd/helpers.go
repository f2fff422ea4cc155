package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vicbot/landprice-cli/internal/fetcher"
	"github.com/vicbot/landprice-cli/internal/opendata"
	"github.com/vicbot/landprice-cli/internal/realprice"
)

// newDownloader wires the open-data downloader from config.
func newDownloader() *opendata.Downloader {
	return opendata.NewDownloader(opendata.Options{
		DataDir:   cfg.Fetch.DataDir,
		CacheDays: cfg.Fetch.CacheDays,
		Fetcher: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		}),
	})
}

// newEngine builds the query engine over a TTL-cached dataset store.
// With data.auto_fetch enabled each reload first refreshes the local extract;
// a failed refresh logs a warning and falls back to whatever file is on disk.
func newEngine() *realprice.Engine {
	load := func(ctx context.Context) (*realprice.Dataset, error) {
		path := cfg.Data.CSVPath
		if cfg.Data.AutoFetch {
			p, err := newDownloader().Ensure(ctx, cfg.Data.City, false)
			if err != nil {
				zap.L().Warn("auto-fetch failed, using local file",
					zap.String("path", path),
					zap.Error(err),
				)
			} else {
				path = p
			}
		}
		return realprice.LoadCSV(path)
	}

	store := realprice.NewStore(load, cfg.Data.CacheTTL())
	return realprice.NewEngine(store, cfg.Data.WindowYears)
}
