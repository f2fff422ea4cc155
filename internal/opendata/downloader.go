package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vicbot/landprice-cli/internal/fetcher"
)

// DefaultCacheDays is how long a downloaded extract stays fresh. The MOI
// publishes batch updates every ten days, so a week is a reasonable floor.
const DefaultCacheDays = 7

const versionFileName = ".version_info.json"

// Options configures a Downloader.
type Options struct {
	DataDir   string
	CacheDays int
	Fetcher   fetcher.Fetcher
}

// Downloader keeps per-city CSV extracts under DataDir, with freshness
// tracked in a JSON sidecar.
type Downloader struct {
	dataDir   string
	cacheDays int
	fetcher   fetcher.Fetcher
	now       func() time.Time
}

// versionInfo is the on-disk sidecar tracking what was downloaded when.
type versionInfo struct {
	Cities map[string]cityVersion `json:"cities"`
}

type cityVersion struct {
	Season       string    `json:"season"`
	LastDownload time.Time `json:"last_download"`
}

// NewDownloader creates a Downloader.
func NewDownloader(opts Options) *Downloader {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.CacheDays <= 0 {
		opts.CacheDays = DefaultCacheDays
	}
	return &Downloader{
		dataDir:   opts.DataDir,
		cacheDays: opts.CacheDays,
		fetcher:   opts.Fetcher,
		now:       time.Now,
	}
}

// Ensure makes sure a fresh UTF-8 CSV for the city exists locally and
// returns its path. A fresh local copy short-circuits unless force is set.
// On download failure any existing local file is left untouched.
func (d *Downloader) Ensure(ctx context.Context, city string, force bool) (string, error) {
	src, err := Source(city)
	if err != nil {
		return "", err
	}

	path := filepath.Join(d.dataDir, src.Filename)
	log := zap.L().With(zap.String("city", city), zap.String("path", path))

	info := d.readVersionInfo()
	if !force && d.isFresh(path, info.Cities[city]) {
		log.Debug("local extract is fresh, skipping download")
		return path, nil
	}

	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "opendata: create data dir %s", d.dataDir)
	}

	season, err := d.download(ctx, src, path, log)
	if err != nil {
		return "", err
	}

	info.Cities[city] = cityVersion{Season: season, LastDownload: d.now()}
	d.writeVersionInfo(info)

	log.Info("extract updated", zap.String("season", season))
	return path, nil
}

// download fetches the season zip (falling back one quarter when the current
// one is not published yet), extracts the city CSV, transcodes it, and
// atomically replaces the target file. Returns the season that served.
func (d *Downloader) download(ctx context.Context, src CitySource, path string, log *zap.Logger) (string, error) {
	tmpZip := filepath.Join(d.dataDir, fmt.Sprintf("tmp-%s.zip", uuid.NewString()))
	defer os.Remove(tmpZip) //nolint:errcheck

	now := d.now()
	seasons := []string{Season(now), PrevSeason(now)}

	var lastErr error
	for _, season := range seasons {
		url := SeasonURL(season)
		log.Info("downloading batch extract", zap.String("season", season), zap.String("url", url))

		if _, err := d.fetcher.DownloadToFile(ctx, url, tmpZip); err != nil {
			lastErr = eris.Wrapf(err, "opendata: download season %s", season)
			log.Warn("season download failed", zap.String("season", season), zap.Error(err))
			continue
		}

		if err := d.install(tmpZip, src, path); err != nil {
			return "", err
		}
		return season, nil
	}

	return "", lastErr
}

// install extracts the city member from the zip into place, transcoding and
// backing up the previous file first.
func (d *Downloader) install(zipPath string, src CitySource, path string) error {
	tmpCSV := filepath.Join(d.dataDir, fmt.Sprintf("tmp-%s.csv", uuid.NewString()))
	defer os.Remove(tmpCSV) //nolint:errcheck

	if err := fetcher.ExtractMember(zipPath, src.Member(), tmpCSV); err != nil {
		return eris.Wrapf(err, "opendata: extract %s", src.Member())
	}
	if err := fetcher.EnsureUTF8File(tmpCSV); err != nil {
		return eris.Wrap(err, "opendata: transcode extract")
	}

	if _, err := os.Stat(path); err == nil {
		d.backup(path)
	}

	if err := os.Rename(tmpCSV, path); err != nil {
		return eris.Wrapf(err, "opendata: install %s", path)
	}
	return nil
}

// backup copies the current extract aside before it is replaced.
func (d *Downloader) backup(path string) {
	backupDir := filepath.Join(d.dataDir, "backup")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		zap.L().Warn("backup dir create failed", zap.Error(err))
		return
	}

	dest := filepath.Join(backupDir, fmt.Sprintf("%s.%s", filepath.Base(path), d.now().Format("20060102T150405")))
	b, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("backup read failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := os.WriteFile(dest, b, 0o644); err != nil {
		zap.L().Warn("backup write failed", zap.String("dest", dest), zap.Error(err))
	}
}

// isFresh reports whether the local file exists and its last download is
// within the cache window.
func (d *Downloader) isFresh(path string, ver cityVersion) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if ver.LastDownload.IsZero() {
		return false
	}
	return d.now().Sub(ver.LastDownload) < time.Duration(d.cacheDays)*24*time.Hour
}

func (d *Downloader) versionPath() string {
	return filepath.Join(d.dataDir, versionFileName)
}

func (d *Downloader) readVersionInfo() versionInfo {
	info := versionInfo{Cities: make(map[string]cityVersion)}

	b, err := os.ReadFile(d.versionPath())
	if err != nil {
		return info
	}
	if err := json.Unmarshal(b, &info); err != nil {
		zap.L().Warn("version info unreadable, ignoring", zap.Error(err))
		return versionInfo{Cities: make(map[string]cityVersion)}
	}
	if info.Cities == nil {
		info.Cities = make(map[string]cityVersion)
	}
	return info
}

func (d *Downloader) writeVersionInfo(info versionInfo) {
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		zap.L().Warn("version info marshal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(d.versionPath(), b, 0o644); err != nil {
		zap.L().Warn("version info write failed", zap.Error(err))
	}
}
