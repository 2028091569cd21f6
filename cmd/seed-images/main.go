package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shinyyama/placereview/internal/config"
	"github.com/shinyyama/placereview/internal/db"
	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/storage"
)

type Options struct {
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"300"`
	PlaceholderURL string `env:"PLACEHOLDER_URL" envDefault:"https://picsum.photos/seed/%s/800/600"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed-images failed: %v", err)
	}
	log.Println("seed-images completed successfully")
}

func run() error {
	_ = godotenv.Load()
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close(gdb)

	store, err := storage.New(ctx, storage.Options{
		Bucket:          cfg.StorageBucket,
		CredentialsFile: cfg.GCSCredentialsFile,
		UploadDir:       cfg.UploadDir,
		PublicBaseURL:   cfg.PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	images := repository.NewItemImageRepository(gdb)
	items, err := images.ItemsWithoutPrimary(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	log.Printf("backfill: target items=%d", len(items))

	fetch := func(ctx context.Context, seed string) ([]byte, error) {
		return fetchPlaceholder(ctx, http.DefaultClient, fmt.Sprintf(opts.PlaceholderURL, url.PathEscape(seed)))
	}
	done := backfill(ctx, items, images, store, fetch)
	log.Printf("backfill: updated %d/%d items", done, len(items))
	return nil
}

type fetchFunc func(ctx context.Context, seed string) ([]byte, error)

// backfill gives every item a primary image. Failures are logged and skipped
// so one bad item does not stop the run.
func backfill(ctx context.Context, items []model.Item, images repository.ItemImageRepository, store storage.ImageStore, fetch fetchFunc) int {
	done := 0
	for _, it := range items {
		data, err := fetch(ctx, fmt.Sprintf("item-%d", it.ID))
		if err != nil {
			log.Printf("[item %d] placeholder fetch failed: %v", it.ID, err)
			continue
		}
		contentType, err := storage.Sniff(data)
		if err != nil {
			log.Printf("[item %d] placeholder rejected: %v", it.ID, err)
			continue
		}
		publicURL, err := store.Save(ctx, storage.ObjectPath(it.ID, contentType), contentType, data)
		if err != nil {
			log.Printf("[item %d] upload failed: %v", it.ID, err)
			continue
		}
		img := &model.ItemImage{ItemID: it.ID, ImageURL: publicURL, IsPrimary: true}
		if err := images.Create(ctx, img); err != nil {
			log.Printf("[item %d] db insert failed: %v", it.ID, err)
			continue
		}
		log.Printf("[item %d] primary image %s", it.ID, publicURL)
		done++
	}
	return done
}

func fetchPlaceholder(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("placeholder status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}
