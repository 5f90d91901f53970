package cmd

import (
	"context"
	"log"

	"seat-reserve-cli/config"
	"seat-reserve-cli/model"
	"seat-reserve-cli/service"
	"seat-reserve-cli/store"
)

type loader struct {
	cfg    config.Config
	client *service.Client
}

func newLoader(cfg config.Config, client *service.Client) *loader {
	return &loader{cfg: cfg, client: client}
}

func (l *loader) source() string {
	return l.cfg.Source(service.BundledSource)
}

// Load returns the seats for the configured source. Remote datasets go
// through the local cache; a stale cache is still used when the fetch fails.
func (l *loader) Load(ctx context.Context) ([]model.Seat, error) {
	source := l.source()
	seats, err := l.load(ctx, source)
	if err != nil {
		return nil, err
	}
	log.Printf("dataset %s: %d seats", source, len(seats))
	if source != service.BundledSource {
		if err := store.RememberSource(source); err != nil {
			log.Printf("remember source: %v", err)
		}
	}
	return seats, nil
}

func (l *loader) load(ctx context.Context, source string) ([]model.Seat, error) {
	switch {
	case l.cfg.URL != "":
		return l.fetch(ctx, source)
	case l.cfg.Dataset != "":
		return service.LoadFile(l.cfg.Dataset)
	default:
		return service.LoadBundled()
	}
}

func (l *loader) fetch(ctx context.Context, source string) ([]model.Seat, error) {
	cached, fresh, cacheErr := store.LoadSeatCache(source)
	if cacheErr != nil {
		log.Printf("seat cache: %v", cacheErr)
	}
	if !l.cfg.NoCache && fresh && len(cached) > 0 {
		log.Printf("dataset %s: using cache", source)
		return cached, nil
	}

	seats, err := l.client.FetchSeats(ctx, l.cfg.URL)
	if err != nil {
		if len(cached) > 0 && !service.IsNotFound(err) {
			log.Printf("fetch %s failed, using stale cache: %v", source, err)
			return cached, nil
		}
		return nil, err
	}
	if err := store.SaveSeatCache(source, seats); err != nil {
		log.Printf("save seat cache: %v", err)
	}
	return seats, nil
}
