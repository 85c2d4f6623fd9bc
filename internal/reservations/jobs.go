package reservations

import (
	"context"
	"log"
	"time"

	"seatly/pkg/logger"
)

// Sweeper periodically removes expired ledger rows. Reads already ignore
// expired rows, so the sweep only keeps the table small.
type Sweeper struct {
	service Service
	config  *SweeperConfig
	logger  *logger.Logger
	done    chan struct{}
}

// SweeperConfig contains configuration for the expiry sweeper
type SweeperConfig struct {
	Interval time.Duration
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		Interval: 1 * time.Minute,
	}
}

// NewSweeper creates a new expiry sweeper
func NewSweeper(service Service, config *SweeperConfig, log *logger.Logger) *Sweeper {
	if config == nil {
		config = DefaultSweeperConfig()
	}

	return &Sweeper{
		service: service,
		config:  config,
		logger:  log,
		done:    make(chan struct{}),
	}
}

// Start starts the sweep loop in its own goroutine
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Starting reservation expiry sweeper with %v interval", s.config.Interval)
	go s.run(ctx)
}

// Stop stops the sweep loop
func (s *Sweeper) Stop() {
	log.Println("Stopping reservation expiry sweeper...")
	close(s.done)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	removed, err := s.service.CleanupExpiredReservations(ctx)
	if err != nil {
		log.Printf("Error sweeping expired reservations: %v", err)
		return
	}

	if removed > 0 && s.logger != nil {
		s.logger.LogExpirySweep(ctx, removed, time.Since(start))
	}
}
