// Package worker runs the background maintenance tasks of the application.
package worker

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"grill-ekstraklasa/internal/services"

	"gorm.io/gorm"
)

// WorkerService manages background workers for the application. The only
// periodic task is the aggregate resync: it repairs any drift between the
// cached player aggregates and the ratings table.
type WorkerService struct {
	ratings        *services.RatingsService
	resyncInterval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex

	lastResync   time.Time
	resyncErrors int
}

// NewWorkerService creates a worker service. The resync interval comes from
// RESYNC_INTERVAL (Go duration syntax), default 6h; zero disables the task.
func NewWorkerService(db *gorm.DB) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())

	interval := 6 * time.Hour
	if v := os.Getenv("RESYNC_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}

	return &WorkerService{
		ratings:        services.NewRatingsService(db),
		resyncInterval: interval,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil
	}

	log.Println("Starting background workers...")

	if ws.resyncInterval > 0 {
		ws.wg.Add(1)
		go func() {
			defer ws.wg.Done()
			ws.runAggregateResync()
		}()
	}

	ws.running = true
	log.Println("Background workers started successfully")
	return nil
}

// Stop stops all background workers and waits for them to finish
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return
	}

	log.Println("Stopping background workers...")
	ws.cancel()
	ws.wg.Wait()
	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// Status describes the worker state for the status endpoint
type Status struct {
	Running      bool      `json:"running"`
	LastResync   time.Time `json:"last_resync"`
	ResyncErrors int       `json:"resync_errors"`
}

// GetStatus returns a snapshot of the worker state
func (ws *WorkerService) GetStatus() Status {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return Status{
		Running:      ws.running,
		LastResync:   ws.lastResync,
		ResyncErrors: ws.resyncErrors,
	}
}

// runAggregateResync periodically rewrites every player's cached aggregate
// from the ratings table.
func (ws *WorkerService) runAggregateResync() {
	ticker := time.NewTicker(ws.resyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ws.ctx.Done():
			log.Println("Aggregate resync worker stopped")
			return
		case <-ticker.C:
			updated, err := ws.ratings.RecalculateAll()
			ws.mu.Lock()
			if err != nil {
				ws.resyncErrors++
				ws.mu.Unlock()
				log.Printf("Aggregate resync failed after %d players: %v", updated, err)
				continue
			}
			ws.lastResync = time.Now()
			ws.mu.Unlock()
			log.Printf("Aggregate resync completed, %d players updated", updated)
		}
	}
}
