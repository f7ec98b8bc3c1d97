/**
 * Copyright 2025-present The TRTL Apps Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package listener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zoidbergZA/trtl-apps-go/internal/metrics"
	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
)

const defaultPollConcurrency = 4

// PollerConfig contains configuration for Poller
type PollerConfig struct {
	Service         Service
	Tracker         store.Tracker
	PollingInterval time.Duration
	Concurrency     int
}

// Poller resyncs every deposit and withdrawal that has not reached a terminal
// status. It covers webhook calls that never arrived.
type Poller struct {
	service         Service
	tracker         store.Tracker
	pollingInterval time.Duration
	concurrency     int

	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

type pollStats struct {
	synced int
	failed int
}

func NewPoller(cfg PollerConfig) *Poller {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultPollConcurrency
	}
	return &Poller{
		service:         cfg.Service,
		tracker:         cfg.Tracker,
		pollingInterval: cfg.PollingInterval,
		concurrency:     concurrency,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start runs an immediate catch-up poll and then polls on every interval
// until Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	if p.pollingInterval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", p.pollingInterval)
	}

	zap.L().Info("Starting status poller", zap.Duration("polling_interval", p.pollingInterval))
	go p.pollLoop(ctx)
	return nil
}

// Stop gracefully stops the poller and waits for the loop to exit
func (p *Poller) Stop() {
	zap.L().Info("Stopping status poller")
	p.stopOnce.Do(func() { close(p.stopChan) })
	<-p.doneChan
	zap.L().Info("Status poller stopped")
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer close(p.doneChan)

	ticker := time.NewTicker(p.pollingInterval)
	defer ticker.Stop()

	p.pollPending(ctx)

	for {
		select {
		case <-ticker.C:
			p.pollPending(ctx)
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// pollPending syncs all pending deposits and withdrawals once
func (p *Poller) pollPending(ctx context.Context) pollStats {
	ctx = models.WithSyncSource(ctx, models.SourcePoller)

	depositIds, err := p.tracker.PendingDeposits(ctx)
	if err != nil {
		zap.L().Error("Failed to load pending deposits", zap.Error(err))
	}
	withdrawalIds, err := p.tracker.PendingWithdrawals(ctx)
	if err != nil {
		zap.L().Error("Failed to load pending withdrawals", zap.Error(err))
	}

	if len(depositIds) == 0 && len(withdrawalIds) == 0 {
		zap.L().Debug("Nothing pending to poll")
		return pollStats{}
	}

	fmt.Printf("\n%s[%s] Polling %d deposits, %d withdrawals%s\n",
		colorCyan, time.Now().Format("15:04:05"), len(depositIds), len(withdrawalIds), colorReset)

	var mu sync.Mutex
	var stats pollStats

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	schedule := func(kind, id string, syncFn func(context.Context, string) (*models.SyncResult, error)) {
		g.Go(func() error {
			result, err := syncFn(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.failed++
				metrics.PollerSyncs.WithLabelValues(kind, "error").Inc()
				fmt.Printf("  %s✗ %s %s | %s%s\n", colorRed, kind, shortId(id), err, colorReset)
				zap.L().Error("Failed to sync "+kind,
					zap.String("id", id),
					zap.Error(err))
				return nil
			}

			stats.synced++
			metrics.PollerSyncs.WithLabelValues(kind, "ok").Inc()
			printResult(result)
			return nil
		})
	}

	for _, id := range depositIds {
		schedule("deposit", id, p.service.SyncDeposit)
	}
	for _, id := range withdrawalIds {
		schedule("withdrawal", id, p.service.SyncWithdrawal)
	}

	// sync errors are counted, never returned
	_ = g.Wait()

	zap.L().Debug("Poll completed",
		zap.Int("synced", stats.synced),
		zap.Int("failed", stats.failed))
	return stats
}

func printResult(r *models.SyncResult) {
	color, symbol := colorGray, "·"
	switch {
	case r.Journaled:
		color, symbol = colorGreen, "✓"
	case r.Advanced:
		color, symbol = colorYellow, "~"
	}
	fmt.Printf("  %s%s %s %s %s%s\n", color, symbol, r.Kind, shortId(r.Id), r.Status, colorReset)
}
