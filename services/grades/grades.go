package grades

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"

	"tmbot/appctx"
	"tmbot/clients"
	"tmbot/core"
	"tmbot/core/log"
	"tmbot/metrics"
	"tmbot/models"
)

// ErrServiceStopped is the failure cause for lookups that arrive after Stop
var ErrServiceStopped = errors.New("grades service is stopped")

// GradesService normalises trader-grade lookups into a FetchResult.
// Calls run on a bounded worker pool when maxConcurrency > 0.
type GradesService struct {
	client  clients.TokenMetricsClient
	metrics *metrics.Metrics
	pool    *workerpool.WorkerPool

	// stopMu is held for reading while a call is submitted, so Stop never
	// closes the pool under a pending SubmitWait
	stopMu  sync.RWMutex
	stopped bool
}

func NewGradesService(
	client clients.TokenMetricsClient,
	m *metrics.Metrics,
	maxConcurrency int,
) *GradesService {
	var pool *workerpool.WorkerPool
	if maxConcurrency > 0 {
		pool = workerpool.New(maxConcurrency)
	}
	return &GradesService{
		client:  client,
		metrics: m,
		pool:    pool,
	}
}

// Fetch performs exactly one provider call for symbol. Failure causes are logged
// for operators and kept in the result, never rendered to users.
func (s *GradesService) Fetch(ctx context.Context, symbol string) models.FetchResult {
	query := models.GradeQuery{
		Symbol: strings.ToUpper(symbol),
		Limit:  models.DefaultGradeLimit,
	}
	requestID := appctx.RequestIDOrEmpty(ctx)

	log.Debug("📋 Starting to fetch trader grades", "symbol", query.Symbol, "request_id", requestID)

	var (
		records []models.GradeRecord
		err     error
	)
	ran := s.run(func() {
		records, err = s.call(ctx, query)
	})
	if !ran {
		log.Warn("⚠️ Dropping trader grades lookup during shutdown", "symbol", query.Symbol, "request_id", requestID)
		return models.FetchFailure(ErrServiceStopped)
	}

	if err != nil {
		log.Error("❌ TokenMetrics request failed",
			"symbol", query.Symbol,
			"kind", core.ErrorKind(err),
			"error", err,
			"request_id", requestID,
		)
		return models.FetchFailure(err)
	}

	if len(records) == 0 {
		notFound := fmt.Errorf("no trader grades for %s: %w", query.Symbol, core.ErrNotFound)
		log.Info("🔍 No trader grades returned",
			"symbol", query.Symbol,
			"kind", core.ErrorKind(notFound),
			"error", notFound,
			"request_id", requestID,
		)
	} else {
		log.Debug("📋 Completed successfully - fetched trader grades",
			"symbol", query.Symbol,
			"records", len(records),
			"request_id", requestID,
		)
	}
	return models.FetchSuccess(records)
}

// Stop waits for queued provider calls to finish. Later Fetch calls fail with
// ErrServiceStopped. Stop is safe to call more than once.
func (s *GradesService) Stop() {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.pool != nil {
		s.pool.StopWait()
	}
}

// run executes task and reports false when the service is already stopped
func (s *GradesService) run(task func()) bool {
	s.stopMu.RLock()
	defer s.stopMu.RUnlock()

	if s.stopped {
		return false
	}
	if s.pool == nil {
		task()
		return true
	}
	s.pool.SubmitWait(task)
	return true
}

func (s *GradesService) call(ctx context.Context, query models.GradeQuery) ([]models.GradeRecord, error) {
	s.metrics.ProviderInFlight.Inc()
	defer s.metrics.ProviderInFlight.Dec()

	start := time.Now()
	records, err := s.client.GetTraderGrades(ctx, query)
	s.metrics.ProviderLatency.Observe(time.Since(start).Seconds())

	result := core.ErrorKind(err)
	if err == nil && len(records) == 0 {
		result = core.ErrorKind(core.ErrNotFound)
	}
	s.metrics.ProviderRequests.WithLabelValues(result).Inc()

	return records, err
}
