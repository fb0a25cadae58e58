// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/incluscore/incluscore/internal/adapters/repository"
	"github.com/incluscore/incluscore/internal/domain/advice"
	"github.com/incluscore/incluscore/internal/domain/band"
	"github.com/incluscore/incluscore/internal/domain/explain"
	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/model"
	"github.com/incluscore/incluscore/internal/domain/scoring"
	"github.com/incluscore/incluscore/internal/domain/types"
	"github.com/incluscore/incluscore/internal/domain/userlock"
	"github.com/incluscore/incluscore/pkg/logger"
	"github.com/incluscore/incluscore/pkg/metrics"
)

// Service implements the scoring pipeline and the incremental simulator.
// The pure scoring path holds no mutable state and runs fully in parallel;
// only Simulate touches stored state, serialized per user.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	model scoring.Model
	locks *userlock.Registry

	// Configuration
	steps      SimulationSteps
	lockShards int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the user state store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithModel sets the pretrained scoring model.
func WithModel(m scoring.Model) Option {
	return func(s *Service) {
		if m != nil {
			s.model = m
		}
	}
}

// WithSimulationSteps overrides the perturbation constants.
func WithSimulationSteps(steps SimulationSteps) Option {
	return func(s *Service) {
		if steps.positive() {
			s.steps = steps
		}
	}
}

// WithLockShards sets the shard count of the per-user lock registry.
func WithLockShards(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.lockShards = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		steps:      DefaultSimulationSteps(),
		lockShards: 16,
		logger:     nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes defaults for any component not injected via options:
// an in-memory store and the embedded pretrained model.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory state store")
	}
	if s.model == nil {
		params, err := scoring.DefaultParams()
		if err != nil {
			return fmt.Errorf("load embedded model: %w", err)
		}
		m := scoring.NewPretrainedModel()
		if err := m.Load(params); err != nil {
			return fmt.Errorf("install embedded model: %w", err)
		}
		s.model = m
		s.logger.Info(ctx, "using embedded model parameters", logger.String("version", params.Version))
	}
	s.locks = userlock.New(userlock.WithShardCount(s.lockShards))

	s.started = true
	metrics.UpdateModelReady(s.model.Ready())
	s.logger.Info(ctx, "scoring service started",
		logger.Int("lockShards", s.lockShards),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// Ready reports whether the model can serve predictions. Consulted before
// any scoring request is accepted.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && s.model != nil && s.model.Ready()
}

// StorageHealthy reports whether the state store is reachable.
func (s *Service) StorageHealthy(ctx context.Context) bool {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return false
	}
	healthy := store.Healthy(ctx)
	metrics.UpdateStorageConnected(healthy)
	return healthy
}

// Score runs the pure scoring pipeline on one feature vector. A failed
// attempt returns an error, never a placeholder score.
func (s *Service) Score(ctx context.Context, v feature.Vector) (types.ScoreResult, error) {
	if err := v.Validate(); err != nil {
		metrics.RecordValidationFailure()
		return types.ScoreResult{}, err
	}
	return s.scoreValidated(ctx, v)
}

// scoreValidated runs prediction, attribution, banding, and advice on a
// vector that already passed validation.
func (s *Service) scoreValidated(ctx context.Context, v feature.Vector) (types.ScoreResult, error) {
	start := time.Now()

	pred, err := s.model.Predict(ctx, v)
	if err != nil {
		metrics.RecordScoringError()
		if errors.Is(err, scoring.ErrModelNotReady) {
			return types.ScoreResult{}, err
		}
		return types.ScoreResult{}, fmt.Errorf("predict: %w", err)
	}

	score := pred.CreditScore()
	riskBand, decision := band.Classify(score)
	factors := explain.Normalize(pred.Importances)

	result := types.ScoreResult{
		CreditScore:          score,
		Confidence:           pred.Confidence,
		RiskBand:             riskBand,
		LenderRecommendation: decision,
		Factors:              factors,
		Recommendations:      advice.Generate(v, factors),
	}

	metrics.RecordScoreComputed()
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	return result, nil
}

// GetUser returns the stored financial state for a user.
func (s *Service) GetUser(ctx context.Context, userID string) (model.UserFinancialState, error) {
	state, err := s.store.LoadState(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			metrics.RecordStorageError()
		}
		return model.UserFinancialState{}, err
	}
	return state, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"modelReady": s.started && s.model != nil && s.model.Ready(),
	}

	if s.started {
		tracked := s.store.Count(ctx)
		stats["trackedUsers"] = tracked
		stats["storageConnected"] = s.store.Healthy(ctx)
		stats["heldUserLocks"] = s.locks.Held()

		metrics.UpdateTrackedUsers(tracked)
	}

	return stats
}
