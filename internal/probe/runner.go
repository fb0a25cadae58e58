package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/incluscore/incluscore/pkg/logger"
)

// Run executes the complete scoring probe.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	log := logger.Get()
	if config.Verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			log.Warn(ctx, "failed to enable verbose logging", logger.Error(err))
		}
	}
	log.Info(ctx, "starting scoring probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("profiles", config.NumProfiles),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("resubmits", config.Resubmits))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate synthetic applicants
	profiles := generateProfiles(config, stats)
	log.Info(ctx, "generated profiles", logger.Int("count", len(profiles)))

	// Step 3: Score them concurrently
	outcomes, err := submitProfiles(ctx, config, profiles, stats)
	if err != nil {
		return fmt.Errorf("profile submission failed: %w", err)
	}

	// Step 4: Check the scoring contract on every outcome
	if err := verifyOutcomes(ctx, outcomes, stats); err != nil {
		return fmt.Errorf("outcome verification failed: %w", err)
	}

	// Step 5: Re-score a sample and require identical results
	if err := verifyDeterminism(ctx, config, profiles, outcomes, stats); err != nil {
		return fmt.Errorf("determinism check failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	log.Info(ctx, "probe completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	log := logger.Get()
	log.Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	log.Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final probe statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, profilesPerSecond float64

	if stats.ProfilesSubmitted > 0 {
		successRate = float64(stats.ProfilesSuccessful) / float64(stats.ProfilesSubmitted) * 100
	}

	if stats.Duration > 0 {
		profilesPerSecond = float64(stats.ProfilesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("profilesGenerated", stats.ProfilesGenerated),
		logger.Int("profilesSubmitted", stats.ProfilesSubmitted),
		logger.Int("profilesSuccessful", stats.ProfilesSuccessful),
		logger.Int("profilesRejected", stats.ProfilesRejected),
		logger.Int("profilesFailed", stats.ProfilesFailed),
		logger.Int("invariantFailures", stats.InvariantFailures),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("profilesPerSecond", profilesPerSecond))
}
