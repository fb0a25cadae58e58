package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/incluscore/incluscore/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitResult pairs a profile with its scoring outcome.
type submitResult struct {
	profile Profile
	outcome Outcome
	ok      bool
}

// submitProfiles scores profiles concurrently using a worker pool and
// returns the successful outcomes keyed by profile id.
func submitProfiles(ctx context.Context, config *Config, profiles []Profile, stats *Stats) (map[string]Outcome, error) {
	log := logger.Get()
	log.Info(ctx, "submitting profiles",
		logger.Int("profiles", len(profiles)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/score"

	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
	)

	profileChan := make(chan Profile, config.Workers*2)
	resultChan := make(chan submitResult, len(profiles))
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for profile := range profileChan {
				select {
				case <-ctx.Done():
					return
				default:
					outcome, status := scoreSingleProfile(ctx, client, url, profile)

					atomic.AddInt64(&submitted, 1)
					switch status {
					case "success":
						atomic.AddInt64(&successful, 1)
						resultChan <- submitResult{profile: profile, outcome: outcome, ok: true}
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(profileChan)
		for _, profile := range profiles {
			select {
			case <-ctx.Done():
				return
			case profileChan <- profile:
			}
		}
	}()

	wg.Wait()
	close(resultChan)

	outcomes := make(map[string]Outcome, len(profiles))
	for result := range resultChan {
		if result.ok {
			outcomes[result.profile.ID] = result.outcome
		}
	}

	stats.ProfilesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ProfilesSuccessful = int(atomic.LoadInt64(&successful))
	stats.ProfilesRejected = int(atomic.LoadInt64(&rejected))
	stats.ProfilesFailed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "profile submission completed",
		logger.Int("successful", stats.ProfilesSuccessful),
		logger.Int("rejected", stats.ProfilesRejected),
		logger.Int("failed", stats.ProfilesFailed))

	if stats.ProfilesSuccessful == 0 {
		return nil, fmt.Errorf("no profiles scored successfully")
	}
	return outcomes, nil
}

// scoreSingleProfile scores one profile and classifies the result.
func scoreSingleProfile(ctx context.Context, client *HTTPClient, url string, profile Profile) (Outcome, string) {
	resp, err := client.Post(ctx, url, profile)
	if err != nil {
		return Outcome{}, "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Outcome{}, "failed"
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var outcome Outcome
		if err := json.Unmarshal(body, &outcome); err != nil {
			return Outcome{}, "failed"
		}
		return outcome, "success"
	case http.StatusBadRequest:
		// Validation rejected the profile; expected for out-of-range inputs
		return Outcome{}, "rejected"
	default:
		return Outcome{}, "failed"
	}
}
