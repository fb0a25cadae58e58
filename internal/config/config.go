// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RedisURL selects the Redis state store when set. Empty keeps the
	// in-memory store, which suits demos and development.
	RedisURL string `koanf:"redis_url"`

	// ModelPath points at a trained parameter document. Empty uses the
	// parameter set embedded in the binary.
	ModelPath string `koanf:"model_path"`

	// SeedDemoUsers loads the three demo profiles into the store at
	// startup.
	SeedDemoUsers bool `koanf:"seed_demo_users"`

	// LockShards sets the number of shards in the per-user lock registry.
	LockShards int `koanf:"lock_shards"`

	// StreamWriteBufferKB sizes websocket buffers for the live stream.
	StreamWriteBufferKB int `koanf:"stream_write_buffer_kb"`

	// Simulation holds the perturbation step constants. They are
	// empirically chosen and tunable, not invariants.
	Simulation SimulationConfig `koanf:"simulation"`
}

// SimulationConfig bounds the positive perturbation applied per simulated
// event. Each step is attempted in the listed order and the first one with
// headroom wins.
type SimulationConfig struct {
	// UPIStep adds digital transactions, up to the vector bound.
	UPIStep int `koanf:"upi_step"`

	// BillStep adds on-time bill payments, up to the window size.
	BillStep int `koanf:"bill_step"`

	// RechargeStep raises recharge regularity, capped at 1.0.
	RechargeStep float64 `koanf:"recharge_step"`

	// SavingsStep raises the savings pattern, capped at 1.0.
	SavingsStep float64 `koanf:"savings_step"`
}

// New creates a Config with defaults. Loaders layer file and environment
// values on top.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		RedisURL:            "",
		ModelPath:           "",
		SeedDemoUsers:       true,
		LockShards:          16,
		StreamWriteBufferKB: 4,
		Simulation: SimulationConfig{
			UPIStep:      1,
			BillStep:     1,
			RechargeStep: 0.02,
			SavingsStep:  0.03,
		},
	}
}
