package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/incluscore/incluscore/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given a fresh configuration", t, func() {
		cfg := config.New()

		Convey("Then the shipped defaults apply", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.RedisURL, ShouldBeEmpty)
			So(cfg.ModelPath, ShouldBeEmpty)
			So(cfg.SeedDemoUsers, ShouldBeTrue)
			So(cfg.LockShards, ShouldEqual, 16)
			So(cfg.StreamWriteBufferKB, ShouldEqual, 4)
		})

		Convey("And the simulation steps match the trained constants", func() {
			So(cfg.Simulation.UPIStep, ShouldEqual, 1)
			So(cfg.Simulation.BillStep, ShouldEqual, 1)
			So(cfg.Simulation.RechargeStep, ShouldAlmostEqual, 0.02)
			So(cfg.Simulation.SavingsStep, ShouldAlmostEqual, 0.03)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()

		Convey("When loading without overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LockShards, ShouldEqual, 16)
			})
		})

		Convey("When environment variables override fields", func() {
			So(os.Setenv("INCLUSCORE_ADDR", ":8080"), ShouldBeNil)
			So(os.Setenv("INCLUSCORE_LOG_LEVEL", "debug"), ShouldBeNil)
			So(os.Setenv("INCLUSCORE_SIMULATION__UPI_STEP", "3"), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("INCLUSCORE_ADDR")
				_ = os.Unsetenv("INCLUSCORE_LOG_LEVEL")
				_ = os.Unsetenv("INCLUSCORE_SIMULATION__UPI_STEP")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then the overrides win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Simulation.UPIStep, ShouldEqual, 3)
			})

			Convey("And untouched fields keep their defaults", func() {
				So(cfg.LockShards, ShouldEqual, 16)
				So(cfg.Simulation.BillStep, ShouldEqual, 1)
			})
		})

		Convey("When a YAML file provides values", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "addr: \":7070\"\nlock_shards: 32\nsimulation:\n  savings_step: 0.05\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			So(os.Setenv("INCLUSCORE_CONFIG", path), ShouldBeNil)
			defer func() { _ = os.Unsetenv("INCLUSCORE_CONFIG") }()

			cfg, err := config.Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LockShards, ShouldEqual, 32)
				So(cfg.Simulation.SavingsStep, ShouldAlmostEqual, 0.05)
			})

			Convey("And environment still wins over the file", func() {
				So(os.Setenv("INCLUSCORE_ADDR", ":6060"), ShouldBeNil)
				defer func() { _ = os.Unsetenv("INCLUSCORE_ADDR") }()

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.LockShards, ShouldEqual, 32)
			})
		})

		Convey("When the configured file is missing", func() {
			So(os.Setenv("INCLUSCORE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml")), ShouldBeNil)
			defer func() { _ = os.Unsetenv("INCLUSCORE_CONFIG") }()

			_, err := config.Load(ctx)

			Convey("Then loading fails with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When an override empties the listen address", func() {
			So(os.Setenv("INCLUSCORE_ADDR", ""), ShouldBeNil)
			defer func() { _ = os.Unsetenv("INCLUSCORE_ADDR") }()

			_, err := config.Load(ctx)

			Convey("Then validation rejects it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the lock shard count is not positive", func() {
			So(os.Setenv("INCLUSCORE_LOCK_SHARDS", "0"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("INCLUSCORE_LOCK_SHARDS") }()

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When a simulation step is negative", func() {
			So(os.Setenv("INCLUSCORE_SIMULATION__UPI_STEP", "-1"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("INCLUSCORE_SIMULATION__UPI_STEP") }()

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When every simulation step is zero", func() {
			for _, kv := range [][2]string{
				{"INCLUSCORE_SIMULATION__UPI_STEP", "0"},
				{"INCLUSCORE_SIMULATION__BILL_STEP", "0"},
				{"INCLUSCORE_SIMULATION__RECHARGE_STEP", "0"},
				{"INCLUSCORE_SIMULATION__SAVINGS_STEP", "0"},
			} {
				So(os.Setenv(kv[0], kv[1]), ShouldBeNil)
			}
			defer func() {
				for _, key := range []string{
					"INCLUSCORE_SIMULATION__UPI_STEP",
					"INCLUSCORE_SIMULATION__BILL_STEP",
					"INCLUSCORE_SIMULATION__RECHARGE_STEP",
					"INCLUSCORE_SIMULATION__SAVINGS_STEP",
				} {
					_ = os.Unsetenv(key)
				}
			}()

			_, err := config.Load(ctx)

			Convey("Then the simulator cannot be configured into a no-op", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
