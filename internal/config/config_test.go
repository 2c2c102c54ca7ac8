package config_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/okian/rating/internal/adapters/storage"
	"github.com/okian/rating/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, storage.DriverFile)
			convey.So(cfg.DataPath, convey.ShouldEqual, "players.json")
			convey.So(cfg.RankIndex, convey.ShouldBeFalse)
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"addr is blank", func(c *config.Config) { c.Addr = " " }},
			{"log_format is unknown", func(c *config.Config) { c.LogFormat = "xml" }},
			{"storage_driver is unknown", func(c *config.Config) { c.StorageDriver = "s3" }},
			{"data_path is empty", func(c *config.Config) { c.DataPath = "" }},
			{"file_mode is not octal", func(c *config.Config) { c.FileMode = "rw-r--r--" }},
			{"file_mode is too wide", func(c *config.Config) { c.FileMode = "7777" }},
			{"redis_addr is empty", func(c *config.Config) { c.StorageDriver = storage.DriverRedis; c.RedisAddr = "" }},
			{"redis_db is negative", func(c *config.Config) { c.StorageDriver = storage.DriverRedis; c.RedisDB = -1 }},
			{"max_body_bytes is zero", func(c *config.Config) { c.MaxBodyBytes = 0 }},
		}
		for _, tc := range cases {
			tc := tc
			convey.Convey("When "+tc.name, func() {
				tc.mutate(cfg)

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When converting to storage settings", func() {
			cfg.FileMode = "0600"
			sc := cfg.Storage()

			convey.Convey("Then the fields should carry over", func() {
				convey.So(sc.Driver, convey.ShouldEqual, storage.DriverFile)
				convey.So(sc.Path, convey.ShouldEqual, "players.json")
				convey.So(sc.FileMode, convey.ShouldEqual, fs.FileMode(0o600))
				convey.So(sc.RedisKey, convey.ShouldEqual, "rating:players")
			})
		})

		convey.Convey("When file_mode is empty", func() {
			cfg.FileMode = ""
			mode, err := cfg.Mode()

			convey.Convey("Then the backend default should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(mode, convey.ShouldEqual, fs.FileMode(0))
			})
		})
	})
}
