package loadcheck_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rating/internal/adapters/http/api"
	"github.com/okian/rating/internal/adapters/storage"
	service "github.com/okian/rating/internal/app"
	"github.com/okian/rating/internal/loadcheck"
	"github.com/okian/rating/pkg/logger"
)

func TestRun(t *testing.T) {
	Convey("Given a running rating service", t, func() {
		closer, err := loadcheck.SetupLogging("", false)
		So(err, ShouldBeNil)
		defer func() { _ = closer.Close() }()

		for _, indexed := range []bool{false, true} {
			dir := t.TempDir()
			svc := service.New(
				service.WithLogger(logger.Nop()),
				service.WithStorage(storage.Config{Driver: storage.DriverFile, Path: filepath.Join(dir, "players.json")}),
				service.WithRankIndex(indexed),
			)
			So(svc.Start(context.Background()), ShouldBeNil)
			srv := httptest.NewServer(api.NewServer(svc, svc).Routes())

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			out := filepath.Join(dir, "out", "players.json")
			stats, err := loadcheck.Run(ctx, &loadcheck.Config{
				BaseURL:    srv.URL,
				Players:    60,
				Rounds:     2,
				Workers:    8,
				Timeout:    10 * time.Second,
				OutputFile: out,
			})
			cancel()
			srv.Close()
			svc.Stop()

			So(err, ShouldBeNil)
			So(stats.UpdatesSubmitted, ShouldEqual, 120)
			So(stats.UpdatesFailed, ShouldEqual, 0)
			So(stats.RatingEntries, ShouldEqual, 60)
			_, statErr := os.Stat(out)
			So(statErr, ShouldBeNil)
		}
	})

	Convey("Given an unreachable service", t, func() {
		_, err := loadcheck.SetupLogging("", false)
		So(err, ShouldBeNil)

		Convey("When running the check", func() {
			_, err := loadcheck.Run(context.Background(), &loadcheck.Config{
				BaseURL: "http://127.0.0.1:1",
				Players: 1,
				Rounds:  1,
				Workers: 1,
				Timeout: time.Second,
			})

			Convey("Then it should fail the health check", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "health check")
			})
		})
	})

	Convey("Given an invalid configuration", t, func() {
		_, err := loadcheck.Run(context.Background(), &loadcheck.Config{Players: 0, Rounds: 1, Workers: 1})

		Convey("Then Run should refuse it", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
