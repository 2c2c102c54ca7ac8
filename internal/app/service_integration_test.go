package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/okian/rating/internal/adapters/storage"
	service "github.com/okian/rating/internal/app"
	"github.com/okian/rating/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	backends := map[string]func(t *testing.T) storage.Config{
		"file": func(t *testing.T) storage.Config {
			cfg, _ := fileStorage(t)
			return cfg
		},
		"redis": func(t *testing.T) storage.Config {
			mr := miniredis.RunT(t)
			return storage.Config{Driver: storage.DriverRedis, RedisAddr: mr.Addr(), RedisKey: "it:players"}
		},
	}

	for _, name := range []string{"file", "redis"} {
		name := name
		Convey("Given a service backed by "+name+" storage", t, func() {
			svc := service.New(service.WithStorage(backends[name](t)))
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("When many clients update distinct players concurrently", func() {
				const n = 40
				var wg sync.WaitGroup
				errs := make(chan error, n)
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						errs <- svc.UpdateScore(ctx, model.Record{
							UserID: fmt.Sprintf("p%02d", i),
							Name:   fmt.Sprintf("player %d", i),
							Score:  float64(i % 7),
						})
					}(i)
				}
				wg.Wait()
				close(errs)

				Convey("Then every update should succeed and be present exactly once", func() {
					for err := range errs {
						So(err, ShouldBeNil)
					}
					got, err := svc.Rating(ctx)
					So(err, ShouldBeNil)
					So(len(got), ShouldEqual, n)

					seen := map[string]bool{}
					for i, e := range got {
						So(seen[e.UserID], ShouldBeFalse)
						seen[e.UserID] = true
						if i > 0 {
							prev := got[i-1]
							So(prev.Score > e.Score || (prev.Score == e.Score && prev.UserID < e.UserID), ShouldBeTrue)
						}
					}
				})
			})
		})
	}
}
