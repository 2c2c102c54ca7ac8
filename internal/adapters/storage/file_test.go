package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFileBackend(t *testing.T) {
	Convey("Given a file backend in an empty directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "players.json")
		b, err := NewFileBackend(path)
		So(err, ShouldBeNil)

		Convey("When reading before any write", func() {
			data, err := b.Read(ctx)

			Convey("Then it should report ErrNotExist", func() {
				So(data, ShouldBeNil)
				So(errors.Is(err, ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When writing and reading back", func() {
			So(b.Write(ctx, []byte(`{"1":{"name":"Ann","score":10}}`)), ShouldBeNil)
			data, err := b.Read(ctx)

			Convey("Then the contents should round-trip", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"1":{"name":"Ann","score":10}}`)
			})

			Convey("And no temp files should be left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Name(), ShouldEqual, "players.json")
			})
		})

		Convey("When overwriting existing contents", func() {
			So(b.Write(ctx, []byte("first-version-with-longer-body")), ShouldBeNil)
			So(b.Write(ctx, []byte("second")), ShouldBeNil)
			data, err := b.Read(ctx)

			Convey("Then only the new contents should remain", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "second")
			})
		})

		Convey("When the directory disappears before a write", func() {
			So(b.Write(ctx, []byte("kept")), ShouldBeNil)
			missing, err := NewFileBackend(filepath.Join(dir, "gone", "players.json"))
			So(err, ShouldBeNil)
			err = missing.Write(ctx, []byte("lost"))

			Convey("Then the write should fail without touching other data", func() {
				So(err, ShouldNotBeNil)
				data, rerr := b.Read(ctx)
				So(rerr, ShouldBeNil)
				So(string(data), ShouldEqual, "kept")
			})
		})

		Convey("When the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then read and write should return the context error", func() {
				_, rerr := b.Read(cctx)
				So(errors.Is(rerr, context.Canceled), ShouldBeTrue)
				So(errors.Is(b.Write(cctx, []byte("x")), context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestFileBackend_Options(t *testing.T) {
	Convey("Given file backend options", t, func() {
		dir := t.TempDir()

		Convey("When the parent directory must be created", func() {
			path := filepath.Join(dir, "nested", "data", "players.json")
			b, err := NewFileBackend(path, WithCreateDir(true), WithFileMode(0o600))

			Convey("Then the directory should exist and the mode should apply", func() {
				So(err, ShouldBeNil)
				So(b.Write(context.Background(), []byte("{}")), ShouldBeNil)
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
				So(b.String(), ShouldEqual, "file://"+path)
			})
		})

		Convey("When the path is empty", func() {
			b, err := NewFileBackend("")

			Convey("Then construction should fail", func() {
				So(err, ShouldNotBeNil)
				So(b, ShouldBeNil)
			})
		})
	})
}

func TestFileBackend_ConcurrentReadersSeeWholeBlobs(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "players.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	small := []byte("aaaa")
	large := make([]byte, 64*1024)
	for i := range large {
		large[i] = 'b'
	}
	if err := b.Write(ctx, small); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			blob := small
			if i%2 == 0 {
				blob = large
			}
			if err := b.Write(ctx, blob); err != nil {
				t.Errorf("write failed: %v", err)
				return
			}
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		data, err := b.Read(ctx)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(data) != len(small) && len(data) != len(large) {
			t.Fatalf("torn read: got %d bytes", len(data))
		}
	}
}

func TestOpen(t *testing.T) {
	Convey("Given backend selection by driver", t, func() {
		ctx := context.Background()

		Convey("When the driver is file", func() {
			b, err := Open(ctx, Config{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "p.json")})

			Convey("Then a file backend should be returned", func() {
				So(err, ShouldBeNil)
				_, ok := b.(*FileBackend)
				So(ok, ShouldBeTrue)
				So(b.Close(), ShouldBeNil)
			})
		})

		Convey("When the selected backend cannot be built", func() {
			fb, ferr := Open(ctx, Config{Driver: DriverFile})
			rb, rerr := Open(ctx, Config{Driver: DriverRedis})

			Convey("Then the error should come with a nil interface", func() {
				So(ferr, ShouldNotBeNil)
				So(fb == nil, ShouldBeTrue)
				So(rerr, ShouldNotBeNil)
				So(rb == nil, ShouldBeTrue)
			})
		})

		Convey("When the driver is unknown", func() {
			b, err := Open(ctx, Config{Driver: "etcd"})

			Convey("Then ErrUnknownDriver should be returned", func() {
				So(b, ShouldBeNil)
				So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
			})
		})
	})
}
