package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialised with the defaults", func() {
			err := Init()

			Convey("Then it can be fetched and synced", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialised with a nil writer", func() {
			So(InitWithWriter(nil, "info"), ShouldNotBeNil)
		})

		Convey("When initialised with an unknown level", func() {
			So(InitWithWriter(&bytes.Buffer{}, "loud"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, "info"), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "round committed",
				String("mode", "basic"),
				Int("round", 2),
				Float64("score", 4.25),
				Bool("finished", false),
				Duration("took", time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then the fields and the source are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "round committed")
				So(out, ShouldContainSubstring, "round=2")
				So(out, ShouldContainSubstring, "score=4.25")
				So(out, ShouldContainSubstring, "finished=false")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When a named logger is used", func() {
			Named("service").Warn(ctx, "queue full")

			Convey("Then the name is attached", func() {
				So(buf.String(), ShouldContainSubstring, "logger=service")
				So(buf.String(), ShouldContainSubstring, "level=WARN")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Debug(ctx, "hidden too")
			Get().Error(ctx, "shown")

			Convey("Then lower levels are filtered", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Reset(func() {
			_ = SetLevelString("info")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
