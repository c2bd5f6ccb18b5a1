package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/okian/talentsim/internal/adapters/mq/queue"
	"github.com/okian/talentsim/internal/adapters/mq/worker"
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type recordingSaver struct {
	mu     sync.Mutex
	rounds []int
	failOn int
	delay  time.Duration
}

func (r *recordingSaver) Save(_ context.Context, s model.Snapshot) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Round == r.failOn {
		return errors.New("disk full")
	}
	r.rounds = append(r.rounds, s.Round)
	return nil
}

func (r *recordingSaver) Rounds() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.rounds...)
}

func snapshotAt(round int) model.Snapshot {
	s := model.Snapshot{Round: round}
	s.Normalize()
	return s
}

func TestPersister(t *testing.T) {
	convey.Convey("Given a persister on a queue", t, func() {
		convey.So(logger.InitWithWriter(io.Discard, "info"), convey.ShouldBeNil)
		ctx := context.Background()
		q := queue.NewSnapshotQueue(queue.WithCapacity(8))
		saver := &recordingSaver{}
		p := worker.NewPersister(q, saver, worker.WithName("test-persister"), worker.WithSaveTimeout(time.Second))

		convey.Convey("When snapshots are queued and the persister stops", func() {
			p.Start(ctx)
			p.Start(ctx)
			for round := 1; round <= 3; round++ {
				convey.So(q.Enqueue(ctx, snapshotAt(round)), convey.ShouldBeNil)
			}
			err := p.Stop(ctx)

			convey.Convey("Then every snapshot is saved in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(saver.Rounds(), convey.ShouldResemble, []int{1, 2, 3})
				convey.So(p.Saved(), convey.ShouldEqual, 3)
				convey.So(p.Failed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a save fails", func() {
			saver.failOn = 2
			p.Start(ctx)
			for round := 1; round <= 3; round++ {
				convey.So(q.Enqueue(ctx, snapshotAt(round)), convey.ShouldBeNil)
			}
			convey.So(p.Stop(ctx), convey.ShouldBeNil)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(saver.Rounds(), convey.ShouldResemble, []int{1, 3})
				convey.So(p.Failed(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When stop times out", func() {
			saver.delay = 200 * time.Millisecond
			p.Start(ctx)
			convey.So(q.Enqueue(ctx, snapshotAt(1)), convey.ShouldBeNil)
			short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()

			convey.Convey("Then an error is returned", func() {
				convey.So(p.Stop(short), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When it is never started", func() {
			convey.Convey("Then stop only closes the queue", func() {
				convey.So(p.Stop(ctx), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
