package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/talentsim/internal/adapters/repository"
	service "github.com/okian/talentsim/internal/app"
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/round"
	"github.com/okian/talentsim/internal/domain/vacancy"
	"github.com/okian/talentsim/pkg/logger"
)

func init() {
	if err := logger.InitWithWriter(io.Discard, "error"); err != nil {
		panic(err)
	}
}

// sequence returns a deterministic id generator: ID-1, ID-2, ...
func sequence() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("ID-%d", n.Add(1)) }
}

// stubStore fails every load with err.
type stubStore struct {
	err   error
	saved atomic.Int64
}

func (s *stubStore) Load(context.Context) (model.Snapshot, error) { return model.Snapshot{}, s.err }

func (s *stubStore) Save(context.Context, model.Snapshot) error {
	s.saved.Add(1)
	return nil
}

func newService(store repository.Store, opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithStore(store),
		service.WithIDGenerator(sequence()),
	}
	return service.New(append(base, opts...)...)
}

// placeAll gives every active employee a middle placement.
func placeAll(ctx context.Context, svc *service.Service) {
	snap, err := svc.Snapshot()
	So(err, ShouldBeNil)
	for _, e := range snap.Active() {
		So(svc.PlaceNineBox(ctx, e.ID, model.Placement{PerfBucket: 1, PotBucket: 1}), ShouldBeNil)
	}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := newService(repository.NewMemoryStore())

		Convey("Then reads and actions fail with ErrNotStarted", func() {
			_, err := svc.Snapshot()
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Commit(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.AssignTraining(context.Background(), "E02", "performance"), service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})

		Convey("Then Stop is a no-op", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})

	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := newService(store)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then a fresh simulation is seeded", func() {
			snap, err := svc.Snapshot()
			So(err, ShouldBeNil)
			So(snap.Round, ShouldEqual, 1)
			So(snap.Mode, ShouldEqual, model.ModeBasic)
			So(len(snap.Employees), ShouldEqual, 32)
			So(snap.History.Len(), ShouldEqual, 0)

			open, _ := svc.OpenPositions()
			So(open, ShouldBeEmpty)
			applicants, _ := svc.Applicants()
			So(applicants, ShouldBeEmpty)

			phase, _ := svc.Phase()
			So(phase, ShouldEqual, round.InProgress)
			stats := svc.GetStats()
			So(stats["round"], ShouldEqual, 1)
			So(stats["active"], ShouldEqual, 32)
		})

		Convey("Then starting twice is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("When the service is stopped", func() {
			So(svc.AssignTraining(ctx, "E02", "performance"), ShouldBeNil)
			svc.Stop()

			Convey("Then the latest state has been saved", func() {
				saved, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(saved.Trainings["E02"], ShouldEqual, model.TrainingPerformance)
				So(store.Saves(), ShouldBeGreaterThanOrEqualTo, 2)
			})

			Convey("And a new service starts on the same store", func() {
				again := newService(store)
				So(again.Start(ctx), ShouldBeNil)
				defer again.Stop()

				Convey("Then it resumes the saved state", func() {
					snap, _ := again.Snapshot()
					So(snap.Trainings["E02"], ShouldEqual, model.TrainingPerformance)
				})
			})
		})

		Reset(svc.Stop)
	})

	Convey("Given a store holding an unreadable snapshot", t, func() {
		ctx := context.Background()
		store := &stubStore{err: fmt.Errorf("%w: truncated", repository.ErrCorruptSnapshot)}
		svc := newService(store, service.WithMode(model.ModeAdvanced))

		Convey("Then Start reseeds in the configured mode", func() {
			So(svc.Start(ctx), ShouldBeNil)
			snap, _ := svc.Snapshot()
			So(snap.Round, ShouldEqual, 1)
			So(snap.Mode, ShouldEqual, model.ModeAdvanced)
			svc.Stop()
			So(store.saved.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a store that cannot be reached", t, func() {
		store := &stubStore{err: errors.New("connection refused")}
		svc := newService(store)

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "connection refused")
		})
	})
}

func TestService_Actions(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryStore())
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("When trainings are assigned up to the cap", func() {
			for _, id := range []string{"E02", "E04", "E06", "E07"} {
				So(svc.AssignTraining(ctx, id, "performance"), ShouldBeNil)
			}

			Convey("Then a fifth assignment is refused", func() {
				err := svc.AssignTraining(ctx, "E08", "potential")
				So(errors.Is(err, service.ErrTrainingCapReached), ShouldBeTrue)
			})

			Convey("Then an assigned employee can switch kind", func() {
				So(svc.AssignTraining(ctx, "E07", "potential"), ShouldBeNil)
				snap, _ := svc.Snapshot()
				So(snap.Trainings["E07"], ShouldEqual, model.TrainingPotential)
			})

			Convey("Then clearing one frees a slot", func() {
				So(svc.AssignTraining(ctx, "E02", "none"), ShouldBeNil)
				So(svc.AssignTraining(ctx, "E08", "potential"), ShouldBeNil)
				r, _ := svc.Preflight()
				So(r.UnusedTrainingSlots, ShouldEqual, 0)
			})
		})

		Convey("When the training kind is unknown", func() {
			err := svc.AssignTraining(ctx, "E02", "leadership")
			So(errors.Is(err, service.ErrInvalidTraining), ShouldBeTrue)
		})

		Convey("When the employee does not exist", func() {
			err := svc.AssignTraining(ctx, "E99", "performance")
			So(errors.Is(err, vacancy.ErrEmployeeNotFound), ShouldBeTrue)
			err = svc.PlaceNineBox(ctx, "E99", model.Placement{})
			So(errors.Is(err, vacancy.ErrEmployeeNotFound), ShouldBeTrue)
		})

		Convey("When a placement is off the grid", func() {
			err := svc.PlaceNineBox(ctx, "E02", model.Placement{PerfBucket: 3, PotBucket: 0})
			So(errors.Is(err, service.ErrInvalidPlacement), ShouldBeTrue)
		})

		Convey("When committing before everyone is placed", func() {
			So(svc.PlaceNineBox(ctx, "E01", model.Placement{PerfBucket: 2, PotBucket: 2}), ShouldBeNil)
			_, err := svc.Commit(ctx)

			Convey("Then the commit is refused and nothing changes", func() {
				So(errors.Is(err, service.ErrNineBoxIncomplete), ShouldBeTrue)
				snap, _ := svc.Snapshot()
				So(snap.Round, ShouldEqual, 1)
				r, _ := svc.Preflight()
				So(len(r.MissingPlacements), ShouldEqual, 31)
			})
		})

		Convey("When promoting before any title is open", func() {
			err := svc.Promote(ctx, "E07", "VP, Department D")
			So(errors.Is(err, vacancy.ErrPositionNotOpen), ShouldBeTrue)
		})
	})
}

func TestService_Rounds(t *testing.T) {
	Convey("Given a two-round simulation", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := newService(store, service.WithMaxRounds(2))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		So(svc.AssignTraining(ctx, "E07", "potential"), ShouldBeNil)
		placeAll(ctx, svc)

		Convey("When the first round is committed", func() {
			res, err := svc.Commit(ctx)
			So(err, ShouldBeNil)

			Convey("Then the flagged employees leave", func() {
				So(res.Summary.Round, ShouldEqual, 1)
				So(res.Summary.Left, ShouldResemble, []model.Departure{
					{ID: "E01", Name: res.Summary.Left[0].Name, Reason: model.StatusRetired},
					{ID: "E03", Name: res.Summary.Left[1].Name, Reason: model.StatusQuit},
					{ID: "E05", Name: res.Summary.Left[2].Name, Reason: model.StatusRetired},
				})
				So(res.Summary.OpenPositions, ShouldResemble, []string{"CEO", "VP, Department B", "VP, Department D"})
				So(res.Summary.Score, ShouldNotBeNil)
				So(res.UnusedTrainingSlots, ShouldEqual, 3)
				So(res.Finished, ShouldBeFalse)
			})

			Convey("Then the next round starts clean", func() {
				snap, _ := svc.Snapshot()
				So(snap.Round, ShouldEqual, 2)
				So(snap.NineBox, ShouldBeEmpty)
				So(snap.Trainings, ShouldBeEmpty)

				applicants, _ := svc.Applicants()
				ids := []string{}
				for _, a := range applicants {
					ids = append(ids, a.ID)
				}
				So(ids, ShouldResemble, []string{"A01", "A03", "A05"})
			})

			Convey("Then departed employees cannot be trained", func() {
				err := svc.AssignTraining(ctx, "E01", "performance")
				So(errors.Is(err, vacancy.ErrEmployeeNotActive), ShouldBeTrue)
			})

			Convey("And an applicant is hired", func() {
				hired, err := svc.Hire(ctx, "A01")
				So(err, ShouldBeNil)

				Convey("Then the title is filled", func() {
					So(hired.ID, ShouldEqual, "ID-1")
					So(hired.Position, ShouldEqual, "VP, Department B")
					So(hired.Status, ShouldEqual, model.StatusActive)

					open, _ := svc.OpenPositions()
					So(open, ShouldResemble, []string{"CEO", "VP, Department D"})
					titles, _ := svc.HigherOpenTitles("E07")
					So(titles, ShouldResemble, []string{"CEO", "VP, Department D"})
				})

				Convey("Then hiring the same applicant again fails", func() {
					_, err := svc.Hire(ctx, "A01")
					So(errors.Is(err, vacancy.ErrApplicantNotFound), ShouldBeTrue)
				})

				Convey("And an employee is promoted", func() {
					So(svc.Promote(ctx, "E07", "VP, Department D"), ShouldBeNil)

					Convey("Then the old title opens and applicants follow", func() {
						open, _ := svc.OpenPositions()
						So(open, ShouldResemble, []string{"CEO", "Director, Division A2"})

						applicants, _ := svc.Applicants()
						So(len(applicants), ShouldEqual, 1)
						So(applicants[0].ID, ShouldEqual, "A05")

						snap, _ := svc.Snapshot()
						latest, _ := snap.History.Latest()
						So(len(latest.Hired), ShouldEqual, 1)
						So(latest.Promoted[0].To, ShouldEqual, "VP, Department D")
					})

					Convey("And the last round is committed", func() {
						placeAll(ctx, svc)
						res, err := svc.Commit(ctx)
						So(err, ShouldBeNil)

						Convey("Then the simulation is finished", func() {
							So(res.Summary.Round, ShouldEqual, 2)
							So(res.Finished, ShouldBeTrue)
							done, _ := svc.Finished()
							So(done, ShouldBeTrue)

							_, err := svc.Commit(ctx)
							So(errors.Is(err, service.ErrSimulationFinished), ShouldBeTrue)
						})

						Convey("Then the final summary covers both rounds", func() {
							sum, err := svc.FinalSummary()
							So(err, ShouldBeNil)
							So(sum.Finished, ShouldBeTrue)
							So(sum.Round, ShouldEqual, 3)
							So(len(sum.Trend), ShouldEqual, 2)
							So(sum.Trend[1].Score, ShouldEqual, res.Summary.ScoreValue())
							So(sum.Departures[string(model.StatusRetired)], ShouldBeGreaterThanOrEqualTo, 2)
							So(sum.Departures[string(model.StatusQuit)], ShouldEqual, 1)
							So(sum.Hires, ShouldEqual, 1)
							So(sum.Promotions, ShouldEqual, 1)
						})

						Convey("And the simulation is reset", func() {
							So(svc.Reset(ctx, model.ModeAdvanced), ShouldBeNil)

							Convey("Then play starts over", func() {
								snap, _ := svc.Snapshot()
								So(snap.Round, ShouldEqual, 1)
								So(snap.Mode, ShouldEqual, model.ModeAdvanced)
								So(snap.History.Len(), ShouldEqual, 0)
								phase, _ := svc.Phase()
								So(phase, ShouldEqual, round.InProgress)
							})
						})
					})
				})
			})
		})
	})
}
