package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sim"),
				WithMetricPrefix("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordHire()

			Convey("Then metric names carry the namespace and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_sim_unit_hires_total"], ShouldBeTrue)
				So(names["test_sim_unit_score"], ShouldBeTrue)
			})
		})

		Convey("When the same registry is used twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When a round is committed", func() {
			manager.RecordRoundCommitted(3.5)
			manager.RecordDeparture("retired")
			manager.RecordDeparture("retired")
			manager.RecordDeparture("quit")

			Convey("Then counters reflect it", func() {
				So(testutil.ToFloat64(manager.roundsCommitted), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.departures.WithLabelValues("retired")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.departures.WithLabelValues("quit")), ShouldEqual, 1)
				So(testutil.CollectAndCount(manager.commitLatency), ShouldEqual, 1)
			})
		})

		Convey("When organization gauges are updated", func() {
			manager.UpdateOrganization(3, 4.125, 30, 2, 1)

			Convey("Then the gauges hold the latest values", func() {
				So(testutil.ToFloat64(manager.round), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.score), ShouldEqual, 4.125)
				So(testutil.ToFloat64(manager.activeCount), ShouldEqual, 30)
				So(testutil.ToFloat64(manager.openPositions), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.applicantCount), ShouldEqual, 1)
			})
		})

		Convey("When snapshots are saved and loaded", func() {
			manager.RecordSnapshotSave(1.2, nil)
			manager.RecordSnapshotSave(0, errors.New("disk full"))
			manager.RecordSnapshotLoad(LoadMiss)
			manager.UpdatePersistQueue(2, 16)
			manager.RecordPersistDrop()

			Convey("Then persistence metrics are split by outcome", func() {
				So(testutil.ToFloat64(manager.snapshotSaves), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.snapshotSaveErrors), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.snapshotLoads.WithLabelValues(LoadMiss)), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.persistQueueLength), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.persistQueueCap), ShouldEqual, 16)
				So(testutil.ToFloat64(manager.persistDrops), ShouldEqual, 1)
			})
		})

		Convey("When operator actions are recorded", func() {
			manager.RecordTraining("performance")
			manager.RecordPromotion()
			manager.RecordCommitRejected("ninebox_incomplete")

			Convey("Then each is counted", func() {
				So(testutil.ToFloat64(manager.trainingsAssigned.WithLabelValues("performance")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.promotions), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.commitRejections.WithLabelValues("ninebox_incomplete")), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording", func() {
			manager.RecordHire()
			manager.RecordRoundCommitted(1)
			manager.UpdateOrganization(2, 3, 4, 5, 6)

			Convey("Then nothing changes", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(manager.hires), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.roundsCommitted), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.score), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When helpers are called", func() {
			before := testutil.ToFloat64(globalManager.hires)

			So(func() {
				RecordRoundCommitted(1)
				RecordCommitRejected("finished")
				RecordDeparture("fired")
				RecordHire()
				RecordPromotion()
				RecordTraining("potential")
				UpdateOrganization(1, 3.5, 32, 0, 0)
				RecordSnapshotSave(0.5, nil)
				RecordSnapshotLoad(LoadHit)
				UpdatePersistQueue(0, 16)
				RecordPersistDrop()
			}, ShouldNotPanic)

			Convey("Then they land on the custom registry", func() {
				So(testutil.ToFloat64(globalManager.hires), ShouldEqual, before+1)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
