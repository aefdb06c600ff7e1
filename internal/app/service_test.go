package service

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a new service", t, func() {
		svc := New(
			WithWorkerCount(2),
			WithQueueSize(16),
			WithDedupeSize(100),
			WithShardCount(4),
		)
		ctx := context.Background()

		convey.Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			convey.Convey("Then it should start without error", func() {
				convey.So(err, convey.ShouldBeNil)
			})

			convey.Convey("And starting again should be a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
			})

			convey.Convey("And stats should report the configuration", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["workerCount"], convey.ShouldEqual, 2)
				convey.So(stats["queueSize"], convey.ShouldEqual, 16)
				convey.So(stats["shardCount"], convey.ShouldEqual, 4)
				convey.So(stats["totalDatasets"], convey.ShouldEqual, 0)
				convey.So(stats["totalRuns"], convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When stopping a service that never started", func() {
			convey.So(func() { New().Stop() }, convey.ShouldNotPanic)
		})
	})
}

func TestServiceDedupe(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := New(WithWorkerCount(1), WithShardCount(2))
		ctx := context.Background()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When recording a request id twice", func() {
			first := svc.SeenAndRecord(ctx, "req-1")
			second := svc.SeenAndRecord(ctx, "req-1")

			convey.Convey("Then only the second is a duplicate", func() {
				convey.So(first, convey.ShouldBeFalse)
				convey.So(second, convey.ShouldBeTrue)
				convey.So(svc.Size(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When unrecording a request id", func() {
			svc.SeenAndRecord(ctx, "req-2")
			svc.Unrecord(ctx, "req-2")

			convey.Convey("Then it can be recorded again", func() {
				convey.So(svc.SeenAndRecord(ctx, "req-2"), convey.ShouldBeFalse)
			})
		})
	})
}

func TestServiceDefaults(t *testing.T) {
	convey.Convey("Given a service with no options", t, func() {
		svc := New()

		convey.Convey("Then defaults should be sensible", func() {
			convey.So(svc.workerCount, convey.ShouldBeGreaterThan, 0)
			convey.So(svc.queueSize, convey.ShouldEqual, 10000)
			convey.So(svc.dedupeSize, convey.ShouldEqual, 50000)
			convey.So(svc.shardCount, convey.ShouldEqual, 8)
			convey.So(svc.maxDatasetRows, convey.ShouldEqual, 100000)
		})

		convey.Convey("And invalid option values should be ignored", func() {
			svc2 := New(WithWorkerCount(-1), WithQueueSize(0), WithShardCount(0))
			convey.So(svc2.workerCount, convey.ShouldEqual, svc.workerCount)
			convey.So(svc2.queueSize, convey.ShouldEqual, 10000)
			convey.So(svc2.shardCount, convey.ShouldEqual, 8)
		})
	})
}
