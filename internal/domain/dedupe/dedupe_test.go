package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	dedupe "github.com/okian/sportscast/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a fresh identifier", func() {
			seen := d.SeenAndRecord(ctx, "event-1")

			Convey("Then it reports unseen and records it", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports seen", func() {
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording many identifiers", func() {
			for i := 0; i < 500; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i))
			}

			Convey("Then the set grows monotonically with no eviction", func() {
				So(d.Size(), ShouldEqual, 500)
				So(d.SeenAndRecord(ctx, "event-0"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "event-499"), ShouldBeTrue)
			})
		})

		Convey("When resetting", func() {
			d.SeenAndRecord(ctx, "event-1")
			d.Reset(ctx)

			Convey("Then previously seen identifiers are admitted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)
			})
		})
	})
}
