package tracker_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/sportscast/internal/domain/model"
	tracker "github.com/okian/sportscast/internal/domain/tracker"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingAudio struct {
	kinds []model.Kind
	err   error
}

func (r *recordingAudio) Play(_ context.Context, kind model.Kind) error {
	r.kinds = append(r.kinds, kind)
	return r.err
}

func rawItem(id, repo, typ, actor string, at time.Time) model.RawItem {
	return model.RawItem{ID: id, Repo: repo, Type: typ, Actor: actor, CreatedAt: at}
}

func TestIngest(t *testing.T) {
	Convey("Given a fresh tracker", t, func() {
		base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		tr := tracker.New(tracker.WithClock(func() time.Time { return base }))
		ctx := context.Background()

		Convey("When ingesting one watch event and then its duplicate", func() {
			first := tr.Ingest(ctx, []model.RawItem{rawItem("1", "a/b", "WatchEvent", "x", base)})
			second := tr.Ingest(ctx, []model.RawItem{rawItem("1", "a/b", "WatchEvent", "x", base)})

			Convey("Then exactly one normalized event exists", func() {
				So(first, ShouldHaveLength, 1)
				So(second, ShouldHaveLength, 0)
				So(tr.Events(), ShouldHaveLength, 1)
				So(first[0].Kind, ShouldEqual, model.KindStar)
				So(first[0].Fresh, ShouldBeTrue)
			})

			Convey("Then the aggregate counted it once", func() {
				stats := tr.StatsFor("a/b")
				So(stats, ShouldNotBeNil)
				So(stats.TotalEvents, ShouldEqual, 1)
				So(stats.KindCounts[model.KindStar], ShouldEqual, 1)
			})
		})

		Convey("When re-ingesting a batch of only known identifiers", func() {
			batch := []model.RawItem{
				rawItem("1", "a/b", "WatchEvent", "x", base),
				rawItem("2", "a/b", "ForkEvent", "y", base.Add(time.Second)),
			}
			tr.Ingest(ctx, batch)
			scoreBefore := tr.StatsFor("a/b").Score
			again := tr.Ingest(ctx, batch)

			Convey("Then nothing changes", func() {
				So(again, ShouldHaveLength, 0)
				So(tr.StatsFor("a/b").TotalEvents, ShouldEqual, 2)
				So(tr.StatsFor("a/b").Score, ShouldEqual, scoreBefore)
				So(tr.Events(), ShouldHaveLength, 2)
			})
		})

		Convey("When items are missing required fields", func() {
			admitted := tr.Ingest(ctx, []model.RawItem{
				{Repo: "a/b", Type: "WatchEvent", CreatedAt: base},
				{ID: "3", Type: "WatchEvent", CreatedAt: base},
				{ID: "4", Repo: "a/b", CreatedAt: base},
				{ID: "5", Repo: "a/b", Type: "WatchEvent"},
			})

			Convey("Then they are discarded and counted nowhere", func() {
				So(admitted, ShouldHaveLength, 0)
				So(tr.Events(), ShouldHaveLength, 0)
				So(tr.StatsFor("a/b"), ShouldBeNil)
			})
		})

		Convey("When an item carries no actor", func() {
			admitted := tr.Ingest(ctx, []model.RawItem{rawItem("6", "a/b", "PushEvent", "", base)})

			Convey("Then the sentinel actor is recorded", func() {
				So(admitted[0].Actor, ShouldEqual, model.UnknownActor)
			})
		})

		Convey("When ingesting 1000 events one at a time", func() {
			for i := 0; i < 1000; i++ {
				tr.Ingest(ctx, []model.RawItem{
					rawItem(fmt.Sprintf("ev-%d", i), "a/b", "PushEvent", "x", base.Add(time.Duration(i)*time.Second)),
				})
			}
			events := tr.Events()

			Convey("Then the log holds the 50 most recent, newest first", func() {
				So(events, ShouldHaveLength, 50)
				So(events[0].ID, ShouldEqual, "ev-999")
				So(events[49].ID, ShouldEqual, "ev-950")
				for i := 1; i < len(events); i++ {
					So(events[i].CreatedAt.After(events[i-1].CreatedAt), ShouldBeFalse)
				}
			})

			Convey("Then the aggregate still counts everything", func() {
				So(tr.StatsFor("a/b").TotalEvents, ShouldEqual, 1000)
				So(tr.SeenIDs(), ShouldEqual, 1000)
			})
		})

		Convey("When a second cycle ingests new events", func() {
			tr.Ingest(ctx, []model.RawItem{rawItem("7", "a/b", "WatchEvent", "x", base)})
			tr.Ingest(ctx, []model.RawItem{rawItem("8", "a/b", "ForkEvent", "y", base.Add(time.Second))})
			events := tr.Events()

			Convey("Then only this cycle's events are fresh", func() {
				So(events[0].ID, ShouldEqual, "8")
				So(events[0].Fresh, ShouldBeTrue)
				So(events[1].ID, ShouldEqual, "7")
				So(events[1].Fresh, ShouldBeFalse)
			})
		})
	})
}

func TestAggregates(t *testing.T) {
	Convey("Given a tracker with a fixed clock", t, func() {
		base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		tr := tracker.New(tracker.WithClock(func() time.Time { return base }))
		ctx := context.Background()

		Convey("When several actors touch one repository", func() {
			tr.Ingest(ctx, []model.RawItem{
				rawItem("1", "a/b", "WatchEvent", "x", base.Add(-2*time.Minute)),
				rawItem("2", "a/b", "WatchEvent", "y", base.Add(-time.Minute)),
				rawItem("3", "a/b", "ReleaseEvent", "x", base),
			})
			stats := tr.StatsFor("a/b")

			Convey("Then counts, timestamps and actors line up", func() {
				So(stats.TotalEvents, ShouldEqual, 3)
				So(stats.KindCounts[model.KindStar], ShouldEqual, 2)
				So(stats.KindCounts[model.KindRelease], ShouldEqual, 1)
				So(stats.DistinctActors(), ShouldEqual, 2)
				So(stats.FirstSeen.Equal(base.Add(-2*time.Minute)), ShouldBeTrue)
				So(stats.LastActivity.Equal(base), ShouldBeTrue)
			})

			Convey("Then the total equals the sum of kind counts", func() {
				sum := 0
				for _, n := range stats.KindCounts {
					sum += n
				}
				So(stats.TotalEvents, ShouldEqual, sum)
			})

			Convey("Then the score reflects the hot recency boost", func() {
				// round((2*1 + 10) * 1.5) + 2*2 = 22
				So(stats.Score, ShouldEqual, 22)
			})
		})

		Convey("When more than five events hit one repository", func() {
			for i := 0; i < 8; i++ {
				tr.Ingest(ctx, []model.RawItem{
					rawItem(fmt.Sprintf("r-%d", i), "a/b", "PushEvent", "x", base.Add(time.Duration(i)*time.Second)),
				})
			}

			Convey("Then the recent ring keeps only the newest five", func() {
				stats := tr.StatsFor("a/b")
				So(stats.Recent, ShouldHaveLength, 5)
				So(stats.Recent[0].At.Equal(base.Add(7*time.Second)), ShouldBeTrue)
				So(stats.Recent[4].At.Equal(base.Add(3*time.Second)), ShouldBeTrue)
			})
		})

		Convey("When events span two repositories", func() {
			tr.Ingest(ctx, []model.RawItem{
				rawItem("1", "a/b", "ReleaseEvent", "x", base),
				rawItem("2", "c/d", "WatchEvent", "y", base),
			})

			Convey("Then the leaderboard orders by score", func() {
				board := tr.Leaderboard()
				So(board, ShouldHaveLength, 2)
				So(board[0].Repo, ShouldEqual, "a/b")
				So(board[0].Rank, ShouldEqual, 1)
				So(board[1].Repo, ShouldEqual, "c/d")
			})

			Convey("Then session kind counts sum across repositories", func() {
				counts := tr.KindCounts()
				So(counts[model.KindRelease], ShouldEqual, 1)
				So(counts[model.KindStar], ShouldEqual, 1)
				So(tr.TrackedRepos(), ShouldEqual, 2)
			})
		})
	})
}

func TestAudioSink(t *testing.T) {
	Convey("Given a tracker with an audio sink", t, func() {
		base := time.Now()
		audio := &recordingAudio{}
		tr := tracker.New(tracker.WithAudioSink(audio))
		ctx := context.Background()

		Convey("When events are admitted", func() {
			tr.Ingest(ctx, []model.RawItem{
				rawItem("1", "a/b", "WatchEvent", "x", base),
				rawItem("1", "a/b", "WatchEvent", "x", base), // duplicate
				rawItem("2", "a/b", "ForkEvent", "y", base),
			})

			Convey("Then the sink fires once per admitted event", func() {
				So(audio.kinds, ShouldResemble, []model.Kind{model.KindStar, model.KindFork})
			})
		})

		Convey("When the sink fails", func() {
			audio.err = fmt.Errorf("device busy")
			admitted := tr.Ingest(ctx, []model.RawItem{rawItem("3", "a/b", "WatchEvent", "x", base)})

			Convey("Then ingestion is unaffected", func() {
				So(admitted, ShouldHaveLength, 1)
			})
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given a tracker with state", t, func() {
		base := time.Now()
		tr := tracker.New()
		ctx := context.Background()
		tr.Ingest(ctx, []model.RawItem{rawItem("1", "a/b", "WatchEvent", "x", base)})

		Convey("When resetting", func() {
			tr.Reset(ctx)

			Convey("Then log, aggregates and seen set are all gone", func() {
				So(tr.Events(), ShouldHaveLength, 0)
				So(tr.StatsFor("a/b"), ShouldBeNil)
				So(tr.SeenIDs(), ShouldEqual, 0)
			})

			Convey("And previously seen identifiers admit again", func() {
				admitted := tr.Ingest(ctx, []model.RawItem{rawItem("1", "a/b", "WatchEvent", "x", base)})
				So(admitted, ShouldHaveLength, 1)
			})
		})
	})
}
