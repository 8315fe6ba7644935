package settings_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	settings "github.com/okian/sportscast/internal/adapters/settings"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStore(t *testing.T) {
	Convey("Given a store on a fresh file path", t, func() {
		path := filepath.Join(t.TempDir(), "settings.json")
		ctx := context.Background()

		Convey("When the file does not exist yet", func() {
			s, err := settings.NewFileStore(path)

			Convey("Then opening succeeds with no values", func() {
				So(err, ShouldBeNil)
				_, ok := s.Get(ctx, settings.KeyScopeType)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When values are written and the store reopened", func() {
			s, _ := settings.NewFileStore(path)
			So(s.Set(ctx, settings.KeyScopeType, "repo"), ShouldBeNil)
			So(s.Set(ctx, settings.KeyScopeValue, "octocat/hello"), ShouldBeNil)

			reopened, err := settings.NewFileStore(path)

			Convey("Then the values survive the round trip", func() {
				So(err, ShouldBeNil)
				v, ok := reopened.Get(ctx, settings.KeyScopeType)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "repo")
				v, ok = reopened.Get(ctx, settings.KeyScopeValue)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "octocat/hello")
			})

			Convey("Then the file is private to the user", func() {
				info, statErr := os.Stat(path)
				So(statErr, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
			})
		})

		Convey("When a later write overwrites a key", func() {
			s, _ := settings.NewFileStore(path)
			So(s.Set(ctx, settings.KeyEventFilter, "star"), ShouldBeNil)
			So(s.Set(ctx, settings.KeyEventFilter, "all"), ShouldBeNil)

			Convey("Then only the newest value remains", func() {
				v, _ := s.Get(ctx, settings.KeyEventFilter)
				So(v, ShouldEqual, "all")
			})
		})

		Convey("When the file holds garbage", func() {
			So(os.WriteFile(path, []byte("not json"), 0o600), ShouldBeNil)
			_, err := settings.NewFileStore(path)

			Convey("Then opening fails with the load sentinel", func() {
				So(errors.Is(err, settings.ErrLoad), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store with an empty path", t, func() {
		s, err := settings.NewFileStore("")
		ctx := context.Background()

		Convey("Then it works memory only", func() {
			So(err, ShouldBeNil)
			So(s.Set(ctx, settings.KeyCommentaryModel, "gpt-4o-mini"), ShouldBeNil)
			v, ok := s.Get(ctx, settings.KeyCommentaryModel)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "gpt-4o-mini")
		})
	})
}
