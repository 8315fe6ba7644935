package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/sportscast/internal/config"
	"github.com/okian/sportscast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults load", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.ScopeType, ShouldEqual, "global")
			So(cfg.EventFilter, ShouldEqual, "all")
			So(cfg.PollIntervalSeconds, ShouldEqual, 10)
			So(cfg.AutoProtect, ShouldBeTrue)
			So(cfg.CommentaryEnabled, ShouldBeFalse)
			So(cfg.CommentaryModel, ShouldEqual, "gpt-4o-mini")
			So(cfg.DefaultKindWeight, ShouldEqual, 1)
		})

		Convey("Then the assembled scope is valid", func() {
			So(cfg.Scope(), ShouldResemble, model.Scope{Type: model.ScopeGlobal})
			So(cfg.Scope().Valid(), ShouldBeTrue)
		})
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPORTSCAST_SCOPE_TYPE", "repo")
	t.Setenv("SPORTSCAST_SCOPE_VALUE", "octocat/hello")
	t.Setenv("SPORTSCAST_POLL_INTERVAL_SECONDS", "3")
	t.Setenv("SPORTSCAST_LOG_LEVEL", "debug")
	t.Setenv("SPORTSCAST_GITHUB_TOKEN", "ghp_example")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then they take precedence over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.ScopeType, ShouldEqual, "repo")
			So(cfg.ScopeValue, ShouldEqual, "octocat/hello")
			So(cfg.PollIntervalSeconds, ShouldEqual, 3)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.GithubToken, ShouldEqual, "ghp_example")
		})
	})
}

func TestFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: warn\nscope_type: org\nscope_value: golang\npoll_interval_seconds: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPORTSCAST_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the file layers over the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "warn")
			So(cfg.ScopeType, ShouldEqual, "org")
			So(cfg.ScopeValue, ShouldEqual, "golang")
			So(cfg.PollIntervalSeconds, ShouldEqual, 7)
		})
	})
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPORTSCAST_CONFIG", path)
	t.Setenv("SPORTSCAST_LOG_LEVEL", "error")

	Convey("Given both a file and an environment override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the environment wins", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "error")
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given a non-positive poll interval", t, func() {
		t.Setenv("SPORTSCAST_POLL_INTERVAL_SECONDS", "0")
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the invalid sentinel", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a repo scope without owner/name form", t, func() {
		t.Setenv("SPORTSCAST_POLL_INTERVAL_SECONDS", "10")
		t.Setenv("SPORTSCAST_SCOPE_TYPE", "repo")
		t.Setenv("SPORTSCAST_SCOPE_VALUE", "no-slash")
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the invalid sentinel", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a missing config file", t, func() {
		t.Setenv("SPORTSCAST_SCOPE_TYPE", "global")
		t.Setenv("SPORTSCAST_SCOPE_VALUE", "")
		t.Setenv("SPORTSCAST_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the load sentinel", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}
