package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/pokelookup/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PokedexStart, convey.ShouldEqual, 1)
			convey.So(cfg.PokedexEnd, convey.ShouldEqual, 386)
			convey.So(cfg.FetchWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.TargetVersion, convey.ShouldEqual, "generation-v")
			convey.So(cfg.MinSimilarity, convey.ShouldEqual, 0.0)
			convey.So(cfg.FractionStyle, convey.ShouldEqual, "fraction")
			convey.So(cfg.HTTPTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single bad field", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = "" },
			"log format":        func(c *config.Config) { c.LogFormat = "xml" },
			"zero start":        func(c *config.Config) { c.PokedexStart = 0 },
			"inverted range":    func(c *config.Config) { c.PokedexStart, c.PokedexEnd = 10, 5 },
			"no workers":        func(c *config.Config) { c.FetchWorkers = 0 },
			"negative retries":  func(c *config.Config) { c.FetchRetries = -1 },
			"zero timeout":      func(c *config.Config) { c.HTTPTimeoutMS = 0 },
			"similarity > 1":    func(c *config.Config) { c.MinSimilarity = 1.5 },
			"similarity < 0":    func(c *config.Config) { c.MinSimilarity = -0.1 },
			"no target":         func(c *config.Config) { c.TargetVersion = "" },
			"unknown style":     func(c *config.Config) { c.FractionStyle = "roman" },
			"relative base url": func(c *config.Config) { c.APIBaseURL = "pokeapi/v2" },
		}

		convey.Convey("Then each is rejected with ErrInvalidConfig", func() {
			for name, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				if err == nil {
					t.Logf("case %q passed validation", name)
				}
			}
		})
	})
}
