package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/tasting/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "file")
				convey.So(cfg.MaxRankingsLimit, convey.ShouldEqual, 100)
				convey.So(cfg.VerdictRules, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TASTING_ADDR", ":8080")
			_ = os.Setenv("TASTING_STORAGE_DRIVER", "sqlite")
			_ = os.Setenv("TASTING_STORAGE_DSN", "file:tasting.db")
			_ = os.Setenv("TASTING_MAX_RANKINGS_LIMIT", "25")
			_ = os.Setenv("TASTING_METRICS_ENABLED", "false")
			_ = os.Setenv("TASTING_REMOTE_TIMEOUT_MS", "2500")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.StorageDSN, convey.ShouldEqual, "file:tasting.db")
				convey.So(cfg.MaxRankingsLimit, convey.ShouldEqual, 25)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.RemoteTimeoutMS, convey.ShouldEqual, 2500)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
storage_driver: memory
history_key: cave
verdict_fallback: "À oublier"
verdict_rules:
  - when: "score >= 15.0"
    label: "Très bien"
  - when: "score >= 8.0"
    label: "Passable"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TASTING_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.HistoryKey, convey.ShouldEqual, "cave")
				convey.So(cfg.SettingsKey, convey.ShouldEqual, "settings") // From defaults
				convey.So(cfg.VerdictFallback, convey.ShouldEqual, "À oublier")
				convey.So(cfg.VerdictRules, convey.ShouldHaveLength, 2)
				convey.So(cfg.VerdictRules[1].When, convey.ShouldEqual, "score >= 8.0")
				convey.So(cfg.VerdictRules[1].Label, convey.ShouldEqual, "Passable")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
storage_driver: memory
max_rankings_limit: 10
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TASTING_CONFIG", tmpFile)
			_ = os.Setenv("TASTING_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")          // Overridden by env
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "memory") // From file
				convey.So(cfg.MaxRankingsLimit, convey.ShouldEqual, 10)    // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TASTING_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("TASTING_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TASTING_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TASTING_MAX_RANKINGS_LIMIT", "plenty")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the verdict rules file is set through the environment", func() {
			rulesFile := createTempConfigFile("- when: \"score >= 19.5\"\n  label: Sublime\n")
			defer func() { _ = os.Remove(rulesFile) }()

			_ = os.Setenv("TASTING_VERDICT_RULES_FILE", rulesFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the rules are read from it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.VerdictRules, convey.ShouldHaveLength, 1)
				convey.So(cfg.VerdictRules[0].Label, convey.ShouldEqual, "Sublime")
			})
		})

		convey.Convey("When the verdict rules file holds a non-boolean rule", func() {
			rulesFile := createTempConfigFile("- when: \"score + 1.0\"\n  label: Oops\n")
			defer func() { _ = os.Remove(rulesFile) }()

			_ = os.Setenv("TASTING_VERDICT_RULES_FILE", rulesFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading fails validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TASTING_CONFIG",
		"TASTING_ADDR",
		"TASTING_STORAGE_DRIVER",
		"TASTING_STORAGE_DSN",
		"TASTING_MAX_RANKINGS_LIMIT",
		"TASTING_METRICS_ENABLED",
		"TASTING_REMOTE_TIMEOUT_MS",
		"TASTING_VERDICT_RULES_FILE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "tasting-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
