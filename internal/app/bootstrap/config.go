// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/wonyeong0810/studyBot/internal/app/system/dayclock"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for studyBot.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: discord_token, mongo_uri, etc.
//   - Environment variables: STUDYBOT_DISCORD_TOKEN, STUDYBOT_MONGO_URI, etc.
//   - Command-line flags: --discord_token, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "discord_token", Default: "", Desc: "Discord bot token (required)"},

	// Ledger backends. A non-empty mongo_uri selects MongoDB; otherwise
	// the ledger lives in the JSON file at data_file.
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (empty selects the file backend)"},
	{Name: "mongo_database", Default: "study_bot", Desc: "MongoDB database name"},
	{Name: "data_file", Default: "./data/ledger.json", Desc: "Path of the JSON ledger file"},

	// Day boundary and trigger times
	{Name: "time_zone", Default: "Asia/Seoul", Desc: "IANA time zone for the daily cutoff"},
	{Name: "cutoff", Default: "05:00", Desc: "Daily cutoff HH:MM; the day settles here"},
	{Name: "remind_long", Default: "04:00", Desc: "First reminder HH:MM"},
	{Name: "remind_mid", Default: "04:30", Desc: "Second reminder HH:MM"},
	{Name: "remind_short", Default: "04:50", Desc: "Final reminder HH:MM"},

	// Ops surface
	{Name: "health_addr", Default: ":8080", Desc: "Listen address for the health endpoint"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STUDYBOT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYBOT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DiscordToken: appValues.String("discord_token"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		DataFile:      appValues.String("data_file"),

		TimeZone:    appValues.String("time_zone"),
		Cutoff:      appValues.String("cutoff"),
		RemindLong:  appValues.String("remind_long"),
		RemindMid:   appValues.String("remind_mid"),
		RemindShort: appValues.String("remind_short"),

		HealthAddr: appValues.String("health_addr"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// studyBot validates the Discord token, the MongoDB URI format (only
// when the Mongo backend is selected), the time zone, and every trigger
// time, so misconfiguration surfaces before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.DiscordToken == "" {
		return fmt.Errorf("discord_token is required")
	}

	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required when mongo_uri is set")
		}
	} else if appCfg.DataFile == "" {
		return fmt.Errorf("data_file is required when mongo_uri is empty")
	}

	if _, err := time.LoadLocation(appCfg.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone %q: %w", appCfg.TimeZone, err)
	}

	if _, err := appCfg.schedule(); err != nil {
		return err
	}

	return nil
}

// triggerSchedule is the parsed form of the HH:MM config values.
type triggerSchedule struct {
	Cutoff      dayclock.TimeOfDay
	RemindLong  dayclock.TimeOfDay
	RemindMid   dayclock.TimeOfDay
	RemindShort dayclock.TimeOfDay
}

// schedule parses the configured trigger times.
func (c AppConfig) schedule() (triggerSchedule, error) {
	var (
		sched triggerSchedule
		err   error
	)
	for _, f := range []struct {
		name  string
		raw   string
		field *dayclock.TimeOfDay
	}{
		{"cutoff", c.Cutoff, &sched.Cutoff},
		{"remind_long", c.RemindLong, &sched.RemindLong},
		{"remind_mid", c.RemindMid, &sched.RemindMid},
		{"remind_short", c.RemindShort, &sched.RemindShort},
	} {
		if *f.field, err = dayclock.ParseTimeOfDay(f.raw); err != nil {
			return triggerSchedule{}, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
	}
	return sched, nil
}
