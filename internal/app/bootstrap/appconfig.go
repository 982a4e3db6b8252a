// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for studyBot.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration; framework-level settings (env name, logging) live in
// WAFFLE's CoreConfig.
//
// Backend selection: a non-empty MongoURI selects the Mongo-backed
// ledger; an empty one selects the file-backed ledger at DataFile.
type AppConfig struct {
	// Discord connection
	DiscordToken string // bot token (required)

	// MongoDB ledger backend (optional)
	MongoURI      string // MongoDB connection string; empty selects the file backend
	MongoDatabase string // Database name within MongoDB

	// File ledger backend
	DataFile string // path of the JSON ledger file (e.g. ./data/ledger.json)

	// Day boundary and trigger times, all local to TimeZone
	TimeZone    string // IANA zone the communities live in (e.g. Asia/Seoul)
	Cutoff      string // daily cutoff "HH:MM"; the day closes and settles here
	RemindLong  string // first reminder "HH:MM"
	RemindMid   string // second reminder "HH:MM"
	RemindShort string // final reminder "HH:MM"

	// Ops surface
	HealthAddr string // listen address for the health endpoint (e.g. :8080)
}
