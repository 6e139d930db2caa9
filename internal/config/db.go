package config

// Supported values for DB.GormEngine.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // sqlite, mysql or postgres
	Extras     string // driver specific DSN parameters
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Path       string // sqlite database file, ":memory:" for a throw-away database
}
