package logger

// Console configures output to stdout and stderr.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable instead of JSON
}

// Rolling configures one lumberjack file.
type Rolling struct {
	Name       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile configures file output below Path, one file per severity band plus the access log.
type LogFile struct {
	Enabled bool
	Path    string

	Access Rolling
	Trace  Rolling
	Info   Rolling // debug and info
	Warn   Rolling
	Error  Rolling // error, fatal and panic
}

// Log is the logging section of the configuration.
type Log struct {
	LogLevel string // trace, debug, info, warn, error
	LogEnv   string

	// EnableAccessLogToConsole writes the http access log to stdout.
	// Console.Enabled must be set as well.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // skip /health in the access log

	AppName     string
	ServiceName string

	Console Console
	File    LogFile
}
