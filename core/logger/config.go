package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding (json, console).
	Format string `mapstructure:"format" default:"json"`
	// File is an optional path for a rotating log file.
	// When empty, logs go to stderr only.
	File string `mapstructure:"file" default:""`
	// FileMaxSizeMB is the size in megabytes at which the log file is rotated.
	FileMaxSizeMB int `mapstructure:"file_max_size_mb" default:"50"`
	// FileMaxBackups is the number of rotated files to keep.
	FileMaxBackups int `mapstructure:"file_max_backups" default:"3"`
}
