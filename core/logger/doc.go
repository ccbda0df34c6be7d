// Package logger builds the application's zap logger.
//
// Two encodings are supported: json for production and console for
// development (selected by config, with debug level switching to zap's dev
// config). An optional lumberjack-backed rotating file sink can be attached;
// the file leg is always JSON regardless of the console setting.
//
// # Request Correlation
//
// WithRayID pulls the tracing id the rayid middleware stored in the Fiber
// context and attaches it as a field, so every log line of a request shares
// the same ray_id.
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
