package middleware

import (
	"os"

	"github.com/grafana/pyroscope-go"

	"trading-journal/config"
)

var profiler *pyroscope.Profiler

// InitProfiling starts continuous profiling against the configured
// Pyroscope endpoint.
func InitProfiling(cfg config.Config) error {
	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.Service.Name,
		ServerAddress:   cfg.Profiling.Endpoint,
		Tags: map[string]string{
			"env":     cfg.Service.Env,
			"version": cfg.Service.Version,
		},
	})
	if err != nil {
		return err
	}
	profiler = p
	return nil
}

// StopProfiling flushes and stops the profiler, if one was started.
func StopProfiling() {
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			os.Stderr.WriteString("pyroscope stop: " + err.Error() + "\n")
		}
		profiler = nil
	}
}
