package main

import (
	"fmt"

	"github.com/MKhiriev/go-bootstrap/internal/config"
	"github.com/MKhiriev/go-bootstrap/internal/diagnostics"
	"github.com/MKhiriev/go-bootstrap/internal/env"
	"github.com/MKhiriev/go-bootstrap/internal/logger"
	"github.com/google/uuid"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	dotEnvErr := env.LoadDotEnv()

	cfg, cfgErr := config.GetLoggingConfig()
	if cfgErr != nil {
		cfg = config.DefaultLogging()
	}

	logging, res := logger.Init(*cfg)
	defer logging.Close()

	log := logging.Named("greeter").WithStr("run_id", uuid.NewString())
	if dotEnvErr != nil {
		log.Warn().Err(dotEnvErr).Msg("error loading .env file")
	}
	if cfgErr != nil {
		log.Error().Err(cfgErr).Msg("error getting logging configs, using defaults")
	}
	log.Debug().Stringer("mode", res.Mode).Str("log_file", res.LogFilePath).Msg("logging initialised")

	run(log)
}

// run greets under the timer and memory tracer scope guards.
func run(log *logger.Logger) {
	timer := diagnostics.StartTimer(log, "main")
	defer timer.Stop()

	tracer, err := diagnostics.StartTrace(log, "main")
	if err != nil {
		log.Warn().Err(err).Msg("memory tracing skipped")
	} else {
		defer tracer.Stop()
	}

	greet(log)
}

func greet(log *logger.Logger) {
	log.Info().Msg("Hello from greeter")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
