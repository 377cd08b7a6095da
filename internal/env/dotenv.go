package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotEnvFile is loaded when LoadDotEnv is called without paths.
const DefaultDotEnvFile = ".env"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set are not overridden. Files that
// do not exist are skipped; every other failure is returned.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnvFile}
	}

	var errs []error
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			errs = append(errs, fmt.Errorf("error loading env file %s: %w", path, err))
		}
	}

	return errors.Join(errs...)
}
