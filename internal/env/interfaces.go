package env

//go:generate mockgen -source=interfaces.go -destination=../mock/env_lookuper_mock.go -package=mock

// Lookuper is a source of environment variables.
type Lookuper interface {
	// LookupEnv returns the value of key and whether it is present.
	LookupEnv(key string) (string, bool)
}
