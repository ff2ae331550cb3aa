package envutil

import (
	"os"
	"strconv"

	"github.com/kiteco/streamal/errors"
)

// GetenvDefault gets the value of an environment variable, or returns the
// specified default value if that variable is not set.
func GetenvDefault(name, defaultValue string) string {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultValue
	}
	return val
}

// GetenvDefaultInt gets an environment variable as an int, or else returns the default
func GetenvDefaultInt(name string, defaultVal int) (int, error) {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal, nil
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.Configurationf("environment variable %s should be an integer: %v", name, err)
	}
	return intVal, nil
}

// GetenvDefaultFloat gets an environment variable as a float64, or else returns the default
func GetenvDefaultFloat(name string, defaultVal float64) (float64, error) {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, errors.Configurationf("environment variable %s should be a number: %v", name, err)
	}
	return f, nil
}
