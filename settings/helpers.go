package settings

import (
	"net/url"
	"strconv"
	"time"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/ordishs/gocore"
)

func getString(key, defaultValue string) string {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func getInt(key string, defaultValue int) int {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	return value
}

// getUint32 returns defaultValue when the key is missing or does not fit in a uint32.
func getUint32(key string, defaultValue uint32) uint32 {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	u, err := safeconversion.IntToUint32(value)
	if err != nil {
		return defaultValue
	}

	return u
}

// getUint64 reads a negative value as zero.
func getUint64(key string, defaultValue uint64) uint64 {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	u, err := safeconversion.IntToUint64(value)
	if err != nil {
		return 0
	}

	return u
}

func getFloat64(key string, defaultValue float64) float64 {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return f
}

// getDuration accepts Go duration strings ("750ms", "2s"). A bare integer is read as milliseconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, found := gocore.Config().Get(key)
	if !found || value == "" {
		return defaultValue
	}

	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return d
}

func getURL(key, defaultValue string) *url.URL {
	value, _, _ := gocore.Config().GetURL(key, defaultValue)

	return value
}

func getBool(key string, defaultValue bool) bool {
	return gocore.Config().GetBool(key, defaultValue)
}
