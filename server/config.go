package server

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAddr    = "localhost:9090"
	DefaultTimeout = 30 * time.Second
)

type Conf struct {
	Addr         string
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
	TimeoutIdle  time.Duration
}

func durationOr(key string, def time.Duration) time.Duration {
	if !viper.IsSet(key) {
		return def
	}
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}

// ServerConfigs reads the server section from viper, falling back to the
// defaults for anything unset.
func ServerConfigs() *Conf {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = DefaultAddr
	}
	return &Conf{
		Addr:         addr,
		TimeoutRead:  durationOr("server.timeout_read", DefaultTimeout),
		TimeoutWrite: durationOr("server.timeout_write", DefaultTimeout),
		TimeoutIdle:  durationOr("server.timeout_idle", DefaultTimeout),
	}
}
