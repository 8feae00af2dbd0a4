package settings

import (
	"os"
	"time"

	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/session"
	"github.com/pelletier/go-toml"
)

// Settings contains everything the locomotion server and client can be configured with.
type Settings struct {
	Server struct {
		// Address is the address the server listens on, or the client dials.
		Address string
		// TickRate is the amount of ticks simulated per second.
		TickRate int
		MaxPeers int
		// SentryDSN enables crash reporting when set.
		SentryDSN string
		// StatsAddress serves runtime statistics when set and enabled through the environment.
		StatsAddress string
		// RateLimitIntervalSeconds is the period the inbound message counters reset after.
		RateLimitIntervalSeconds int
		MaxNormalMessages        int
		MaxSpammedMessages       int
	}
	Network struct {
		ResendIntervalMillis int
		MaxPendingBatches    int
		LatencySamples       int
		PingIntervalMillis   int
	}
	Character game.CharacterSettings
}

// DefaultSettings returns the settings used when no settings file exists yet.
func DefaultSettings() Settings {
	s := Settings{Character: game.DefaultCharacterSettings()}
	s.Server.Address = ":19133"
	s.Server.TickRate = 60
	s.Server.MaxPeers = 32
	s.Server.StatsAddress = "localhost:18066"
	s.Server.RateLimitIntervalSeconds = 8
	s.Server.MaxNormalMessages = 80 * s.Server.RateLimitIntervalSeconds
	s.Server.MaxSpammedMessages = 1000 * s.Server.RateLimitIntervalSeconds

	s.Network.ResendIntervalMillis = 100
	s.Network.MaxPendingBatches = 200
	s.Network.LatencySamples = 10
	s.Network.PingIntervalMillis = 1000
	return s
}

// TickInterval returns the time between two ticks.
func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.Server.TickRate)
}

// Session returns the session configuration the settings describe.
func (s Settings) Session() session.Config {
	return session.Config{
		ResendInterval:    time.Duration(s.Network.ResendIntervalMillis) * time.Millisecond,
		MaxPendingBatches: s.Network.MaxPendingBatches,
		LatencySamples:    s.Network.LatencySamples,
		PingInterval:      time.Duration(s.Network.PingIntervalMillis) * time.Millisecond,
		RateLimit: session.RateLimit{
			Interval:   time.Duration(s.Server.RateLimitIntervalSeconds) * time.Second,
			MaxNormal:  s.Server.MaxNormalMessages,
			MaxSpammed: s.Server.MaxSpammedMessages,
		},
	}
}

// Validate returns an error describing the first invalid setting.
func (s Settings) Validate() error {
	switch {
	case s.Server.TickRate <= 0:
		return oerror.New("server: tick rate must be positive, got %d", s.Server.TickRate)
	case s.Server.MaxPeers <= 0:
		return oerror.New("server: max peers must be positive, got %d", s.Server.MaxPeers)
	case s.Network.ResendIntervalMillis <= 0:
		return oerror.New("network: resend interval must be positive, got %dms", s.Network.ResendIntervalMillis)
	case s.Network.LatencySamples <= 0:
		return oerror.New("network: latency samples must be positive, got %d", s.Network.LatencySamples)
	}
	if err := s.Character.Validate(); err != nil {
		return oerror.New("character: %w", err)
	}
	return nil
}

// Load reads the settings from the file at path, or creates the file with the default settings
// if it does not exist yet.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := toml.Marshal(s)
		if err != nil {
			return s, oerror.New("encode default settings: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return s, oerror.New("create default settings: %w", err)
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, oerror.New("read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, oerror.New("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, oerror.New("invalid settings in %s: %w", path, err)
	}
	return s, nil
}
