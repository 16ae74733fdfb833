// Package config loads and validates the scheduler's JSON configuration
// file, decoding it directly into typed structs and returning typed
// errors instead of panicking.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
	"github.com/biandopa/cpusim/internal/simerr"
)

// ProcessDetails is the wire shape of one workload process, as read from
// the configuration file.
type ProcessDetails struct {
	PID         uint16   `json:"pid"`
	Priority    uint8    `json:"priority"`
	StartTime   uint64   `json:"start_time"`
	NumBursts   int      `json:"num_bursts"`
	BurstTimes  []uint64 `json:"burst_times"`
}

// SchedulerConfig is the wire shape of the whole configuration file.
type SchedulerConfig struct {
	Cores         uint8            `json:"cores"`
	Algorithm     string           `json:"algorithm"`
	ContextSwitch uint64           `json:"context_switch"`
	TimeSlice     uint64           `json:"time_slice"`
	LogLevel      string           `json:"log_level"`
	Processes     []ProcessDetails `json:"processes"`

	// RunID identifies this run in the startup log line. It is not attached
	// to later log lines or to snapshots.
	RunID string `json:"-"`
}

// Load reads path, decodes it into a SchedulerConfig, and validates it.
// It returns simerr.ErrConfigInvalid-wrapped errors for any malformed or
// semantically invalid configuration, never a panic.
func Load(path string) (*SchedulerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.ConfigInvalid("cannot open %q: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	var cfg SchedulerConfig
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, simerr.ConfigInvalid("cannot parse %q: %v", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.RunID = uuid.NewString()
	return &cfg, nil
}

func (c *SchedulerConfig) validate() error {
	if c.Cores < 1 {
		return simerr.ConfigInvalid("cores must be >= 1, got %d", c.Cores)
	}
	if !policy.Algorithm(c.Algorithm).Valid() {
		return simerr.ConfigInvalid("unknown algorithm %q", c.Algorithm)
	}
	if policy.Algorithm(c.Algorithm) == policy.RR && c.TimeSlice == 0 {
		return simerr.ConfigInvalid("time_slice must be > 0 for RR")
	}
	if len(c.Processes) == 0 {
		return simerr.ConfigInvalid("no processes configured")
	}

	seen := make(map[uint16]bool, len(c.Processes))
	for _, p := range c.Processes {
		if seen[p.PID] {
			return simerr.ConfigInvalid("duplicate pid %d", p.PID)
		}
		seen[p.PID] = true

		if p.Priority > 4 {
			return simerr.ConfigInvalid("pid %d: priority must be 0-4, got %d", p.PID, p.Priority)
		}
		if len(p.BurstTimes) == 0 {
			return simerr.ConfigInvalid("pid %d: must have at least one burst", p.PID)
		}
		if len(p.BurstTimes)%2 == 0 {
			return simerr.ConfigInvalid("pid %d: burst count must be odd, got %d", p.PID, len(p.BurstTimes))
		}
		if p.NumBursts != 0 && p.NumBursts != len(p.BurstTimes) {
			return simerr.ConfigInvalid("pid %d: num_bursts %d does not match burst_times length %d",
				p.PID, p.NumBursts, len(p.BurstTimes))
		}
		for i, b := range p.BurstTimes {
			if b == 0 {
				return simerr.ConfigInvalid("pid %d: burst %d has zero duration", p.PID, i)
			}
		}
	}

	return nil
}

// ToDetails converts the wire-shape descriptors into model.Details ready
// for model.New.
func (c *SchedulerConfig) ToDetails() []model.Details {
	out := make([]model.Details, 0, len(c.Processes))
	for _, p := range c.Processes {
		out = append(out, model.Details{
			PID:           p.PID,
			Priority:      p.Priority,
			ArrivalOffset: p.StartTime,
			Bursts:        append([]uint64(nil), p.BurstTimes...),
		})
	}
	return out
}

func (c *SchedulerConfig) String() string {
	return fmt.Sprintf("config[cores=%d algorithm=%s processes=%d]", c.Cores, c.Algorithm, len(c.Processes))
}
