package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biandopa/cpusim/internal/config"
	"github.com/biandopa/cpusim/internal/simerr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadValidFCFSConfig(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 1,
		"algorithm": "FCFS",
		"context_switch": 0,
		"processes": [
			{"pid": 1, "priority": 0, "start_time": 0, "num_bursts": 1, "burst_times": [100]}
		]
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, uint8(1), cfg.Cores)
	require.Len(t, cfg.Processes, 1)
	require.NotEmpty(t, cfg.RunID)
}

func TestLoadMissingFileIsConfigInvalid(t *testing.T) {
	_, err := config.Load("/nonexistent/path.json")
	require.ErrorIs(t, err, simerr.ErrConfigInvalid)
}

func TestLoadRejectsEvenBurstCount(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 1,
		"algorithm": "FCFS",
		"processes": [
			{"pid": 1, "burst_times": [100, 50]}
		]
	}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownAlgorithm(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 1,
		"algorithm": "LIFO",
		"processes": [{"pid": 1, "burst_times": [100]}]
	}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsZeroCores(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 0,
		"algorithm": "FCFS",
		"processes": [{"pid": 1, "burst_times": [100]}]
	}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsRRWithoutTimeSlice(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 1,
		"algorithm": "RR",
		"processes": [{"pid": 1, "burst_times": [100]}]
	}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsDuplicatePID(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 1,
		"algorithm": "FCFS",
		"processes": [
			{"pid": 1, "burst_times": [100]},
			{"pid": 1, "burst_times": [50]}
		]
	}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestToDetailsPreservesBursts(t *testing.T) {
	path := writeConfig(t, `{
		"cores": 2,
		"algorithm": "RR",
		"time_slice": 30,
		"processes": [{"pid": 7, "priority": 2, "start_time": 10, "burst_times": [50, 20, 30]}]
	}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	details := cfg.ToDetails()
	require.Len(t, details, 1)
	require.Equal(t, uint16(7), details[0].PID)
	require.Equal(t, uint64(10), details[0].ArrivalOffset)
	require.Equal(t, []uint64{50, 20, 30}, details[0].Bursts)
}
