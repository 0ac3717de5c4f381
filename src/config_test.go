package powercom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadTransmitConfig(t *testing.T) {
	path := writeTempFile(t, `
carrier_freq: 45.5
modulation: qpsk
bit_periods: 8
cores: 2
encoding: rs232
external_pid: 1234
gpio_chip: gpiochip0
gpio_line: 17
gpio_invert: true
`)

	cfg, err := LoadTransmitConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.CarrierFreq)
	assert.Equal(t, 45.5, *cfg.CarrierFreq)
	require.NotNil(t, cfg.Modulation)
	assert.Equal(t, "qpsk", *cfg.Modulation)
	require.NotNil(t, cfg.BitPeriods)
	assert.Equal(t, 8, *cfg.BitPeriods)
	require.NotNil(t, cfg.Cores)
	assert.Equal(t, 2, *cfg.Cores)
	require.NotNil(t, cfg.Encoding)
	assert.Equal(t, "rs232", *cfg.Encoding)
	require.NotNil(t, cfg.ExternalPID)
	assert.Equal(t, 1234, *cfg.ExternalPID)
	require.NotNil(t, cfg.GPIOChip)
	assert.Equal(t, "gpiochip0", *cfg.GPIOChip)
	require.NotNil(t, cfg.GPIOLine)
	assert.Equal(t, 17, *cfg.GPIOLine)
	require.NotNil(t, cfg.GPIOInvert)
	assert.True(t, *cfg.GPIOInvert)
}

func TestLoadTransmitConfig_MissingFile(t *testing.T) {
	_, err := LoadTransmitConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)

	var pcErr *Error
	require.ErrorAs(t, err, &pcErr)
	assert.Equal(t, InvalidArgument, pcErr.Kind)
}

func TestLoadReceiverConfig(t *testing.T) {
	path := writeTempFile(t, `
rate: 120
binary: true
hiddev_path: /dev/usb/hiddev1
timestamp_format: "%Y-%m-%d"
`)

	cfg, err := LoadReceiverConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Rate)
	assert.Equal(t, 120, *cfg.Rate)
	require.NotNil(t, cfg.Binary)
	assert.True(t, *cfg.Binary)
	require.NotNil(t, cfg.HiddevPath)
	assert.Equal(t, "/dev/usb/hiddev1", *cfg.HiddevPath)
	require.NotNil(t, cfg.Timestamp)
	assert.Equal(t, "%Y-%m-%d", *cfg.Timestamp)
}
