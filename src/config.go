package powercom

import (
	"os"

	"gopkg.in/yaml.v3"
)

// TransmitConfig is the YAML shape powercom-send's optional -y/--config
// file layers under its CLI flags (SPEC_FULL.md, "Configuration").
// Every field except BitsPerSymbol mirrors a flag; nil means "not present
// in the file". The command layer only copies a field across when the
// corresponding flag was never explicitly set (pflag.Flag.Changed ==
// false), the same file-then-flags layering deviceid.go applies to its
// device table. BitsPerSymbol is parsed but not applied: powercom-send
// takes bits per symbol from the modulation name.
type TransmitConfig struct {
	CarrierFreq   *float64 `yaml:"carrier_freq"`
	Modulation    *string  `yaml:"modulation"`
	BitsPerSymbol *int     `yaml:"bits_per_symbol"`
	BitPeriods    *int     `yaml:"bit_periods"`
	Cores         *int     `yaml:"cores"`
	Encoding      *string  `yaml:"encoding"`
	ExternalPID   *int     `yaml:"external_pid"`
	GPIOChip      *string  `yaml:"gpio_chip"`
	GPIOLine      *int     `yaml:"gpio_line"`
	GPIOInvert    *bool    `yaml:"gpio_invert"`
}

// LoadTransmitConfig reads and parses path.
func LoadTransmitConfig(path string) (*TransmitConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(InvalidArgument, "LoadTransmitConfig", err)
	}
	cfg := &TransmitConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, newError(InvalidArgument, "LoadTransmitConfig", err)
	}
	return cfg, nil
}

// ReceiverConfig is the equivalent YAML shape for apc-ups-logger.
type ReceiverConfig struct {
	Rate       *int    `yaml:"rate"`
	Binary     *bool   `yaml:"binary"`
	HiddevPath *string `yaml:"hiddev_path"`
	Timestamp  *string `yaml:"timestamp_format"`
}

// LoadReceiverConfig reads and parses path.
func LoadReceiverConfig(path string) (*ReceiverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(InvalidArgument, "LoadReceiverConfig", err)
	}
	cfg := &ReceiverConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, newError(InvalidArgument, "LoadReceiverConfig", err)
	}
	return cfg, nil
}
