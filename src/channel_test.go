package powercom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() ChannelParameters {
	return ChannelParameters{
		CarrierFreq:   30,
		Modulation:    ModASK,
		BitsPerSymbol: 1,
		BitPeriods:    10,
		CoreCount:     4,
		Encoding:      EncPacket,
	}
}

func TestChannelParameters_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validParams().Validate())
	})
	t.Run("zero carrier", func(t *testing.T) {
		p := validParams()
		p.CarrierFreq = 0
		require.Error(t, p.Validate())
	})
	t.Run("zero bit periods", func(t *testing.T) {
		p := validParams()
		p.BitPeriods = 0
		require.Error(t, p.Validate())
	})
	t.Run("core count too high", func(t *testing.T) {
		p := validParams()
		p.CoreCount = MaxThreads + 1
		require.Error(t, p.Validate())
	})
	t.Run("ask requires 1 bit per symbol", func(t *testing.T) {
		p := validParams()
		p.BitsPerSymbol = 2
		require.Error(t, p.Validate())
	})
	t.Run("psk bits out of range", func(t *testing.T) {
		p := validParams()
		p.Modulation = ModPSK
		p.BitsPerSymbol = 5
		require.Error(t, p.Validate())
	})
	t.Run("gpio chip without a line", func(t *testing.T) {
		p := validParams()
		p.ExternalGPIOChip = "gpiochip0"
		p.ExternalGPIOLine = -1
		require.Error(t, p.Validate())
	})
	t.Run("gpio chip and line both set", func(t *testing.T) {
		p := validParams()
		p.ExternalGPIOChip = "gpiochip0"
		p.ExternalGPIOLine = 4
		require.NoError(t, p.Validate())
	})
}

func TestChannelParameters_TicksPerUnit(t *testing.T) {
	ask := validParams()
	assert.Equal(t, 20, ask.TicksPerUnit())

	psk := validParams()
	psk.Modulation = ModPSK
	psk.BitsPerSymbol = 2
	assert.Equal(t, 40, psk.TicksPerUnit())
}

func TestChannelParameters_TickInterval(t *testing.T) {
	ask := validParams()
	assert.InDelta(t, 1.0/60.0, ask.TickInterval(), 1e-12)

	psk := validParams()
	psk.Modulation = ModPSK
	psk.BitsPerSymbol = 2
	assert.InDelta(t, 1.0/120.0, psk.TickInterval(), 1e-12)
}
