package powercom

import "fmt"

// Modulation selects the keying scheme the modulator drives the carrier
// with.
type Modulation int

const (
	ModASK Modulation = iota
	ModPSK
	ModDPSK
)

func (m Modulation) String() string {
	switch m {
	case ModASK:
		return "ask"
	case ModPSK:
		return "psk"
	case ModDPSK:
		return "dpsk"
	default:
		return "unknown"
	}
}

// Encoding selects the framing applied to a byte stream before it is
// handed to the modulator.
type Encoding int

const (
	EncRaw Encoding = iota
	EncRS232
	EncPacket
)

func (e Encoding) String() string {
	switch e {
	case EncRaw:
		return "none"
	case EncRS232:
		return "rs232"
	case EncPacket:
		return "packet"
	default:
		return "unknown"
	}
}

// DefaultCarrierFreq and DefaultBitPeriods mirror DEFAULT_CARRIER_FREQ
// and DEFAULT_BIT_PERIODS from the original powercom_send.c.
const (
	DefaultCarrierFreq = 30
	DefaultBitPeriods  = 10
	// MaxThreads mirrors powercom_send.c's MAX_THREADS cap.
	MaxThreads = 32
	// MaxPacketLen is the maximum payload length the packet encoding's
	// single length byte can express (spec.md §4.1).
	MaxPacketLen = 255
	// MaxPacketChunk is powercom_send.c's MAX_PKT_LEN: the read buffer
	// size file-mode transmission chunks input into before handing each
	// chunk to Encode. It is independent of MaxPacketLen.
	MaxPacketChunk = 16
)

// ChannelParameters is the immutable channel configuration shared by the
// encoder, modulator, timer driver and load engine for the lifetime of a
// single Transmit call (spec.md §3).
type ChannelParameters struct {
	CarrierFreq    float64 // Hz, > 0
	Modulation     Modulation
	BitsPerSymbol  int // 1 for ASK; 1..4 for PSK/DPSK
	BitPeriods     int // carrier periods per bit (ASK) or per symbol (PSK/DPSK)
	CoreCount      int // >= 1
	Encoding       Encoding
	ExternalPID    int // 0 means "none"; else SIGSTOP/SIGCONT target

	// ExternalGPIOChip/Line, when Chip is non-empty, drive a gpiocdev
	// output line in sync with load_asserted alongside (or instead of)
	// ExternalPID. Chip == "" means "none"; a non-empty Chip requires
	// Line >= 0.
	ExternalGPIOChip   string
	ExternalGPIOLine   int
	ExternalGPIOInvert bool
}

// Validate checks the invariants spec.md §3 requires of ChannelParameters
// and reports the first violation found as an InvalidArgument error.
func (c ChannelParameters) Validate() error {
	if c.CarrierFreq <= 0 {
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("carrier frequency must be > 0, got %v", c.CarrierFreq))
	}
	if c.BitPeriods < 1 {
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("bit periods must be >= 1, got %d", c.BitPeriods))
	}
	if c.CoreCount < 1 {
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("core count must be >= 1, got %d", c.CoreCount))
	}
	if c.CoreCount > MaxThreads {
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("core count %d exceeds maximum of %d", c.CoreCount, MaxThreads))
	}
	switch c.Modulation {
	case ModASK:
		if c.BitsPerSymbol != 1 {
			return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("ASK requires bits_per_symbol == 1, got %d", c.BitsPerSymbol))
		}
	case ModPSK, ModDPSK:
		if c.BitsPerSymbol < 1 || c.BitsPerSymbol > 4 {
			return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("bits_per_symbol must be in [1,4], got %d", c.BitsPerSymbol))
		}
	default:
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("unknown modulation %v", c.Modulation))
	}
	switch c.Encoding {
	case EncRaw, EncRS232, EncPacket:
	default:
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("unknown encoding %v", c.Encoding))
	}
	// ExternalGPIOChip is the enable switch: a zero-value ChannelParameters
	// (ExternalGPIOLine's Go zero value is 0, a valid line number) must
	// not be mistaken for "gpio line 0 requested".
	if c.ExternalGPIOChip != "" && c.ExternalGPIOLine < 0 {
		return newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("gpio chip %q given without a line", c.ExternalGPIOChip))
	}
	return nil
}

// TickInterval computes the timer interval per spec.md §4.2: one tick
// per half carrier period for ASK, one tick per 1/2^bits_per_symbol of a
// carrier period for PSK/DPSK.
func (c ChannelParameters) TickInterval() (secondsPerTick float64) {
	switch c.Modulation {
	case ModASK:
		return 1 / (2 * c.CarrierFreq)
	default:
		events := float64(uint(1) << uint(c.BitsPerSymbol))
		return 1 / (c.CarrierFreq * events)
	}
}

// BitRate reports the configured bit rate in bits/second, used for the
// startup banner (SPEC_FULL.md, "Startup banner").
func (c ChannelParameters) BitRate() float64 {
	return c.CarrierFreq / float64(c.BitPeriods) * float64(c.BitsPerSymbol)
}

// TicksPerUnit returns the number of timer ticks per bit (ASK) or per
// symbol (PSK/DPSK), used by both the tick handlers and the timing
// properties in spec.md §8.
func (c ChannelParameters) TicksPerUnit() int {
	if c.Modulation == ModASK {
		return c.BitPeriods * 2
	}
	return c.BitPeriods * (1 << uint(c.BitsPerSymbol))
}
