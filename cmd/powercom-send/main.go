// Command powercom-send transmits data through the power line by
// modulating CPU load on one or more cores.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	powercom "github.com/dimhoff/powercom/src"
	"github.com/spf13/pflag"
)

var (
	flagCarrierFreq = pflag.Float64P("carrier", "c", powercom.DefaultCarrierFreq, "Carrier frequency in Hz")
	flagCores       = pflag.StringP("cores", "C", "all", "Number of CPU cores to modulate, or 'all'")
	flagEncoding    = pflag.StringP("encoding", "E", "packet", "Encoding type to use: packet, rs232, none, or 'help'")
	flagFile        = pflag.StringP("file", "f", "", "Send data contained in file instead of stdin")
	flagBitPeriods  = pflag.IntP("periods", "p", powercom.DefaultBitPeriods, "Carrier periods per bit")
	flagPID         = pflag.IntP("pid", "P", 0, "Modulate running state of external process")
	flagGPIOChip    = pflag.String("gpio-chip", "", "gpiocdev chip to drive in sync with load, e.g. gpiochip0")
	flagGPIOLine    = pflag.Int("gpio-line", -1, "gpiocdev line offset on --gpio-chip to drive in sync with load")
	flagGPIOInvert  = pflag.Bool("gpio-invert", false, "Invert the --gpio-line output")
	flagModulation  = pflag.StringP("modulation", "M", "ask", "Modulation type to use, or 'help'")
	flagTestPattern = pflag.StringP("test", "t", "", "Continuously transmit hex pattern PTRN as a test signal")
	flagConfig      = pflag.StringP("config", "y", "", "Load channel parameters from a YAML file")
	flagVerbose     = pflag.BoolP("verbose", "v", false, "Verbose logging")
	flagHelp        = pflag.BoolP("help", "h", false, "Display this help message")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-cCEfpPMtyvh] [--gpio-chip CHIP --gpio-line N [--gpio-invert]]\n\n", os.Args[0])
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = usage
	pflag.Parse()

	if *flagHelp {
		usage()
		os.Exit(0)
	}

	if pflag.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Incorrect amount of arguments")
		usage()
		os.Exit(1)
	}

	logger := powercom.NewLogger(*flagVerbose)

	if strings.EqualFold(*flagEncoding, "help") {
		fmt.Println("Available Encoding types: none, packet, rs232")
		os.Exit(0)
	}
	if strings.EqualFold(*flagModulation, "help") {
		fmt.Println("Available Modulation types: ask, bpsk, qpsk, 8psk, 16psk, dbpsk, dqpsk, d8psk, d16psk")
		os.Exit(0)
	}

	params, err := buildParams()
	if err != nil {
		fail(logger, err)
	}

	if *flagConfig != "" {
		cfg, err := powercom.LoadTransmitConfig(*flagConfig)
		if err != nil {
			fail(logger, err)
		}
		applyTransmitConfig(cfg, &params)
	}

	if err := params.Validate(); err != nil {
		fail(logger, err)
	}

	powercom.CheckCPUGovernor(logger)

	logger.Info("starting transmission",
		"bit_rate_bps", params.BitRate(),
		"carrier_hz", params.CarrierFreq,
		"cores", params.CoreCount,
	)

	engine := powercom.NewEngine(params, logger)
	ctx := context.Background()

	var runErr error
	switch {
	case *flagTestPattern != "":
		runErr = runTestSignal(ctx, engine, *flagTestPattern)
	case *flagFile != "":
		runErr = runFile(ctx, engine, params.Encoding, *flagFile)
	default:
		runErr = runStdin(ctx, engine, params.Encoding)
	}
	if runErr != nil {
		fail(logger, runErr)
	}
}

func buildParams() (powercom.ChannelParameters, error) {
	params := powercom.ChannelParameters{
		CarrierFreq:        *flagCarrierFreq,
		BitPeriods:         *flagBitPeriods,
		ExternalPID:        *flagPID,
		BitsPerSymbol:      1,
		ExternalGPIOChip:   *flagGPIOChip,
		ExternalGPIOLine:   *flagGPIOLine,
		ExternalGPIOInvert: *flagGPIOInvert,
	}

	mod, bits, err := parseModulation(*flagModulation)
	if err != nil {
		return params, err
	}
	params.Modulation = mod
	params.BitsPerSymbol = bits

	enc, err := parseEncoding(*flagEncoding)
	if err != nil {
		return params, err
	}
	params.Encoding = enc

	cores, err := parseCoreCount(*flagCores)
	if err != nil {
		return params, err
	}
	params.CoreCount = cores

	return params, nil
}

func parseModulation(s string) (powercom.Modulation, int, error) {
	switch strings.ToLower(s) {
	case "ask":
		return powercom.ModASK, 1, nil
	case "bpsk":
		return powercom.ModPSK, 1, nil
	case "qpsk":
		return powercom.ModPSK, 2, nil
	case "8psk":
		return powercom.ModPSK, 3, nil
	case "16psk":
		return powercom.ModPSK, 4, nil
	case "dbpsk":
		return powercom.ModDPSK, 1, nil
	case "dqpsk":
		return powercom.ModDPSK, 2, nil
	case "d8psk":
		return powercom.ModDPSK, 3, nil
	case "d16psk":
		return powercom.ModDPSK, 4, nil
	default:
		return 0, 0, fmt.Errorf("invalid modulation type %q", s)
	}
}

func parseEncoding(s string) (powercom.Encoding, error) {
	switch strings.ToLower(s) {
	case "packet":
		return powercom.EncPacket, nil
	case "rs232":
		return powercom.EncRS232, nil
	case "none":
		return powercom.EncRaw, nil
	default:
		return 0, fmt.Errorf("invalid encoding type %q", s)
	}
}

func parseCoreCount(s string) (int, error) {
	if strings.EqualFold(s, "all") {
		n := runtime.NumCPU()
		if n > powercom.MaxThreads {
			n = powercom.MaxThreads
		}
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid core count %q", s)
	}
	if n > powercom.MaxThreads {
		n = powercom.MaxThreads
	}
	return n, nil
}

func applyTransmitConfig(cfg *powercom.TransmitConfig, params *powercom.ChannelParameters) {
	changed := map[string]bool{}
	pflag.Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfg.CarrierFreq != nil && !changed["carrier"] {
		params.CarrierFreq = *cfg.CarrierFreq
	}
	if cfg.BitPeriods != nil && !changed["periods"] {
		params.BitPeriods = *cfg.BitPeriods
	}
	if cfg.Cores != nil && !changed["cores"] {
		params.CoreCount = *cfg.Cores
	}
	if cfg.ExternalPID != nil && !changed["pid"] {
		params.ExternalPID = *cfg.ExternalPID
	}
	if cfg.GPIOChip != nil && !changed["gpio-chip"] {
		params.ExternalGPIOChip = *cfg.GPIOChip
	}
	if cfg.GPIOLine != nil && !changed["gpio-line"] {
		params.ExternalGPIOLine = *cfg.GPIOLine
	}
	if cfg.GPIOInvert != nil && !changed["gpio-invert"] {
		params.ExternalGPIOInvert = *cfg.GPIOInvert
	}
	if cfg.Modulation != nil && !changed["modulation"] {
		if mod, bits, err := parseModulation(*cfg.Modulation); err == nil {
			params.Modulation = mod
			params.BitsPerSymbol = bits
		}
	}
	if cfg.Encoding != nil && !changed["encoding"] {
		if enc, err := parseEncoding(*cfg.Encoding); err == nil {
			params.Encoding = enc
		}
	}
}

func runTestSignal(ctx context.Context, engine *powercom.Engine, pattern string) error {
	val, err := strconv.ParseUint(pattern, 16, 64)
	if err != nil {
		return fmt.Errorf("invalid argument to -t option: %w", err)
	}
	width := uint(8)
	for v := val >> 8; v != 0; v >>= 8 {
		width += 8
	}
	frame := powercom.Frame(val)

	frames := make([]powercom.Frame, 1024)
	for i := range frames {
		frames[i] = frame
	}

	for ctx.Err() == nil {
		queue := powercom.NewFrameQueue(frames, width)
		if err := engine.Transmit(ctx, queue); err != nil {
			return err
		}
	}
	return nil
}

func runFile(ctx context.Context, engine *powercom.Engine, enc powercom.Encoding, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, powercom.MaxPacketChunk)
	for ctx.Err() == nil {
		n, err := f.Read(buf)
		if n > 0 {
			queue, encErr := powercom.Encode(enc, buf[:n])
			if encErr != nil {
				return encErr
			}
			if err := engine.Transmit(ctx, queue); err != nil {
				return err
			}
		}
		if err != nil {
			break
		}
	}
	return nil
}

func runStdin(ctx context.Context, engine *powercom.Engine, enc powercom.Encoding) error {
	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil && scanner.Scan() {
		line := scanner.Text() + "\n"
		queue, err := powercom.Encode(enc, []byte(line))
		if err != nil {
			return err
		}
		if err := engine.Transmit(ctx, queue); err != nil {
			return err
		}
	}
	return nil
}

func fail(logger *log.Logger, err error) {
	var pcErr *powercom.Error
	if errors.As(err, &pcErr) && pcErr.Kind == powercom.Interrupted {
		os.Exit(0)
	}
	logger.Error("transmission failed", "err", err)
	os.Exit(1)
}
