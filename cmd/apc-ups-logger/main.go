// Command apc-ups-logger samples an APC UPS's reported load percentage
// at a constant rate over the Linux hiddev interface.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	powercom "github.com/dimhoff/powercom/src"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"
)

var (
	flagBinary    = pflag.BoolP("binary", "b", false, "Binary (float32) output")
	flagRate      = pflag.UintP("rate", "r", powercom.DefaultSampleRate, "Sampling rate in Hz")
	flagRunTime   = pflag.UintP("time", "t", 0, "Exit after SEC seconds (0 means forever)")
	flagList      = pflag.Bool("list", false, "List available hiddev device nodes and exit")
	flagTimestamp = pflag.StringP("timestamp-format", "T", "", "Precede text-mode samples with a strftime-formatted timestamp")
	flagConfig    = pflag.StringP("config", "y", "", "Load sampler parameters from a YAML file")
	flagVerbose   = pflag.BoolP("verbose", "v", false, "Verbose logging")
	flagHelp      = pflag.BoolP("help", "h", false, "Display this help message")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-brtT h] [hiddev path]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Default hiddev path: %s\n\n", powercom.DefaultHiddevPath)
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = usage
	pflag.Parse()

	if *flagHelp {
		usage()
		os.Exit(0)
	}

	logger := powercom.NewLogger(*flagVerbose)

	if *flagList {
		devices, err := powercom.ListHIDDevices()
		if err != nil {
			fail(logger, err)
		}
		for _, d := range devices {
			vendor, product := d.Vendor, d.Product
			if vendor == "" {
				vendor = "????"
			}
			if product == "" {
				product = "????"
			}
			fmt.Printf("%s — %s (%s:%s)\n", d.Devnode, d.Sysname, vendor, product)
		}
		os.Exit(0)
	}

	hiddevPath := powercom.DefaultHiddevPath
	switch pflag.NArg() {
	case 0:
	case 1:
		hiddevPath = pflag.Arg(0)
	default:
		fmt.Fprintln(os.Stderr, "Incorrect amount of arguments")
		usage()
		os.Exit(1)
	}

	params := powercom.SamplerParams{
		Rate:   int(*flagRate),
		Binary: *flagBinary,
	}
	timestampFormat := *flagTimestamp

	if *flagConfig != "" {
		cfg, err := powercom.LoadReceiverConfig(*flagConfig)
		if err != nil {
			fail(logger, err)
		}
		changed := map[string]bool{}
		pflag.Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfg.Rate != nil && !changed["rate"] {
			params.Rate = *cfg.Rate
		}
		if cfg.Binary != nil && !changed["binary"] {
			params.Binary = *cfg.Binary
		}
		if cfg.HiddevPath != nil && !changed["hiddev"] && pflag.NArg() == 0 {
			hiddevPath = *cfg.HiddevPath
		}
		if cfg.Timestamp != nil && !changed["timestamp-format"] {
			timestampFormat = *cfg.Timestamp
		}
	}

	if timestampFormat != "" {
		f, err := strftime.New(timestampFormat)
		if err != nil {
			fail(logger, fmt.Errorf("invalid timestamp format: %w", err))
		}
		params.Timestamp = f
	}

	if *flagRunTime > 0 {
		params.Deadline = time.Now().Add(time.Duration(*flagRunTime) * time.Second)
	}

	sensor, err := powercom.OpenUPSLoadSensor(hiddevPath)
	if err != nil {
		fail(logger, err)
	}
	defer sensor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sampler := powercom.NewSampler(sensor, params, os.Stdout, logger)
	if err := sampler.Run(ctx); err != nil {
		fail(logger, err)
	}
}

func fail(logger *log.Logger, err error) {
	var pcErr *powercom.Error
	if errors.As(err, &pcErr) && pcErr.Kind == powercom.Interrupted {
		os.Exit(0)
	}
	logger.Error("sampling failed", "err", err)
	os.Exit(1)
}
