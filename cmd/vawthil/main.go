// Command vawthil runs a hardware-in-the-loop test of an MPPT controller
// attached over a serial port, then reports the measured tracking
// efficiency and optionally dumps the run trace as CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vawtlabs/vawthil"
	"github.com/vawtlabs/vawthil/tracecsv"
	"github.com/vawtlabs/vawthil/wind"
)

// fileConfig is the on-disk configuration: the harness config plus the wind
// scenario and the serial link.
type fileConfig struct {
	Harness    vawthil.Config   `mapstructure:"harness"`
	Wind       wind.Sources     `mapstructure:"wind"`
	Turbulence *wind.Turbulence `mapstructure:"turbulence"`
	Serial     serialConfig     `mapstructure:"serial"`
}

type serialConfig struct {
	Port string `mapstructure:"port"`
	Baud int    `mapstructure:"baud"`
}

func loadConfig(path string) (*fileConfig, error) {
	viper.SetConfigType("yaml")
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("serial.port", "/dev/ttyUSB0")
	viper.SetDefault("serial.baud", 115200)
	viper.SetDefault("harness.settle_time", 2.0) // wait out the board reset on port open

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// no file: reference defaults
	}

	cfg := &fileConfig{Harness: vawthil.DefaultConfig()}
	if err := viper.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		wind.DecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func main() {
	var (
		configPath string
		port       string
		baud       int
		duration   float64
		csvPath    string
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "path to config.yaml")
	flag.StringVar(&port, "port", "", "serial port override")
	flag.IntVar(&baud, "baud", 0, "baud rate override")
	flag.Float64Var(&duration, "duration", 0, "run duration override, seconds")
	flag.StringVar(&csvPath, "csv", "", "write the run trace to this CSV file")
	flag.BoolVar(&debug, "debug", false, "per-tick debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.WithError(err).Fatal("configuration failed")
	}
	if port != "" {
		cfg.Serial.Port = port
	}
	if baud != 0 {
		cfg.Serial.Baud = baud
	}
	if duration != 0 {
		cfg.Harness.Duration = duration
	}

	profile := wind.StepGust()
	if len(cfg.Wind) > 0 {
		profile = cfg.Wind.Profile()
	}

	readTimeout := time.Duration(cfg.Harness.ReadTimeout * float64(time.Second))
	ch, err := vawthil.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud, readTimeout)
	if err != nil {
		log.WithError(err).Fatal("serial open failed")
	}

	harness, err := vawthil.NewHarness(cfg.Harness, ch, profile)
	if err != nil {
		ch.Close()
		log.WithError(err).Fatal("harness construction failed")
	}
	harness.SetLogger(log)
	if cfg.Turbulence != nil {
		if err := harness.SetTurbulence(cfg.Turbulence); err != nil {
			ch.Close()
			log.WithError(err).Fatal("turbulence configuration failed")
		}
	}

	log.WithFields(logrus.Fields{
		"port":     cfg.Serial.Port,
		"baud":     cfg.Serial.Baud,
		"duration": cfg.Harness.Duration,
	}).Info("starting HIL run")

	trace, runErr := harness.Run()
	if runErr != nil {
		// keep whatever was captured before the failure
		log.WithError(runErr).Error("run aborted")
	}
	log.WithFields(logrus.Fields{
		"samples":  trace.Len(),
		"overruns": harness.Overruns(),
	}).Info("run finished")

	if csvPath != "" {
		if err := tracecsv.WriteFile(csvPath, trace); err != nil {
			log.WithError(err).Error("csv export failed")
		} else {
			log.WithField("path", csvPath).Info("trace exported")
		}
	}

	score, err := vawthil.ScoreTrace(trace, cfg.Harness.Band, cfg.Harness.CpMax)
	switch {
	case errors.Is(err, vawthil.ErrNoSamplesInBand):
		log.Warn("rotor never reached the optimal tip-speed-ratio band; MPPT efficiency undefined")
	case err != nil:
		log.WithError(err).Error("scoring failed")
	default:
		fmt.Printf("MPPT efficiency: %.1f%%\n", score.Efficiency*100)
		fmt.Printf("Average Cp near lambda_opt: %.3f (%d samples in band)\n", score.MeanCp, score.Samples)
	}

	if runErr != nil {
		os.Exit(1)
	}
}
