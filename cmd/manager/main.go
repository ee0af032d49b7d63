package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/starvoid/AcerRGB/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Compile time injected variables
var (
	Version = "v0.0.0-dev"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "manager",
	Short: "AcerRGB keyboard backlight manager",
	Long: `Applies keyboard backlight command strings (m/v/b/d/c/z) to Acer gaming
laptops, and replays the configured one at startup and after hibernation.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("ACERRGB_CONFIG"), "path to the YAML configuration file")
	rootCmd.SetVersionTemplate(fmt.Sprintf("AcerRGB %s\n", Version))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// setupLogging points the global logger at stderr, or at a rotated file when
// conf.File is set
func setupLogging(conf config.LogConfig, stderr io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = stderr
	if conf.File != "" {
		out = &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		}
	}

	if conf.JSON || conf.File != "" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !conf.Colors,
		})
	}

	level, err := zerolog.ParseLevel(conf.GetLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
