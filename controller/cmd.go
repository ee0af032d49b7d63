package controller

import (
	"github.com/starvoid/AcerRGB/config"
	"github.com/starvoid/AcerRGB/system/keyboard"
	"github.com/starvoid/AcerRGB/system/persist"
	"github.com/starvoid/AcerRGB/system/wmi"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RunConfig contains the start up configuration for the controller
type RunConfig struct {
	DryRun   bool
	InitConf string
	Journal  config.JournalConfig
}

// Dependencies are the long lived objects shared across controller restarts
type Dependencies struct {
	WMI            wmi.WMI
	ConfigRegistry persist.ConfigRegistry
	Keyboard       *keyboard.Control
}

// GetDependencies builds the firmware interface, the config registry and the
// keyboard control. A dry run never touches the firmware; otherwise every call
// is recorded to the rotated journal file.
func GetDependencies(conf RunConfig) (*Dependencies, error) {
	var w wmi.WMI
	var registry persist.ConfigRegistry
	var err error

	if conf.DryRun {
		w, _ = wmi.NewDryWMI()
		registry, err = persist.NewDryConfigHelper()
		if err != nil {
			return nil, err
		}
	} else {
		if conf.Journal.Path == "" {
			return nil, errors.New("[controller] journal path is required when not in dry run")
		}
		w, err = wmi.NewJournal(&lumberjack.Logger{
			Filename:   conf.Journal.Path,
			MaxSize:    conf.Journal.MaxSize,
			MaxBackups: conf.Journal.MaxBackups,
			MaxAge:     conf.Journal.MaxAge,
			Compress:   true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "[controller] cannot open journal")
		}
		registry, _ = persist.NewConfigHelper()
	}

	kbCtrl, err := keyboard.NewControl(keyboard.Config{
		WMI:      w,
		InitConf: conf.InitConf,
	})
	if err != nil {
		return nil, err
	}

	registry.Register(kbCtrl)

	return &Dependencies{
		WMI:            w,
		ConfigRegistry: registry,
		Keyboard:       kbCtrl,
	}, nil
}
