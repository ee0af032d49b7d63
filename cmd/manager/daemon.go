package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starvoid/AcerRGB/config"
	"github.com/starvoid/AcerRGB/controller"
	"github.com/starvoid/AcerRGB/supervisor"
	"github.com/starvoid/AcerRGB/supervisor/background"
	"github.com/starvoid/AcerRGB/system/device"
	"github.com/starvoid/AcerRGB/system/plugin"
	"github.com/starvoid/AcerRGB/system/power"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	suture "github.com/thejerf/suture/v4"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the keyboard manager daemon",
	Long: `Applies init_conf at startup, replays it after hibernation, and accepts
command strings on the device socket. SIGHUP restarts the controller, which
applies init_conf again.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	setupLogging(conf.Log, cmd.ErrOrStderr())

	log.Info().Msgf("AcerRGB version: %s", Version)
	if conf.DryRun {
		log.Info().Msg("[supervisor] running in dry run mode")
	}

	dep, err := controller.GetDependencies(controller.RunConfig{
		DryRun:   conf.DryRun,
		InitConf: conf.InitConf,
		Journal:  conf.Journal,
	})
	if err != nil {
		return errors.Wrap(err, "[supervisor] cannot get dependencies")
	}

	notifier := background.NewNotifier()

	deviceNode, err := device.NewNode(device.Config{
		Path:     conf.Device.Path,
		Mode:     conf.Device.Mode.FileMode(),
		MaxWrite: conf.Device.MaxWrite,
		Keyboard: dep.Keyboard,
	})
	if err != nil {
		return errors.Wrap(err, "[supervisor] cannot create device node")
	}

	evtHook := &supervisor.EventHook{
		Notifier: notifier.C,
	}

	/*
		How the supervisor tree is structured:
			controlSupervisor:		supervisor/responder.go
			ControllerResponder:	supervisor/responder.go
			deviceNode:				system/device
			versionChecker:			supervisor/background/version.go
			notifier:				supervisor/background/notifier.go
			controller:				controller

								rootSupervisor  +----+  externalWeb (debug_addr)
									+    +
									|    |
									|    |
			controlSupervisor  +---+    +---+   backgroundSupervisor
				+ + +                            + +
				| | |                            | |
				| | +-> deviceNode               | +-> versionChecker
				| |                              |
				| |                              |
				| +---> ControllerResponder      +---> notifier
				|
				|
				+-----> controllerSupervisor
							+
							|
							+-> Controller

		ControllerResponder owns the lifecycle of the Controller, the signal
		loop below asks it to start and to reload via reqCh
	*/

	controlSupervisor := suture.New("controlSupervisor", suture.Spec{})
	reqCh := make(chan supervisor.ControllerRequest, 1)
	responder := &supervisor.ControllerResponder{
		Supervisor:    controlSupervisor,
		ReqCh:         reqCh,
		NewController: newControllerFactory(conf, dep, notifier),
	}
	controlSupervisor.Add(responder)
	controlSupervisor.Add(deviceNode)

	backgroundSupervisor := suture.New("backgroundSupervisor", suture.Spec{})
	backgroundSupervisor.Add(notifier)
	if conf.UpdateCheck.Enabled {
		versionChecker, err := background.NewVersionCheck(Version, conf.UpdateCheck.Repo, conf.UpdateCheck.Interval.Duration(), notifier.C)
		if err != nil {
			log.Warn().Err(err).Msg("[supervisor] version checker disabled")
		} else {
			backgroundSupervisor.Add(versionChecker)
		}
	}

	rootSupervisor := suture.New("Supervisor", suture.Spec{
		EventHook: evtHook.Event,
	})
	rootSupervisor.Add(controlSupervisor)
	rootSupervisor.Add(backgroundSupervisor)
	if conf.DebugAddr != "" {
		rootSupervisor.Add(NewWeb(conf.DebugAddr, conf.Log.File))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(
		sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	go func() {
		supervisorErr := rootSupervisor.Serve(ctx)
		if supervisorErr != nil && ctx.Err() == nil {
			log.Error().Err(supervisorErr).Msg("[supervisor] rootSupervisor returns error")
			sigc <- syscall.SIGTERM
		}
	}()

	reqCh <- supervisor.ControllerRequest{
		Request: supervisor.RequestStartController,
	}

	for sig := range sigc {
		log.Info().Msgf("[supervisor] signal received: %s", sig)
		if sig != syscall.SIGHUP {
			break
		}
		select {
		case reqCh <- supervisor.ControllerRequest{Request: supervisor.RequestReloadController}:
		default:
			log.Warn().Msg("[supervisor] reload already pending")
		}
	}

	cancel()
	dep.ConfigRegistry.Close()
	time.Sleep(time.Second) // 1 second for grace period
	return nil
}

func newControllerFactory(conf *config.Config, dep *controller.Dependencies, notifier *background.Notifier) func() (suture.Service, error) {
	return func() (suture.Service, error) {
		return controller.New(controller.Config{
			Plugins:         []plugin.Plugin{dep.Keyboard},
			Registry:        dep.ConfigRegistry,
			ReplayOnSuspend: conf.ReplayOnSuspend,
			Power: power.ListenerConfig{
				PollInterval:  conf.Power.PollInterval.Duration(),
				JumpThreshold: conf.Power.JumpThreshold.Duration(),
			},
			ResumeDebounce: conf.Power.Debounce.Duration(),
			Notifier:       notifier.C,
		})
	}
}
