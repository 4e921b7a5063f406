package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/benmeehan/otp-display/internal/constants"
	"github.com/benmeehan/otp-display/internal/metrics_collectors"
	"github.com/benmeehan/otp-display/internal/services"
	"github.com/benmeehan/otp-display/internal/state_managers"
	"github.com/benmeehan/otp-display/internal/utils"
	"github.com/benmeehan/otp-display/pkg/device"
	"github.com/benmeehan/otp-display/pkg/display"
	"github.com/benmeehan/otp-display/pkg/eeprom"
	"github.com/benmeehan/otp-display/pkg/file"
	"github.com/benmeehan/otp-display/pkg/identity"
	"github.com/benmeehan/otp-display/pkg/mqtt"
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/benmeehan/otp-display/pkg/timesync"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always runs.
func run() int {
	configPath := flag.String("config", "/etc/otp-display/config.yaml", "path to the configuration file")
	flag.Parse()

	fileClient := file.NewFileService(nil)

	// Load configuration from file
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// The terminal backend owns the screen, so console logs would corrupt it.
	var console io.Writer = os.Stderr
	if config.Display.Backend == "terminal" {
		console = nil
	}
	log, err := utils.InitLogging(config, console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	log.Info().Str("version", constants.FirmwareVersion()).Str("config", *configPath).Msg("Starting OTP display")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer, closeRenderer, err := newRenderer(config, stop, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize display")
		return 1
	}

	var cleanup []func()
	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			for i := len(cleanup) - 1; i >= 0; i-- {
				cleanup[i]()
			}
		})
	}
	cleanup = append(cleanup, closeRenderer)
	defer shutdown()

	clock := clockwork.NewRealClock()

	storage, err := eeprom.NewFileStorage(config.Storage.EEPROMFile, config.Storage.Size, fileClient, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open persistent storage")
		return 1
	}
	credentials := state_managers.NewCredentialStore(storage, config.Storage.BaseOffset, log)

	driver := radio.NewNmcliDriver(config.WiFi.NmcliPath, config.WiFi.Interface, config.WiFi.CommandTimeout, radio.ExecRunner,
		log.With().Str("component", "radio").Logger())
	cleanup = append(cleanup, driver.Close)

	ntpService := timesync.NewNTPService(config.Time.NTPServer, config.Time.QueryTimeout, config.Time.RetryInterval,
		config.Time.ResyncInterval, clock, nil, log.With().Str("component", "timesync").Logger())

	selector := services.NewNetworkSelector(config.WiFi.KnownNetworks, log)
	attempt := services.NewConnectionAttempt(driver, renderer, clock, log)
	acquisition := services.NewAcquisitionService(driver, selector, attempt, credentials, renderer, clock, services.AcquisitionOptions{
		ScanTimeout:    config.WiFi.ScanTimeout,
		ConnectTimeout: config.WiFi.ConnectTimeout,
		IncludeHidden:  *config.WiFi.IncludeHidden,
	}, log.With().Str("component", "acquisition").Logger())
	timeGate := services.NewTimeGate(ntpService, driver, renderer, clock, config.Time.SyncTimeout, log)
	engine := services.NewOTPRefreshService(config.OTP.Secrets, nil, renderer, log.With().Str("component", "otp").Logger())

	restarter := device.NewSystemRestarter(config.Restart.Mode, config.Restart.ExitCode, log)
	restarter.BeforeExit(shutdown)

	boot := services.NewBootSequence(renderer, restarter, clock, log)
	boot.Register("splash", services.SplashStage(renderer, log))
	boot.Register("wifi", services.AcquisitionStage(acquisition))
	boot.Register("time", services.TimeGateStage(timeGate))

	var heartbeat services.Heartbeater
	if config.Heartbeat.Enabled {
		mqttClient := mqtt.NewMqttService(fileClient)
		cleanup = append(cleanup, func() { mqttClient.Disconnect(250) })
		hb := newHeartbeat(config, fileClient, mqttClient, acquisition, ntpService, engine, log)
		heartbeat = hb
		boot.Register("heartbeat", func() error {
			return connectHeartbeat(config, mqttClient, hb, log)
		})
	}

	// Boot stages block on the radio and NTP without watching ctx, so a
	// signal during boot is handled here.
	bootDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			log.Info().Msg("Interrupted during boot, shutting down")
			shutdown()
			os.Exit(0)
		case <-bootDone:
		}
	}()

	err = boot.Run()
	close(bootDone)
	if err != nil {
		log.Error().Err(err).Msg("Boot sequence failed")
		return 1
	}

	loop := services.NewDeviceLoop(ntpService, engine, heartbeat, clock, log)
	_ = loop.Run(ctx)

	log.Info().Msg("Shutting down gracefully...")
	return 0
}

// newRenderer opens the configured backend, deduplicated. The returned func
// releases the backend. interrupt is called on Ctrl-C when the backend owns
// the terminal.
func newRenderer(config *utils.Config, interrupt func(), log zerolog.Logger) (display.Renderer, func(), error) {
	if config.Display.Backend == "terminal" {
		terminal, err := display.OpenTerminal()
		if err != nil {
			return nil, nil, err
		}
		terminal.WatchInterrupt(interrupt)
		return display.NewDedupRenderer(terminal), terminal.Close, nil
	}
	return display.NewDedupRenderer(display.NewLogRenderer(log.With().Str("component", "display").Logger())), func() {}, nil
}

func newHeartbeat(
	config *utils.Config,
	fileClient file.FileOperations,
	mqttClient *mqtt.MqttService,
	acquisition *services.AcquisitionService,
	timeSync timesync.Service,
	engine *services.OTPRefreshService,
	log zerolog.Logger,
) *services.HeartbeatService {
	deviceInfo := identity.NewDeviceInfo(config.Identity.DeviceFile, fileClient)

	registry := metrics_collectors.NewMetricsRegistry(config.Heartbeat.Metrics)
	registry.Register(&metrics_collectors.MemoryMetricCollector{Logger: log})
	registry.Register(&metrics_collectors.UptimeMetricCollector{Logger: log})
	registry.Register(&metrics_collectors.CPUMetricCollector{Logger: log})
	registry.Register(&metrics_collectors.StorageMetricCollector{Logger: log, Path: "/"})
	registry.Register(&metrics_collectors.WiFiMetricCollector{Logger: log, Interface: config.WiFi.Interface})

	status := func() services.DeviceStatus {
		return services.DeviceStatus{
			SSID:         acquisition.ConnectedSSID(),
			Synchronized: timeSync.IsSynchronized(),
			Period:       engine.LastComputedPeriod(),
		}
	}

	return services.NewHeartbeatService(config.Heartbeat.Topic, config.Heartbeat.Interval, config.Heartbeat.QOS,
		deviceInfo, mqttClient, registry, status, log.With().Str("component", "heartbeat").Logger())
}

// connectHeartbeat resolves the device identity and connects to the broker.
// Failures leave the display running without heartbeats.
func connectHeartbeat(config *utils.Config, mqttClient *mqtt.MqttService, hb *services.HeartbeatService, log zerolog.Logger) error {
	deviceID, err := hb.DeviceInfo.EnsureDeviceID()
	if err != nil {
		return fmt.Errorf("failed to resolve device id: %w", err)
	}

	clientID := config.Heartbeat.ClientID + "-" + deviceID
	log.Info().Str("client_id", clientID).Msg("Using MQTT client ID")

	return mqttClient.Initialize(mqtt.Options{
		Broker:         config.Heartbeat.Broker,
		ClientID:       clientID,
		CACertPath:     config.Heartbeat.CACertificate,
		Username:       config.Heartbeat.Username,
		Password:       config.Heartbeat.Password,
		ConnectTimeout: config.Heartbeat.ConnectTimeout,
	})
}
