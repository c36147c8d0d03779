package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/filipsPL/aprs-is-wx/internal/aprs"
	"github.com/filipsPL/aprs-is-wx/internal/aprsis"
	"github.com/filipsPL/aprs-is-wx/internal/config"
	"github.com/filipsPL/aprs-is-wx/internal/source"
	"github.com/filipsPL/aprs-is-wx/internal/wx"
)

// packetSender delivers one encoded packet body (with its own retries).
type packetSender interface {
	Send(ctx context.Context, body string) error
}

// observationSource hands over the current weather observation.
type observationSource interface {
	Latest(ctx context.Context) (wx.Observation, error)
}

// Run wires the station, the observation source and the APRS-IS client
// together. With a zero beacon interval a single transmission cycle runs
// and Run returns its outcome; otherwise cycles repeat on the interval
// until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, software, version string) error {
	slog.Info("initializing beacon",
		"callsign", cfg.Callsign,
		"server", fmt.Sprintf("%s:%d", cfg.AprsHost, cfg.AprsPort),
		"obs_source", cfg.ObsSource,
		"beacon_interval", cfg.BeaconInterval,
	)

	station := aprs.Station{
		Callsign:  cfg.Callsign,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Elevation: cfg.Elevation,
		Comment:   cfg.StationType,
	}

	client := aprsis.New(aprsis.Options{
		Host:        cfg.AprsHost,
		Port:        cfg.AprsPort,
		User:        cfg.AprsUser,
		Passcode:    cfg.AprsPass,
		Callsign:    cfg.Callsign,
		Software:    software,
		Version:     version,
		MaxAttempts: cfg.SendMaxAttempts,
		RetryDelay:  cfg.SendRetryDelay,
		Timeout:     cfg.SendTimeout,
		MinInterval: cfg.SendMinInterval,
		SettleDelay: 2 * time.Second,
	}, slog.Default())

	src, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	if cfg.BeaconInterval == 0 {
		return beaconOnce(ctx, station, src, client)
	}

	s := gocron.NewScheduler(time.UTC)
	_, err = s.Every(cfg.BeaconInterval).Do(func() {
		if err := beaconOnce(ctx, station, src, client); err != nil {
			slog.Error("beacon cycle failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule beacon: %w", err)
	}
	s.StartAsync()
	defer s.Stop()

	<-ctx.Done()

	slog.Info("beacon shutting down")
	return nil
}

// beaconOnce runs one transmission cycle: weather packet, then uptime
// status. A terminal weather failure does not stop the status packet;
// both outcomes are reported.
func beaconOnce(ctx context.Context, station aprs.Station, src observationSource, sender packetSender) error {
	obs, err := src.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load observation: %w", err)
	}

	body, err := aprs.EncodeWeather(station, obs, time.Now())
	if err != nil {
		return fmt.Errorf("encode weather packet: %w", err)
	}
	slog.Info("weather packet encoded", "packet", body)

	wxErr := sender.Send(ctx, body)
	if wxErr != nil {
		slog.Error("weather packet not delivered", "error", wxErr)
	} else {
		slog.Info("weather packet delivered")
	}

	status := aprs.EncodeStatus("Uptime: " + uptimeString())
	slog.Info("sending status", "packet", status)

	stErr := sender.Send(ctx, status)
	if stErr != nil {
		slog.Error("status packet not delivered", "error", stErr)
	} else {
		slog.Info("status packet delivered")
	}

	return errors.Join(wxErr, stErr)
}

// newSource builds the configured observation source. The returned close
// function releases whatever the source holds open.
func newSource(ctx context.Context, cfg config.Config) (observationSource, func(), error) {
	switch cfg.ObsSource {
	case config.SourceMQTT:
		src := source.NewMQTTSource(source.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			Port:     cfg.MQTTPort,
			ClientID: cfg.MQTTClientID,
			Topic:    cfg.MQTTTopic,
		}, slog.Default())

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := src.Connect(connectCtx); err != nil {
			return nil, nil, fmt.Errorf("mqtt source: %w", err)
		}
		return src, src.Disconnect, nil
	default:
		return source.NewFileSource(cfg.ObsFile), func() {}, nil
	}
}
