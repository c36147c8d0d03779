package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Observation source kinds.
const (
	SourceFile = "file"
	SourceMQTT = "mqtt"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// Station identity and position.
	Callsign    string
	Latitude    float64
	Longitude   float64
	Elevation   *float64 // meters; nil when the station elevation is unknown
	StationType string

	// APRS-IS server and login.
	AprsHost string
	AprsPort int
	AprsUser string
	AprsPass string

	// Delivery policy.
	SendMaxAttempts int
	SendRetryDelay  time.Duration
	SendTimeout     time.Duration
	SendMinInterval time.Duration

	// BeaconInterval between transmissions; zero means send once and exit.
	BeaconInterval time.Duration

	// Observation source selection.
	ObsSource string
	ObsFile   string

	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	callsign := strings.TrimSpace(os.Getenv("CALLSIGN"))
	if callsign == "" {
		return Config{}, fmt.Errorf("CALLSIGN is required (e.g. N0CALL-13)")
	}

	latStr := strings.TrimSpace(os.Getenv("STATION_LAT"))
	if latStr == "" {
		return Config{}, fmt.Errorf("STATION_LAT is required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid STATION_LAT %q: %w", latStr, err)
	}

	lonStr := strings.TrimSpace(os.Getenv("STATION_LON"))
	if lonStr == "" {
		return Config{}, fmt.Errorf("STATION_LON is required")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid STATION_LON %q: %w", lonStr, err)
	}

	var elevation *float64
	elevStr := strings.TrimSpace(os.Getenv("STATION_ELEVATION"))
	if elevStr != "" {
		elev, err := strconv.ParseFloat(elevStr, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STATION_ELEVATION %q: %w", elevStr, err)
		}
		elevation = &elev
	}

	stationType := strings.TrimSpace(os.Getenv("STATION_TYPE"))
	if stationType == "" {
		stationType = "WX Meteo Station"
	}

	aprsHost := strings.TrimSpace(os.Getenv("APRS_HOST"))
	if aprsHost == "" {
		aprsHost = "rotate.aprs2.net"
	}

	aprsPortStr := strings.TrimSpace(os.Getenv("APRS_PORT"))
	if aprsPortStr == "" {
		aprsPortStr = "14580"
	}
	aprsPort, err := strconv.Atoi(aprsPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid APRS_PORT %q: %w", aprsPortStr, err)
	}

	aprsUser := strings.TrimSpace(os.Getenv("APRS_USER"))
	if aprsUser == "" {
		return Config{}, fmt.Errorf("APRS_USER is required")
	}

	// The passcode is forwarded as-is; the server validates it.
	aprsPass := strings.TrimSpace(os.Getenv("APRS_PASS"))
	if aprsPass == "" {
		return Config{}, fmt.Errorf("APRS_PASS is required")
	}

	maxAttempts, err := envInt("SEND_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, err
	}
	if maxAttempts <= 0 {
		return Config{}, fmt.Errorf("SEND_MAX_ATTEMPTS must be positive, got %d", maxAttempts)
	}

	retryDelay, err := envDuration("SEND_RETRY_DELAY", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	sendTimeout, err := envDuration("SEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	minInterval, err := envDuration("SEND_MIN_INTERVAL", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	beaconInterval, err := envDuration("BEACON_INTERVAL", 0)
	if err != nil {
		return Config{}, err
	}
	if beaconInterval < 0 {
		return Config{}, fmt.Errorf("BEACON_INTERVAL must not be negative, got %v", beaconInterval)
	}

	obsSource := strings.TrimSpace(os.Getenv("OBS_SOURCE"))
	if obsSource == "" {
		obsSource = SourceFile
	}
	switch obsSource {
	case SourceFile, SourceMQTT:
	default:
		return Config{}, fmt.Errorf("invalid OBS_SOURCE %q (allowed: file, mqtt)", obsSource)
	}

	obsFile := strings.TrimSpace(os.Getenv("OBS_FILE"))
	if obsFile == "" {
		obsFile = "observation.json"
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	if mqttBroker == "" {
		mqttBroker = "localhost"
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "aprs-is-wx"
	}

	mqttTopic := strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if mqttTopic == "" {
		mqttTopic = "stations/+/telemetry"
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		Callsign:        callsign,
		Latitude:        lat,
		Longitude:       lon,
		Elevation:       elevation,
		StationType:     stationType,
		AprsHost:        aprsHost,
		AprsPort:        aprsPort,
		AprsUser:        aprsUser,
		AprsPass:        aprsPass,
		SendMaxAttempts: maxAttempts,
		SendRetryDelay:  retryDelay,
		SendTimeout:     sendTimeout,
		SendMinInterval: minInterval,
		BeaconInterval:  beaconInterval,
		ObsSource:       obsSource,
		ObsFile:         obsFile,
		MQTTBroker:      mqttBroker,
		MQTTPort:        mqttPort,
		MQTTClientID:    mqttClientID,
		MQTTTopic:       mqttTopic,
	}, nil
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
