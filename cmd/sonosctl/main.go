// sonosctl - Sonos local-control bridge
//
// sonosctl connects to a single Sonos player over the local websocket
// control API, maintains a live model of the household (groups, players,
// volume), and mirrors state changes to MQTT and InfluxDB for home
// automation consumers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soundmesh/sonosws/internal/infrastructure/config"
	"github.com/soundmesh/sonosws/internal/infrastructure/influxdb"
	"github.com/soundmesh/sonosws/internal/infrastructure/logging"
	"github.com/soundmesh/sonosws/internal/infrastructure/mqtt"
	"github.com/soundmesh/sonosws/internal/mirror"
	"github.com/soundmesh/sonosws/internal/sonos/client"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting sonosctl",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Create the player client and connect
	sonos := client.New(client.Config{
		PlayerIP:         cfg.Player.IP,
		APIKey:           cfg.Player.APIKey,
		HandshakeTimeout: cfg.GetHandshakeTimeout(),
		Heartbeat:        cfg.GetHeartbeat(),
		InsecureTLS:      cfg.Websocket.InsecureTLS,
	})
	sonos.SetLogger(log)

	if err := sonos.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to player %s: %w", cfg.Player.IP, err)
	}
	defer func() {
		log.Info("disconnecting from player")
		sonos.Disconnect()
	}()
	log.Info("player connected", "ip", cfg.Player.IP)

	// Mirror state changes to the integration backends
	if mqttClient != nil {
		mirrorCfg := mirror.Config{
			Publisher: mqttClient,
			Topics:    mqttClient.Topics(),
			QoS:       byte(cfg.MQTT.QoS),
			Logger:    log,
		}
		if influxClient != nil {
			mirrorCfg.Recorder = influxClient
		}
		m := mirror.New(mirrorCfg)
		m.Attach(sonos)
		defer m.Detach()
		log.Info("state mirror attached", "topic_prefix", cfg.MQTT.TopicPrefix)
	}

	// Log every state change for operator visibility
	unsubscribe := sonos.Subscribe(func(ev client.Event) {
		log.Debug("state change", "type", ev.Type, "objectId", ev.ObjectID)
	}, nil, nil)
	defer unsubscribe()

	// Verify backend connections are healthy
	if err := healthCheck(ctx, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, listening for events")

	// StartListening blocks until the connection drops or ctx is cancelled.
	// It fetches the initial household snapshot before reporting readiness.
	err = sonos.StartListening(ctx)
	if ctx.Err() != nil {
		log.Info("shutdown signal received, cleaning up")
		log.Info("sonosctl stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("connection to player lost: %w", err)
	}
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SONOSWS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SONOSWS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies the optional backend connections are healthy.
// Either client may be nil when its backend is disabled.
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
