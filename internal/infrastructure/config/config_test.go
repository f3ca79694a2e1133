package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
player:
  ip: "192.168.1.50"
websocket:
  handshake_timeout: 5
  heartbeat: 30
  insecure_tls: true
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
  topic_prefix: "sonos"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Player.IP != "192.168.1.50" {
		t.Errorf("Player.IP = %q, want %q", cfg.Player.IP, "192.168.1.50")
	}

	if cfg.Websocket.HandshakeTimeout != 5 {
		t.Errorf("Websocket.HandshakeTimeout = %d, want 5", cfg.Websocket.HandshakeTimeout)
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
player:
  ip: ""
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty player.ip, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Player.IP = "192.168.1.50"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing player ip",
			mutate:  func(c *Config) { c.Player.IP = "" },
			wantErr: true,
		},
		{
			name:    "zero handshake timeout",
			mutate:  func(c *Config) { c.Websocket.HandshakeTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero heartbeat",
			mutate:  func(c *Config) { c.Websocket.Heartbeat = 0 },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name: "mqtt enabled without host",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Broker.Host = ""
			},
			wantErr: true,
		},
		{
			name: "mqtt enabled without topic prefix",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.TopicPrefix = ""
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled without token",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
				c.InfluxDB.Org = "home"
				c.InfluxDB.Bucket = "sonos"
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled fully configured",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
				c.InfluxDB.Token = "secret-token"
				c.InfluxDB.Org = "home"
				c.InfluxDB.Bucket = "sonos"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetDurations(t *testing.T) {
	cfg := &Config{
		Websocket: WebsocketConfig{
			HandshakeTimeout: 5,
			Heartbeat:        30,
		},
		InfluxDB: InfluxDBConfig{
			FlushInterval: 15,
		},
	}

	if got := cfg.GetHandshakeTimeout().Seconds(); got != 5 {
		t.Errorf("GetHandshakeTimeout() = %v, want 5", got)
	}

	if got := cfg.GetHeartbeat().Seconds(); got != 30 {
		t.Errorf("GetHeartbeat() = %v, want 30", got)
	}

	if got := cfg.GetFlushInterval().Seconds(); got != 15 {
		t.Errorf("GetFlushInterval() = %v, want 15", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("SONOSWS_PLAYER_IP", "192.168.1.99")
	t.Setenv("SONOSWS_PLAYER_API_KEY", "custom-key")
	t.Setenv("SONOSWS_MQTT_ENABLED", "true")
	t.Setenv("SONOSWS_MQTT_HOST", "mqtt.example.com")
	t.Setenv("SONOSWS_MQTT_USERNAME", "testuser")
	t.Setenv("SONOSWS_MQTT_PASSWORD", "testpass")
	t.Setenv("SONOSWS_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.Player.IP != "192.168.1.99" {
		t.Errorf("Player.IP = %q, want %q", cfg.Player.IP, "192.168.1.99")
	}

	if cfg.Player.APIKey != "custom-key" {
		t.Errorf("Player.APIKey = %q, want %q", cfg.Player.APIKey, "custom-key")
	}

	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Websocket.HandshakeTimeout != 10 {
		t.Errorf("defaultConfig Websocket.HandshakeTimeout = %d, want 10", cfg.Websocket.HandshakeTimeout)
	}

	if !cfg.Websocket.InsecureTLS {
		t.Error("defaultConfig should enable insecure TLS for local players")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.MQTT.TopicPrefix != "sonos" {
		t.Errorf("defaultConfig MQTT.TopicPrefix = %q, want %q", cfg.MQTT.TopicPrefix, "sonos")
	}
}
