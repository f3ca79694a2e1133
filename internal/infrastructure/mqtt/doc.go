// Package mqtt provides MQTT publishing for sonosws.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// sonosws publishes Sonos state changes onto the smart-home MQTT bus so
// other services (dashboards, automations) can consume them without
// speaking the Sonos protocol themselves. The flow is one-way: sonosws
// never subscribes.
//
//	Sonos player ↔ sonosws → MQTT Broker → consumers
//
// # Security Considerations
//
//   - TLS is recommended for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := client.Topics().PlayerVolume("RINCON_123")
//	client.Publish(topic, []byte(`{"volume":25,"muted":false}`), 1, true)
package mqtt
