// Package mirror republishes Sonos household state onto the integration
// backends.
//
// A Mirror subscribes to a player client's state-change events and fans each
// one out:
//
//   - Group and player snapshots are published to MQTT as retained JSON, so
//     consumers always see the latest state immediately on subscribe. When a
//     group dissolves the retained message is cleared.
//   - Telemetry (volume levels, playback transitions, household size) is
//     written to InfluxDB for historical dashboards.
//
// Both backends are optional. The Mirror runs entirely on the client's
// dispatch goroutine; publishes are quick and writes are non-blocking, so it
// never stalls event delivery.
//
// Usage:
//
//	m := mirror.New(mirror.Config{
//		Publisher: mqttClient,
//		Topics:    mqttClient.Topics(),
//		QoS:       1,
//		Recorder:  influxClient,
//	})
//	m.Attach(sonosClient)
//	defer m.Detach()
package mirror
