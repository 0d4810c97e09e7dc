// Package mqtt provides MQTT client connectivity for BattWatch.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// BattWatch is headless: it renders no tray icon and shows no toasts
// itself. MQTT is the boundary where those sinks live. Notifications,
// tray icon/tooltip state, and the monitor's own status are published
// to battwatch/* topics; commands arrive on battwatch/command. Any
// front-end (a tray applet, a dashboard, an automation hub) subscribes
// and renders.
//
//	BattWatch ↔ MQTT Broker ↔ tray front-ends / dashboards
//
// # Security Considerations
//
//   - TLS is recommended for non-local brokers (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.Notification("battery_low")
//	err = client.Publish(topic, payload, 1, false)
package mqtt
