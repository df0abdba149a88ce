// Package infra contains technical adapters such as the MQTT connector,
// the model artifact loader, the elevation client and metrics exporters.
// These packages should depend only on the interfaces defined in the core
// packages.
package infra
