// Package infra contains technical adapters such as the MQTT record sink,
// metrics exporters and instance loaders. These packages should depend only
// on the interfaces defined in the core packages.
package infra
