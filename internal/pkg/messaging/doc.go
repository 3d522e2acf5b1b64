// Package messaging publishes and consumes messages behind a
// broker-agnostic interface. Use-case code depends only on the types
// here, so the Kafka and NATS drivers are interchangeable through
// configuration.
package messaging
