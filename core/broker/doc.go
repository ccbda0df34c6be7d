// Package broker provides the MQTT publisher used for post-commit event fan-out.
//
// Downstream consumers (alerting, dashboards) subscribe to the configured
// topic; the outbox dispatcher publishes one event per committed sync batch.
// Delivery is decoupled from the reconciliation core: a broker outage never
// fails a batch, it only delays dispatch.
package broker
