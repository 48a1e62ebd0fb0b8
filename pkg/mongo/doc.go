// Package mongo manages the process-wide MongoDB connection: env-driven
// configuration, startup retry with bounded connect/socket timeouts, a
// health check, and a single-flight Provider so the pooled client is
// established exactly once no matter how many request handlers race on
// first use.
package mongo
