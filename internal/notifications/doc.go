// Package notifications delivers sync outcomes via ntfy.
//
// The implementation publishes to the topic configured in config.toml and
// degrades to a no-op when notifications are disabled, so the orchestrator can
// report completed syncs and fatal errors without HTTP glue of its own.
package notifications
