// Package tracing wraps OpenTelemetry so that the scheduler can emit drain,
// round and launch spans without importing the SDK everywhere. Spans are
// no-ops until Init or InitWithExporter installs a provider.
package tracing
