// Package progress keeps the aggregated counters of one drain. The tracker
// travels in the context so the dispatcher and every launcher can update it
// without a global registry.
package progress
