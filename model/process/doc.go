// Package process defines the record kept for every submitted program: its
// identity and priority, the lifecycle state driven by the launcher, timing
// and the captured standard output.
package process
