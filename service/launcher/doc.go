// Package launcher runs one registered program: it spawns the child with its
// standard output redirected into a pipe, captures what fits into the
// record's output buffer, stamps timing and always reports exactly one
// Completion, whether or not the child could be started.
package launcher
