// Package scheduler runs external programs in priority order.
//
// Programs are submitted with a priority from 1 (highest) to 4 (lowest) and
// held in a bounded registry until Drain is called. Drain dispatches them in
// rounds: the ready queue is sorted by priority, up to Concurrency programs
// are launched at once, the round waits for all of them and then one entry is
// removed from the front of the queue. Every program's pid, timing and
// standard output (truncated to a fixed size) are recorded for reporting.
//
//	srv, _ := scheduler.New(scheduler.WithConfig(cfg))
//	_, _ = srv.Submit(ctx, "date", 2)
//	summary, _ := srv.Drain(ctx)
//	fmt.Print(srv.Report())
package scheduler
