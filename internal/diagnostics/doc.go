// Package diagnostics measures how long a piece of code runs and how much
// memory it allocates, and logs the result.
//
// Both measurements are scope guards: start one at the top of a scope and
// defer its Stop, so that error returns and panics are measured as well.
//
//	t := diagnostics.StartTimer(log, "main")
//	defer t.Stop()
//
// [MeasureTime], [TraceMemory], [Timed] and [Traced] wrap a function call in
// the matching guard and return the function's results unchanged.
//
// Memory tracing reads process-wide runtime statistics, so only one tracer
// may be active at a time; see [ErrTracerActive].
package diagnostics
