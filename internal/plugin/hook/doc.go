// Package hook defines the lifecycle event enumeration and the dispatcher
// that fires events into plugin handlers.
//
// Events form a closed set covering the document pipeline: generation,
// validation, and publish, each with a before and after moment. Handlers
// run in registration order, which equals plugin initialization order.
// A handler failure is isolated and reported unless the handler marks it
// critical, in which case dispatch halts immediately.
//
// Example usage:
//
//	d := hook.NewDispatcher()
//	d.Register("outline-check", hook.BeforeGeneration, checkOutline)
//	results, err := d.Fire(ctx, hook.BeforeGeneration, req)
package hook
