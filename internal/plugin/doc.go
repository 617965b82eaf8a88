// Package plugin implements the plugin registry for the document
// pipeline: installation, dependency-ordered bulk loading, enable and
// disable, hook registration, and teardown.
//
// A Registry is an explicitly constructed instance; there is no package
// singleton. Plugins arrive as Descriptors from one or more Sources
// (a static list in tests, Lua plugin directories in production). The
// registry validates each descriptor, initializes its instance, and
// registers its hook handlers with a hook.Dispatcher in initialization
// order.
//
// Bulk loading (LoadAll) is best-effort: candidates are ordered by
// dependency, per-plugin failures are reported through notifications
// and do not abort the batch, and dependencies absent from the batch
// are skipped during ordering. Single installs (Install) are strict:
// any failure is fatal for the call, a missing dependency included,
// and the registry is left unchanged.
//
// Lifecycle operations are expected to be driven sequentially by a
// single caller; the internal mutex protects reads that may run
// concurrently with hook dispatch, not interleaved mutation.
package plugin
