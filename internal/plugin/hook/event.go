package hook

// Event names a lifecycle extension point in the document pipeline.
type Event string

// The recognized lifecycle events. Hook registrations outside this set
// are rejected during plugin validation.
const (
	// BeforeGeneration fires before a document draft is requested from
	// the provider. Handlers receive the generation request.
	BeforeGeneration Event = "generation.before"

	// AfterGeneration fires once a draft has been produced.
	AfterGeneration Event = "generation.after"

	// BeforeValidation fires before draft validation runs.
	BeforeValidation Event = "validation.before"

	// AfterValidation fires with the validation report.
	AfterValidation Event = "validation.after"

	// BeforePublish fires before a document is written out. A critical
	// handler error here aborts the publish.
	BeforePublish Event = "publish.before"

	// AfterPublish fires after the document has been written.
	AfterPublish Event = "publish.after"
)

// events lists the recognized events in pipeline order.
var events = []Event{
	BeforeGeneration,
	AfterGeneration,
	BeforeValidation,
	AfterValidation,
	BeforePublish,
	AfterPublish,
}

// recognized is the closed membership set.
var recognized = func() map[Event]bool {
	m := make(map[Event]bool, len(events))
	for _, e := range events {
		m[e] = true
	}
	return m
}()

// Recognized reports whether e is a member of the lifecycle enumeration.
func Recognized(e Event) bool {
	return recognized[e]
}

// Events returns the recognized lifecycle events in pipeline order.
func Events() []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// String returns the event name.
func (e Event) String() string {
	return string(e)
}
