package plugin

import "context"

// Source yields candidate plugin descriptors. Production sources scan
// the filesystem (see the luaplug package); tests use StaticSource.
// A source that finds nothing returns an empty slice, not an error.
type Source interface {
	// Discover returns every candidate the source knows about.
	Discover(ctx context.Context) ([]*Descriptor, error)

	// Resolve returns the candidate with the given name, or a typed
	// not-found error.
	Resolve(ctx context.Context, name string) (*Descriptor, error)
}

// StaticSource serves a fixed list of descriptors.
type StaticSource struct {
	descriptors []*Descriptor
}

// NewStaticSource creates a source over the given descriptors.
func NewStaticSource(descs ...*Descriptor) *StaticSource {
	return &StaticSource{descriptors: descs}
}

// Add appends a descriptor to the source.
func (s *StaticSource) Add(d *Descriptor) {
	s.descriptors = append(s.descriptors, d)
}

// Discover implements Source.
func (s *StaticSource) Discover(ctx context.Context) ([]*Descriptor, error) {
	out := make([]*Descriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out, nil
}

// Resolve implements Source.
func (s *StaticSource) Resolve(ctx context.Context, name string) (*Descriptor, error) {
	for _, d := range s.descriptors {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, newError(ErrNotFound, name, nil)
}
