package platter

// WalkFunc is called once per yielded Entry by Walk. Returning a
// non-nil error stops the walk and Walk returns that error.
type WalkFunc func(Entry, error) error

// Walk drives a Scanner configured with order and roots to exhaustion,
// invoking fn for every yielded item. It is pure sugar over repeated
// calls to Next (SPEC_FULL.md supplement 2); it adds no new traversal
// semantics.
func Walk(roots []string, order Order, fn WalkFunc) error {
	s := New()
	s.SetOrder(order)
	for _, root := range roots {
		if err := s.AddRoot(root); err != nil {
			if stopErr := fn(Entry{}, err); stopErr != nil {
				return stopErr
			}
		}
	}

	for {
		entry, err, ok := s.Next()
		if !ok {
			return nil
		}
		if stopErr := fn(entry, err); stopErr != nil {
			return stopErr
		}
	}
}
