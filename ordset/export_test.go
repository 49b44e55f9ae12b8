package ordset

// CheckInvariants validates the current snapshot: balance factors, cached
// sizes, element ordering, bound. Tests call it after every mutation to
// catch structural corruption at the step that introduced it.
func (s *Set[T]) CheckInvariants() error {
	return s.check(s.root.Load())
}

// CheckInvariants validates the frozen snapshot.
func (v View[T]) CheckInvariants() error {
	return checkTree(v.root, v.less)
}
