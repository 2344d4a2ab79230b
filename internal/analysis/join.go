package analysis

import "golang.org/x/sync/errgroup"

// slot holds one task's outcome. Each task writes only its own slot.
type slot[T any] struct {
	val T
	err error
}

// spawn runs fn on g and records its outcome in s. The task always reports
// success to the group, so one failure never cancels or hides its siblings;
// callers inspect each slot after Wait.
func spawn[T any](g *errgroup.Group, s *slot[T], fn func() (T, error)) {
	g.Go(func() error {
		s.val, s.err = fn()
		return nil
	})
}

// newGroup returns a join group with at most limit tasks in flight
// (no limit when limit <= 0).
func newGroup(limit int) *errgroup.Group {
	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}
	return g
}
