package snapcache

import (
	"fmt"
)

// WarmError reports the entries a Warm call could not seed. Warm is not
// transactional: entries that succeeded stay cached.
type WarmError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *WarmError) Error() string {
	if len(e.Errs) == 0 {
		return fmt.Sprintf("warm: %d/%d entries failed", e.Failed, e.Total)
	}
	return fmt.Sprintf("warm: %d/%d entries failed: first: %v", e.Failed, e.Total, e.Errs[0])
}

func (e *WarmError) Unwrap() []error {
	return e.Errs
}

// CloseError reports which resources failed to shut down. Close attempts
// every resource it owns before returning.
type CloseError struct {
	L1Err    error
	StoreErr error
}

func (e *CloseError) Error() string {
	switch {
	case e.L1Err != nil && e.StoreErr != nil:
		return fmt.Sprintf("close failed: l1=%v; store=%v", e.L1Err, e.StoreErr)
	case e.L1Err != nil:
		return fmt.Sprintf("close: l1 failed: %v", e.L1Err)
	case e.StoreErr != nil:
		return fmt.Sprintf("close: store failed: %v", e.StoreErr)
	default:
		return "close: unknown error"
	}
}

func (e *CloseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.L1Err != nil {
		errs = append(errs, e.L1Err)
	}
	if e.StoreErr != nil {
		errs = append(errs, e.StoreErr)
	}
	return errs
}
