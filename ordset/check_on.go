//go:build ordsetcheck

package ordset

// Build with -tags ordsetcheck to validate every snapshot before it is
// published: balance, size bookkeeping, ordering, bound. Writes slow down to
// O(n); reads are unaffected.
const checkEnabled = true
