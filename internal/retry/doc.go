// Package retry provides a bounded fixed-interval polling policy.
//
// Policy replaces inlined sleep-and-count loops with one value describing the
// interval between attempts, the attempt ceiling, and optional jitter. It is
// built on k8s.io/apimachinery's wait package, which owns the loop mechanics
// and the distinction between "condition never became true" and "caller gave
// up" that the fail-open readiness gate depends on.
package retry
