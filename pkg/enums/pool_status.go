package enums

import "fmt"

// PoolStatus reflects the overall water-health assessment of a pool.
type PoolStatus string

const (
	PoolStatusGood           PoolStatus = "good"
	PoolStatusNeedsAttention PoolStatus = "needs_attention"
	PoolStatusCritical       PoolStatus = "critical"
)

var validPoolStatuses = []PoolStatus{
	PoolStatusGood,
	PoolStatusNeedsAttention,
	PoolStatusCritical,
}

// String implements fmt.Stringer.
func (p PoolStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PoolStatus.
func (p PoolStatus) IsValid() bool {
	for _, candidate := range validPoolStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePoolStatus converts raw input into a PoolStatus.
func ParsePoolStatus(value string) (PoolStatus, error) {
	for _, candidate := range validPoolStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pool status %q", value)
}
