package enums

import "fmt"

// ConstructionStatus labels where a pool build sits in the factory-to-install
// pipeline. Transitions are unordered: real-world logistics can send a build
// back to an earlier stage, so any-to-any updates are allowed.
type ConstructionStatus string

const (
	ConstructionStatusPlanning         ConstructionStatus = "planning"
	ConstructionStatusInFactory        ConstructionStatus = "in_factory"
	ConstructionStatusManufacturing    ConstructionStatus = "manufacturing"
	ConstructionStatusQualityCheck     ConstructionStatus = "quality_check"
	ConstructionStatusReadyForDelivery ConstructionStatus = "ready_for_delivery"
	ConstructionStatusInTransit        ConstructionStatus = "in_transit"
	ConstructionStatusDelivered        ConstructionStatus = "delivered"
	ConstructionStatusInstalled        ConstructionStatus = "installed"
	ConstructionStatusOperational      ConstructionStatus = "operational"
)

var validConstructionStatuses = []ConstructionStatus{
	ConstructionStatusPlanning,
	ConstructionStatusInFactory,
	ConstructionStatusManufacturing,
	ConstructionStatusQualityCheck,
	ConstructionStatusReadyForDelivery,
	ConstructionStatusInTransit,
	ConstructionStatusDelivered,
	ConstructionStatusInstalled,
	ConstructionStatusOperational,
}

// String implements fmt.Stringer.
func (c ConstructionStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConstructionStatus.
func (c ConstructionStatus) IsValid() bool {
	for _, candidate := range validConstructionStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConstructionStatus converts raw input into a ConstructionStatus.
func ParseConstructionStatus(value string) (ConstructionStatus, error) {
	for _, candidate := range validConstructionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid construction status %q", value)
}
