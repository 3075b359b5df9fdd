package enums

import "fmt"

// TechnicianStatus tracks a technician's availability for new jobs.
type TechnicianStatus string

const (
	TechnicianStatusAvailable TechnicianStatus = "available"
	TechnicianStatusBusy      TechnicianStatus = "busy"
)

var validTechnicianStatuses = []TechnicianStatus{
	TechnicianStatusAvailable,
	TechnicianStatusBusy,
}

// String implements fmt.Stringer.
func (t TechnicianStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TechnicianStatus.
func (t TechnicianStatus) IsValid() bool {
	for _, candidate := range validTechnicianStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTechnicianStatus converts raw input into a TechnicianStatus.
func ParseTechnicianStatus(value string) (TechnicianStatus, error) {
	for _, candidate := range validTechnicianStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid technician status %q", value)
}
