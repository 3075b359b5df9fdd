package enums

import "fmt"

// ServiceType enumerates the kinds of work a client can request.
type ServiceType string

const (
	ServiceTypeCleaning      ServiceType = "cleaning"
	ServiceTypeMaintenance   ServiceType = "maintenance"
	ServiceTypeChemicalCheck ServiceType = "chemical_check"
	ServiceTypeRepair        ServiceType = "repair"
	ServiceTypeFilterChange  ServiceType = "filter_change"
	ServiceTypeDeepCleaning  ServiceType = "deep_cleaning"
	ServiceTypeInspection    ServiceType = "inspection"
)

var validServiceTypes = []ServiceType{
	ServiceTypeCleaning,
	ServiceTypeMaintenance,
	ServiceTypeChemicalCheck,
	ServiceTypeRepair,
	ServiceTypeFilterChange,
	ServiceTypeDeepCleaning,
	ServiceTypeInspection,
}

// String implements fmt.Stringer.
func (s ServiceType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceType.
func (s ServiceType) IsValid() bool {
	for _, candidate := range validServiceTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceType converts raw input into a ServiceType.
func ParseServiceType(value string) (ServiceType, error) {
	for _, candidate := range validServiceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service type %q", value)
}
