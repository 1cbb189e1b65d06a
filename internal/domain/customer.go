package domain

import (
	"fmt"
	"strings"
)

// CustomerType tiers customers for service level.
type CustomerType string

const (
	CustomerTypeRegular CustomerType = "REGULAR"
	CustomerTypePremium CustomerType = "PREMIUM"
	CustomerTypeVIP     CustomerType = "VIP"
)

// Customer is the domain model for people who open tickets.
type Customer struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Phone string       `json:"phone"`
	Type  CustomerType `json:"type"`
}

// DisplayPrefix is prepended to the registered name of tiered customers.
func (t CustomerType) DisplayPrefix() string {
	switch t {
	case CustomerTypePremium:
		return "[PREMIUM] "
	case CustomerTypeVIP:
		return "[VIP] "
	default:
		return ""
	}
}

// Label is the human readable tier name.
func (t CustomerType) Label() string {
	switch t {
	case CustomerTypePremium:
		return "Premium"
	case CustomerTypeVIP:
		return "VIP"
	default:
		return "Regular"
	}
}

// ParseCustomerType accepts a tier name in any letter case. Empty input maps
// to REGULAR.
func ParseCustomerType(raw string) (CustomerType, error) {
	switch CustomerType(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", CustomerTypeRegular:
		return CustomerTypeRegular, nil
	case CustomerTypePremium:
		return CustomerTypePremium, nil
	case CustomerTypeVIP:
		return CustomerTypeVIP, nil
	}
	return "", fmt.Errorf("unknown customer type %q", raw)
}
