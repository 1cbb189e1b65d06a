package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates ticket urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// TicketCategory classifies what the ticket is about.
type TicketCategory string

const (
	TicketCategoryTechnical      TicketCategory = "TECHNICAL"
	TicketCategoryBilling        TicketCategory = "BILLING"
	TicketCategoryGeneral        TicketCategory = "GENERAL"
	TicketCategoryComplaint      TicketCategory = "COMPLAINT"
	TicketCategoryFeatureRequest TicketCategory = "FEATURE_REQUEST"
)

var (
	ticketPriorities = []TicketPriority{
		TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical,
	}
	ticketCategories = []TicketCategory{
		TicketCategoryTechnical, TicketCategoryBilling, TicketCategoryGeneral,
		TicketCategoryComplaint, TicketCategoryFeatureRequest,
	}
)

// Ticket is the aggregate for support requests.
//
// Status is owned by the lifecycle state machine once the ticket exists;
// callers never assign it directly.
type Ticket struct {
	ID          string         `json:"id"`
	CustomerID  string         `json:"customer_id"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Category    TicketCategory `json:"category"`
	AssignedTo  string         `json:"assigned_to,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Tags        TagSet         `json:"tags"`
}

// Clone returns a copy that shares no mutable state with t.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Tags = t.Tags.Clone()
	return &cp
}

// TagSet is an unordered set of ticket tags.
type TagSet map[string]struct{}

// NewTagSet builds a set from the given tags, dropping blanks and duplicates.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		set.Add(tag)
	}
	return set
}

// Add inserts a tag. Blank tags are ignored.
func (s TagSet) Add(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	s[tag] = struct{}{}
}

// Has reports whether tag is present.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// List returns the tags sorted alphabetically.
func (s TagSet) List() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Clone copies the set.
func (s TagSet) Clone() TagSet {
	if s == nil {
		return nil
	}
	cp := make(TagSet, len(s))
	for tag := range s {
		cp[tag] = struct{}{}
	}
	return cp
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}

// ParseTicketPriority accepts a priority name in any letter case.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	candidate := TicketPriority(strings.ToUpper(strings.TrimSpace(raw)))
	for _, p := range ticketPriorities {
		if p == candidate {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown ticket priority %q", raw)
}

// ParseTicketCategory accepts a category name in any letter case; dashes and
// spaces are read as underscores.
func ParseTicketCategory(raw string) (TicketCategory, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	candidate := TicketCategory(normalized)
	for _, c := range ticketCategories {
		if c == candidate {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown ticket category %q", raw)
}

// IsValid reports whether p is one of the known priorities.
func (p TicketPriority) IsValid() bool {
	for _, known := range ticketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// IsValid reports whether c is one of the known categories.
func (c TicketCategory) IsValid() bool {
	for _, known := range ticketCategories {
		if c == known {
			return true
		}
	}
	return false
}

// TicketPriorities lists every priority from lowest to highest.
func TicketPriorities() []TicketPriority {
	return append([]TicketPriority(nil), ticketPriorities...)
}

// TicketCategories lists every category.
func TicketCategories() []TicketCategory {
	return append([]TicketCategory(nil), ticketCategories...)
}
