package domain

import (
	"strings"
	"time"
)

const baseTicketTag = "new"

var categoryTags = map[TicketCategory]string{
	TicketCategoryTechnical:      "technical-support",
	TicketCategoryBilling:        "finance",
	TicketCategoryComplaint:      "urgent",
	TicketCategoryFeatureRequest: "product",
}

var priorityAgents = map[TicketPriority]string{
	TicketPriorityCritical: "Senior-Agent-001",
	TicketPriorityHigh:     "Agent-002",
}

// TicketDraft carries the admitted fields of a creation request.
type TicketDraft struct {
	ID          string
	CustomerID  string
	Description string
	Priority    TicketPriority
	Category    TicketCategory
}

// NewTicket builds a ticket in the OPEN state, tagged for its category and
// auto-assigned according to its priority.
func NewTicket(draft TicketDraft, createdAt time.Time) *Ticket {
	priority := draft.Priority
	if priority == "" {
		priority = TicketPriorityMedium
	}
	category := draft.Category
	if category == "" {
		category = TicketCategoryGeneral
	}
	return &Ticket{
		ID:          draft.ID,
		CustomerID:  draft.CustomerID,
		Description: strings.TrimSpace(draft.Description),
		Status:      TicketStatusOpen,
		Priority:    priority,
		Category:    category,
		AssignedTo:  AutoAssignedAgent(priority),
		CreatedAt:   createdAt,
		Tags:        NewTagSet(DefaultTags(category)...),
	}
}

// DefaultTags returns the tags every new ticket of the category receives.
func DefaultTags(category TicketCategory) []string {
	tags := []string{baseTicketTag}
	if tag, ok := categoryTags[category]; ok {
		tags = append(tags, tag)
	}
	return tags
}

// AutoAssignedAgent returns the agent picked for a priority, or "" when the
// ticket stays unassigned.
func AutoAssignedAgent(priority TicketPriority) string {
	return priorityAgents[priority]
}
