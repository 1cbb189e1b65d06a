// Package validation decides whether a ticket creation request may proceed.
//
// Rules run in the order the chain was assembled and the first rule that
// marks a request invalid stops evaluation.
package validation

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Request is a ticket creation attempt as it moves through the chain.
type Request struct {
	CustomerID  string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory

	Valid  bool
	Code   string
	Reason string
}

// NewRequest returns a request that starts out valid.
func NewRequest(customerID, description string, priority domain.TicketPriority, category domain.TicketCategory) *Request {
	return &Request{
		CustomerID:  customerID,
		Description: description,
		Priority:    priority,
		Category:    category,
		Valid:       true,
	}
}

// Reject marks the request invalid with a code and a human readable reason.
func (r *Request) Reject(code, reason string) {
	r.Valid = false
	r.Code = code
	r.Reason = reason
}

// Rule inspects a request and rejects it when its condition is not met.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, req *Request)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc struct {
	RuleName string
	Fn       func(ctx context.Context, req *Request)
}

func (f RuleFunc) Name() string { return f.RuleName }

func (f RuleFunc) Evaluate(ctx context.Context, req *Request) { f.Fn(ctx, req) }

// Chain is an ordered, reusable list of rules.
type Chain struct {
	rules []Rule
}

// NewChain assembles rules in evaluation order.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: append([]Rule(nil), rules...)}
}

// Handle evaluates the rules in order and stops at the first rejection.
// A request that is already invalid is left untouched.
func (c *Chain) Handle(ctx context.Context, req *Request) {
	for _, rule := range c.rules {
		if !req.Valid {
			return
		}
		rule.Evaluate(ctx, req)
	}
}

// Rules returns the rule names in evaluation order.
func (c *Chain) Rules() []string {
	names := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		names = append(names, rule.Name())
	}
	return names
}
