// Package validate runs the ordered business-rule checks that guard every
// store operation. The first failing rule ends validation and its code is
// the operation's result.
package validate

import (
	"context"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/logger"
)

// Rule is one named check.
type Rule struct {
	Name  string
	Check func(ctx context.Context) error
}

// Outcome is the terminal result of a validation run.
type Outcome struct {
	Code witsml.ErrorCode
	Err  error
	// Rule names the rule that failed.
	Rule string
}

// IsSuccess reports whether every rule passed.
func (o Outcome) IsSuccess() bool { return o.Err == nil }

// Validator is an ordered, short-circuiting list of rules for one function.
type Validator struct {
	function witsml.Function
	rules    []Rule
	logger   logger.Logger
}

// ValidatorOption is a functional option for New.
type ValidatorOption func(*Validator)

func OptValidatorLogger(l logger.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = l
	}
}

// New returns an empty validator for fn.
func New(fn witsml.Function, opts ...ValidatorOption) *Validator {
	v := &Validator{
		function: fn,
		logger:   logger.NopLogger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Add appends rules; they run in the order added.
func (v *Validator) Add(rules ...Rule) *Validator {
	v.rules = append(v.rules, rules...)
	return v
}

// Len returns the number of rules.
func (v *Validator) Len() int { return len(v.rules) }

// Validate runs the rules until one fails.
func (v *Validator) Validate(ctx context.Context) Outcome {
	for _, rule := range v.rules {
		if err := rule.Check(ctx); err != nil {
			code := witsml.ErrorCodeOf(err)
			v.logger.Debugf("%s validation failed at %s: %d %v", v.function, rule.Name, code, err)
			return Outcome{Code: code, Err: err, Rule: rule.Name}
		}
	}
	return Outcome{Code: witsml.ErrorCodeSuccess}
}

// Err runs the rules and returns the failing rule's error, if any.
func (v *Validator) Err(ctx context.Context) error {
	return v.Validate(ctx).Err
}
