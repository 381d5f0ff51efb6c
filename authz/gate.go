package authz

import (
	"context"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/logger"
)

// Rule is an authorization decision source. decided is false when the rule
// has no opinion about op.
type Rule interface {
	Authorize(ctx context.Context, op witsml.Operation) (allowed, decided bool)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(ctx context.Context, op witsml.Operation) (allowed, decided bool)

func (f RuleFunc) Authorize(ctx context.Context, op witsml.Operation) (bool, bool) {
	return f(ctx, op)
}

// UserRule decides for a fixed set of users and abstains for everyone else.
type UserRule map[string]Permission

func (u UserRule) Authorize(_ context.Context, op witsml.Operation) (bool, bool) {
	perm, ok := u[op.User]
	if !ok {
		return false, false
	}
	return perm.Satisfies(Required(op.Function)), true
}

// Gate checks every operation against the registered rules. With
// authorization disabled every check passes. Otherwise the first rule that
// decides wins and an operation no rule decides is refused.
type Gate struct {
	enabled bool
	rules   []Rule
	logger  logger.Logger
}

// GateOption is a functional option for NewGate.
type GateOption func(*Gate)

func OptGateLogger(l logger.Logger) GateOption {
	return func(g *Gate) {
		g.logger = l
	}
}

func OptGateRules(rules ...Rule) GateOption {
	return func(g *Gate) {
		g.rules = append(g.rules, rules...)
	}
}

func NewGate(enabled bool, opts ...GateOption) *Gate {
	g := &Gate{
		enabled: enabled,
		logger:  logger.NopLogger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether authorization is enforced.
func (g *Gate) Enabled() bool { return g.enabled }

// IsAuthorized reports whether the operation in ctx may run on endpoint.
func (g *Gate) IsAuthorized(ctx context.Context, endpoint witsml.EndpointType) bool {
	if !g.enabled {
		return true
	}
	op, _ := witsml.OperationFrom(ctx)
	op.Endpoint = endpoint
	for _, rule := range g.rules {
		if allowed, decided := rule.Authorize(ctx, op); decided {
			return allowed
		}
	}
	return false
}

// CheckAccess fails with ErrInsufficientOperationRights when the operation
// in ctx may not run on endpoint.
func (g *Gate) CheckAccess(ctx context.Context, endpoint witsml.EndpointType) error {
	if g.IsAuthorized(ctx, endpoint) {
		return nil
	}
	op, _ := witsml.OperationFrom(ctx)
	g.logger.Warnf("denied %s on %s endpoint for user '%s'", op.Function, endpoint, op.User)
	return witsml.NewErrInsufficientOperationRights(op.User, op.Function, endpoint)
}

// CheckSoapAccess is CheckAccess for the SOAP endpoint.
func (g *Gate) CheckSoapAccess(ctx context.Context) error {
	return g.CheckAccess(ctx, witsml.EndpointSoap)
}

// CheckEtpAccess is CheckAccess for the ETP endpoint.
func (g *Gate) CheckEtpAccess(ctx context.Context) error {
	return g.CheckAccess(ctx, witsml.EndpointEtp)
}
