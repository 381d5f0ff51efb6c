// Copyright 2022 Molecula Corp (DBA FeatureBase). All rights reserved.

package witsml

import "context"

// Operation describes the request being served. It travels in the request
// context so the authorization gate and providers can see who is calling
// what without threading extra parameters.
type Operation struct {
	User     string
	Groups   []string
	Function Function
	Endpoint EndpointType
	Options  OptionsIn
}

type operationKey struct{}

// WithOperation returns a copy of ctx carrying op.
func WithOperation(ctx context.Context, op Operation) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFrom returns the operation stored in ctx. The zero Operation is
// returned when ctx carries none.
func OperationFrom(ctx context.Context) (Operation, bool) {
	op, ok := ctx.Value(operationKey{}).(Operation)
	return op, ok
}
