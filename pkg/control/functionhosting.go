package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// FunctionParams is createFunction/updateFunction's input.
type FunctionParams struct {
	Name        string
	Runtime     string
	Handler     string
	Code        []byte
	MemorySize  int
	Timeout     int
	Environment map[string]string
	Tags        map[string]string
}

// FunctionHostingService manages serverless functions.
type FunctionHostingService interface {
	CreateFunction(ctx context.Context, params FunctionParams) (api.ServerlessFunction, error)
	GetFunction(ctx context.Context, name string) (api.ServerlessFunction, error)
	UpdateFunction(ctx context.Context, name string, params FunctionParams) (api.ServerlessFunction, error)
	DeleteFunction(ctx context.Context, name string) error
	ListFunctions(ctx context.Context) ([]api.ServerlessFunction, error)

	InvokeFunction(ctx context.Context, name string, invocationType api.InvocationType, payload []byte) (api.InvokeResult, error)

	CreateEventSourceMapping(ctx context.Context, m api.EventSourceMapping) (api.EventSourceMapping, error)
	UpdateEventSourceMapping(ctx context.Context, id string, enabled bool) (api.EventSourceMapping, error)
	DeleteEventSourceMapping(ctx context.Context, id string) error
	ListEventSourceMappings(ctx context.Context, function string) ([]api.EventSourceMapping, error)

	CreateFunctionURL(ctx context.Context, function string, authType api.AuthType) (api.FunctionURLConfig, error)
	GetFunctionURL(ctx context.Context, function string) (api.FunctionURLConfig, error)
	DeleteFunctionURL(ctx context.Context, function string) error
}
