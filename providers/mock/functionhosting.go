package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type functionHosting struct{ w *world }

var _ control.FunctionHostingService = (*functionHosting)(nil)

func (s *functionHosting) CreateFunction(ctx context.Context, p control.FunctionParams) (api.ServerlessFunction, error) {
	s.w.injectLatency()
	s.w.functionsMu.Lock()
	defer s.w.functionsMu.Unlock()
	if _, exists := s.w.functions[p.Name]; exists {
		return api.ServerlessFunction{}, cperrors.ConflictErr(p.Name, "function %q already exists", p.Name)
	}
	now := s.w.now()
	arn := fmt.Sprintf("arn:mock:lambda:function:%s", p.Name)
	f := &api.ServerlessFunction{
		Name:         p.Name,
		ARN:          &arn,
		Runtime:      p.Runtime,
		Handler:      p.Handler,
		Status:       api.FunctionActive,
		MemorySize:   p.MemorySize,
		Timeout:      p.Timeout,
		Environment:  copyStrMap(p.Environment),
		CodeSize:     int64(len(p.Code)),
		Version:      "1",
		Created:      now,
		LastModified: now,
	}
	s.w.functions[p.Name] = f
	cp := *f
	return cp, nil
}

func (s *functionHosting) GetFunction(ctx context.Context, name string) (api.ServerlessFunction, error) {
	s.w.functionsMu.RLock()
	defer s.w.functionsMu.RUnlock()
	f, ok := s.w.functions[name]
	if !ok {
		return api.ServerlessFunction{}, cperrors.NotFound("ServerlessFunction", name)
	}
	return *f, nil
}

func (s *functionHosting) UpdateFunction(ctx context.Context, name string, p control.FunctionParams) (api.ServerlessFunction, error) {
	s.w.functionsMu.Lock()
	defer s.w.functionsMu.Unlock()
	f, ok := s.w.functions[name]
	if !ok {
		return api.ServerlessFunction{}, cperrors.NotFound("ServerlessFunction", name)
	}
	if p.Handler != "" {
		f.Handler = p.Handler
	}
	if p.Runtime != "" {
		f.Runtime = p.Runtime
	}
	if p.Environment != nil {
		f.Environment = copyStrMap(p.Environment)
	}
	if len(p.Code) > 0 {
		f.CodeSize = int64(len(p.Code))
	}
	f.LastModified = s.w.now()
	cp := *f
	return cp, nil
}

func (s *functionHosting) DeleteFunction(ctx context.Context, name string) error {
	s.w.functionsMu.Lock()
	defer s.w.functionsMu.Unlock()
	if _, ok := s.w.functions[name]; !ok {
		return cperrors.NotFound("ServerlessFunction", name)
	}
	delete(s.w.functions, name)
	return nil
}

func (s *functionHosting) ListFunctions(ctx context.Context) ([]api.ServerlessFunction, error) {
	s.w.functionsMu.RLock()
	defer s.w.functionsMu.RUnlock()
	out := make([]api.ServerlessFunction, 0, len(s.w.functions))
	for _, f := range s.w.functions {
		out = append(out, *f)
	}
	return out, nil
}

func (s *functionHosting) InvokeFunction(ctx context.Context, name string, invocationType api.InvocationType, payload []byte) (api.InvokeResult, error) {
	s.w.injectLatency()
	f, err := s.GetFunction(ctx, name)
	if err != nil {
		return api.InvokeResult{}, err
	}
	if invocationType == api.InvokeDryRun {
		return api.InvokeResult{StatusCode: 204}, nil
	}
	version := f.Version
	result := api.InvokeResult{StatusCode: 200, Payload: payload, ExecutedVersion: &version}
	if invocationType == api.InvokeAsync {
		result.StatusCode = 202
		result.Payload = nil
	}
	return result, nil
}

func (s *functionHosting) CreateEventSourceMapping(ctx context.Context, m api.EventSourceMapping) (api.EventSourceMapping, error) {
	if _, err := s.GetFunction(ctx, m.Function); err != nil {
		return api.EventSourceMapping{}, err
	}
	m.ID = s.w.nextID("esm")
	s.w.esmMu.Lock()
	s.w.esms[m.ID] = &m
	s.w.esmMu.Unlock()
	return m, nil
}

func (s *functionHosting) UpdateEventSourceMapping(ctx context.Context, id string, enabled bool) (api.EventSourceMapping, error) {
	s.w.esmMu.Lock()
	defer s.w.esmMu.Unlock()
	m, ok := s.w.esms[id]
	if !ok {
		return api.EventSourceMapping{}, cperrors.NotFound("EventSourceMapping", id)
	}
	m.Enabled = enabled
	return *m, nil
}

func (s *functionHosting) DeleteEventSourceMapping(ctx context.Context, id string) error {
	s.w.esmMu.Lock()
	defer s.w.esmMu.Unlock()
	if _, ok := s.w.esms[id]; !ok {
		return cperrors.NotFound("EventSourceMapping", id)
	}
	delete(s.w.esms, id)
	return nil
}

func (s *functionHosting) ListEventSourceMappings(ctx context.Context, function string) ([]api.EventSourceMapping, error) {
	s.w.esmMu.RLock()
	defer s.w.esmMu.RUnlock()
	var out []api.EventSourceMapping
	for _, m := range s.w.esms {
		if m.Function == function {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *functionHosting) CreateFunctionURL(ctx context.Context, function string, authType api.AuthType) (api.FunctionURLConfig, error) {
	if _, err := s.GetFunction(ctx, function); err != nil {
		return api.FunctionURLConfig{}, err
	}
	cfg := api.FunctionURLConfig{
		Function: function,
		URL:      fmt.Sprintf("https://%s.mock-function-url.local", function),
		AuthType: authType,
	}
	s.w.funcURLsMu.Lock()
	s.w.funcURLs[function] = &cfg
	s.w.funcURLsMu.Unlock()
	return cfg, nil
}

func (s *functionHosting) GetFunctionURL(ctx context.Context, function string) (api.FunctionURLConfig, error) {
	s.w.funcURLsMu.RLock()
	defer s.w.funcURLsMu.RUnlock()
	cfg, ok := s.w.funcURLs[function]
	if !ok {
		return api.FunctionURLConfig{}, cperrors.NotFound("FunctionURLConfig", function)
	}
	return *cfg, nil
}

func (s *functionHosting) DeleteFunctionURL(ctx context.Context, function string) error {
	s.w.funcURLsMu.Lock()
	defer s.w.funcURLsMu.Unlock()
	if _, ok := s.w.funcURLs[function]; !ok {
		return cperrors.NotFound("FunctionURLConfig", function)
	}
	delete(s.w.funcURLs, function)
	return nil
}
