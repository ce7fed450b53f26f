package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
)

const functionHostingServiceName = "lambda"

// functionHosting adapts control.FunctionHostingService to AWS Lambda.
type functionHosting struct {
	base
	client *lambda.Client
	role   string
}

var _ control.FunctionHostingService = (*functionHosting)(nil)

func newFunctionHosting(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := lambda.NewFromConfig(awsCfg, func(o *lambda.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	role := cfg.Options.Raw["lambdaExecutionRoleArn"]
	return &functionHosting{base: newBase(cfg, shared), client: client, role: role}, nil
}

func lambdaStatus(state types.State) api.FunctionStatus {
	switch state {
	case types.StatePending:
		return api.FunctionCreating
	case types.StateActive:
		return api.FunctionActive
	case types.StateInactive:
		return api.FunctionInactive
	case types.StateFailed:
		return api.FunctionFailed
	default:
		return api.FunctionActive
	}
}

func (s *functionHosting) toServerlessFunction(cfgOut *types.FunctionConfiguration) api.ServerlessFunction {
	env := map[string]string{}
	if cfgOut.Environment != nil {
		env = cfgOut.Environment.Variables
	}
	arn := aws.ToString(cfgOut.FunctionArn)
	f := api.ServerlessFunction{
		Name:        aws.ToString(cfgOut.FunctionName),
		ARN:         &arn,
		Runtime:     string(cfgOut.Runtime),
		Handler:     aws.ToString(cfgOut.Handler),
		Status:      lambdaStatus(cfgOut.State),
		MemorySize:  int(aws.ToInt32(cfgOut.MemorySize)),
		Timeout:     int(aws.ToInt32(cfgOut.Timeout)),
		Environment: env,
		CodeSize:    cfgOut.CodeSize,
		Version:     aws.ToString(cfgOut.Version),
	}
	return f
}

func (s *functionHosting) CreateFunction(ctx context.Context, p control.FunctionParams) (api.ServerlessFunction, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.ServerlessFunction, error) {
		out, err := s.client.CreateFunction(ctx, &lambda.CreateFunctionInput{
			FunctionName: aws.String(p.Name),
			Runtime:      types.Runtime(p.Runtime),
			Handler:      aws.String(p.Handler),
			Role:         aws.String(s.role),
			Code:         &types.FunctionCode{ZipFile: p.Code},
			MemorySize:   aws.Int32(int32(p.MemorySize)),
			Timeout:      aws.Int32(int32(p.Timeout)),
			Environment:  &types.Environment{Variables: p.Environment},
		})
		if err != nil {
			return api.ServerlessFunction{}, err
		}
		return s.toServerlessFunction(&types.FunctionConfiguration{
			FunctionName: out.FunctionName, FunctionArn: out.FunctionArn, Runtime: out.Runtime,
			Handler: out.Handler, State: out.State, MemorySize: out.MemorySize, Timeout: out.Timeout,
			Environment: out.Environment, CodeSize: out.CodeSize, Version: out.Version,
		}), nil
	})
}

func (s *functionHosting) GetFunction(ctx context.Context, name string) (api.ServerlessFunction, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.ServerlessFunction, error) {
		out, err := s.client.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(name)})
		if err != nil {
			return api.ServerlessFunction{}, err
		}
		return s.toServerlessFunction(out.Configuration), nil
	})
}

func (s *functionHosting) UpdateFunction(ctx context.Context, name string, p control.FunctionParams) (api.ServerlessFunction, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.ServerlessFunction, error) {
		if len(p.Code) > 0 {
			if _, err := s.client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{FunctionName: aws.String(name), ZipFile: p.Code}); err != nil {
				return api.ServerlessFunction{}, err
			}
		}
		in := &lambda.UpdateFunctionConfigurationInput{FunctionName: aws.String(name)}
		if p.Handler != "" {
			in.Handler = aws.String(p.Handler)
		}
		if p.Runtime != "" {
			in.Runtime = types.Runtime(p.Runtime)
		}
		if p.Environment != nil {
			in.Environment = &types.Environment{Variables: p.Environment}
		}
		if p.MemorySize > 0 {
			in.MemorySize = aws.Int32(int32(p.MemorySize))
		}
		if p.Timeout > 0 {
			in.Timeout = aws.Int32(int32(p.Timeout))
		}
		out, err := s.client.UpdateFunctionConfiguration(ctx, in)
		if err != nil {
			return api.ServerlessFunction{}, err
		}
		return s.toServerlessFunction(&types.FunctionConfiguration{
			FunctionName: out.FunctionName, FunctionArn: out.FunctionArn, Runtime: out.Runtime,
			Handler: out.Handler, State: out.State, MemorySize: out.MemorySize, Timeout: out.Timeout,
			Environment: out.Environment, CodeSize: out.CodeSize, Version: out.Version,
		}), nil
	})
}

func (s *functionHosting) DeleteFunction(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteFunction(ctx, &lambda.DeleteFunctionInput{FunctionName: aws.String(name)})
		return struct{}{}, err
	})
	return err
}

func (s *functionHosting) ListFunctions(ctx context.Context) ([]api.ServerlessFunction, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) ([]api.ServerlessFunction, error) {
		var out []api.ServerlessFunction
		paginator := lambda.NewListFunctionsPaginator(s.client, &lambda.ListFunctionsInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, f := range page.Functions {
				out = append(out, s.toServerlessFunction(&f))
			}
		}
		return out, nil
	})
}

func (s *functionHosting) InvokeFunction(ctx context.Context, name string, invocationType api.InvocationType, payload []byte) (api.InvokeResult, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.InvokeResult, error) {
		invType := types.InvocationTypeRequestResponse
		switch invocationType {
		case api.InvokeAsync:
			invType = types.InvocationTypeEvent
		case api.InvokeDryRun:
			invType = types.InvocationTypeDryRun
		}
		out, err := s.client.Invoke(ctx, &lambda.InvokeInput{
			FunctionName:   aws.String(name),
			InvocationType: invType,
			Payload:        payload,
			LogType:        types.LogTypeNone,
		})
		if err != nil {
			return api.InvokeResult{}, err
		}
		return api.InvokeResult{
			StatusCode:      int(out.StatusCode),
			Payload:         out.Payload,
			ExecutedVersion: out.ExecutedVersion,
			FunctionError:   out.FunctionError,
		}, nil
	})
}

func (s *functionHosting) CreateEventSourceMapping(ctx context.Context, m api.EventSourceMapping) (api.EventSourceMapping, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.EventSourceMapping, error) {
		out, err := s.client.CreateEventSourceMapping(ctx, &lambda.CreateEventSourceMappingInput{
			FunctionName:   aws.String(m.Function),
			EventSourceArn: aws.String(m.Source),
			Enabled:        aws.Bool(m.Enabled),
			BatchSize:      aws.Int32(int32(m.BatchSize)),
		})
		if err != nil {
			return api.EventSourceMapping{}, err
		}
		return api.EventSourceMapping{
			ID:        aws.ToString(out.UUID),
			Function:  m.Function,
			Source:    aws.ToString(out.EventSourceArn),
			Enabled:   out.State == nil || *out.State != "Disabled",
			BatchSize: int(aws.ToInt32(out.BatchSize)),
		}, nil
	})
}

func (s *functionHosting) UpdateEventSourceMapping(ctx context.Context, id string, enabled bool) (api.EventSourceMapping, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.EventSourceMapping, error) {
		out, err := s.client.UpdateEventSourceMapping(ctx, &lambda.UpdateEventSourceMappingInput{UUID: aws.String(id), Enabled: aws.Bool(enabled)})
		if err != nil {
			return api.EventSourceMapping{}, err
		}
		return api.EventSourceMapping{
			ID:        aws.ToString(out.UUID),
			Function:  aws.ToString(out.FunctionArn),
			Source:    aws.ToString(out.EventSourceArn),
			Enabled:   enabled,
			BatchSize: int(aws.ToInt32(out.BatchSize)),
		}, nil
	})
}

func (s *functionHosting) DeleteEventSourceMapping(ctx context.Context, id string) error {
	_, err := do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteEventSourceMapping(ctx, &lambda.DeleteEventSourceMappingInput{UUID: aws.String(id)})
		return struct{}{}, err
	})
	return err
}

func (s *functionHosting) ListEventSourceMappings(ctx context.Context, function string) ([]api.EventSourceMapping, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) ([]api.EventSourceMapping, error) {
		out, err := s.client.ListEventSourceMappings(ctx, &lambda.ListEventSourceMappingsInput{FunctionName: aws.String(function)})
		if err != nil {
			return nil, err
		}
		mappings := make([]api.EventSourceMapping, 0, len(out.EventSourceMappings))
		for _, m := range out.EventSourceMappings {
			mappings = append(mappings, api.EventSourceMapping{
				ID:        aws.ToString(m.UUID),
				Function:  function,
				Source:    aws.ToString(m.EventSourceArn),
				Enabled:   m.State == nil || *m.State != "Disabled",
				BatchSize: int(aws.ToInt32(m.BatchSize)),
			})
		}
		return mappings, nil
	})
}

func (s *functionHosting) CreateFunctionURL(ctx context.Context, function string, authType api.AuthType) (api.FunctionURLConfig, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.FunctionURLConfig, error) {
		auth := types.FunctionUrlAuthTypeNone
		if authType == api.AuthIAM {
			auth = types.FunctionUrlAuthTypeAwsIam
		}
		out, err := s.client.CreateFunctionUrlConfig(ctx, &lambda.CreateFunctionUrlConfigInput{
			FunctionName: aws.String(function),
			AuthType:     auth,
		})
		if err != nil {
			return api.FunctionURLConfig{}, err
		}
		return api.FunctionURLConfig{Function: function, URL: aws.ToString(out.FunctionUrl), AuthType: authType}, nil
	})
}

func (s *functionHosting) GetFunctionURL(ctx context.Context, function string) (api.FunctionURLConfig, error) {
	return do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (api.FunctionURLConfig, error) {
		out, err := s.client.GetFunctionUrlConfig(ctx, &lambda.GetFunctionUrlConfigInput{FunctionName: aws.String(function)})
		if err != nil {
			return api.FunctionURLConfig{}, err
		}
		authType := api.AuthNone
		if out.AuthType == types.FunctionUrlAuthTypeAwsIam {
			authType = api.AuthIAM
		}
		return api.FunctionURLConfig{Function: function, URL: aws.ToString(out.FunctionUrl), AuthType: authType}, nil
	})
}

func (s *functionHosting) DeleteFunctionURL(ctx context.Context, function string) error {
	_, err := do(ctx, s.base, functionHostingServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteFunctionUrlConfig(ctx, &lambda.DeleteFunctionUrlConfigInput{FunctionName: aws.String(function)})
		return struct{}{}, err
	})
	return err
}
