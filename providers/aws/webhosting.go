package aws

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
)

const webHostingServiceName = "ecs"

// webHosting adapts control.WebHostingService to Amazon ECS Fargate
// services. A Deployment
// is one ECS service backed by one task definition family; minInstances/
// maxInstances have no direct ECS equivalent (that's Application
// Auto Scaling's job) so they round-trip through the service's own tags.
type webHosting struct {
	base
	client  *ecs.Client
	cluster string
}

var _ control.WebHostingService = (*webHosting)(nil)

func newWebHosting(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := ecs.NewFromConfig(awsCfg, func(o *ecs.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	cluster := cfg.Options.Raw["ecsCluster"]
	if cluster == "" {
		cluster = "lc-platform"
	}
	return &webHosting{base: newBase(cfg, shared), client: client, cluster: cluster}, nil
}

func deploymentTags(min, max int) []types.Tag {
	return []types.Tag{
		{Key: aws.String("lc-platform:minInstances"), Value: aws.String(strconv.Itoa(min))},
		{Key: aws.String("lc-platform:maxInstances"), Value: aws.String(strconv.Itoa(max))},
	}
}

func (s *webHosting) registerTaskDefinition(ctx context.Context, family, image string, cpu, memory, port int, env map[string]string) (string, error) {
	kvs := make([]types.KeyValuePair, 0, len(env))
	for k, v := range env {
		kvs = append(kvs, types.KeyValuePair{Name: aws.String(k), Value: aws.String(v)})
	}
	var portMappings []types.PortMapping
	if port > 0 {
		portMappings = []types.PortMapping{{ContainerPort: aws.Int32(int32(port))}}
	}
	out, err := s.client.RegisterTaskDefinition(ctx, &ecs.RegisterTaskDefinitionInput{
		Family:                  aws.String(family),
		NetworkMode:             types.NetworkModeAwsvpc,
		RequiresCompatibilities: []types.Compatibility{types.CompatibilityFargate},
		Cpu:                     aws.String(strconv.Itoa(cpu)),
		Memory:                  aws.String(strconv.Itoa(memory)),
		ContainerDefinitions: []types.ContainerDefinition{{
			Name:         aws.String(family),
			Image:        aws.String(image),
			Essential:    aws.Bool(true),
			Environment:  kvs,
			PortMappings: portMappings,
		}},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.TaskDefinition.TaskDefinitionArn), nil
}

func (s *webHosting) DeployApplication(ctx context.Context, p control.DeployParams) (api.Deployment, error) {
	if p.MinInstances > p.MaxInstances {
		return api.Deployment{}, cperrors.ValidationError("deployment", "minInstances (%d) must be <= maxInstances (%d)", p.MinInstances, p.MaxInstances)
	}
	return do(ctx, s.base, webHostingServiceName, func(ctx context.Context) (api.Deployment, error) {
		taskDefArn, err := s.registerTaskDefinition(ctx, p.Name, p.Image, p.CPU, p.Memory, p.Port, p.Environment)
		if err != nil {
			return api.Deployment{}, err
		}
		out, err := s.client.CreateService(ctx, &ecs.CreateServiceInput{
			Cluster:        aws.String(s.cluster),
			ServiceName:    aws.String(p.Name),
			TaskDefinition: aws.String(taskDefArn),
			DesiredCount:   aws.Int32(int32(p.MinInstances)),
			LaunchType:     types.LaunchTypeFargate,
			Tags:           deploymentTags(p.MinInstances, p.MaxInstances),
		})
		if err != nil {
			return api.Deployment{}, err
		}
		svc := out.Service
		return api.Deployment{
			ID:               aws.ToString(svc.ServiceName),
			Name:             p.Name,
			URL:              fmt.Sprintf("https://%s.%s.lc-platform.aws", p.Name, s.cfg.Region),
			Status:           api.DeploymentRunning,
			Image:            p.Image,
			CPU:              p.CPU,
			Memory:           p.Memory,
			MinInstances:     p.MinInstances,
			MaxInstances:     p.MaxInstances,
			CurrentInstances: int(svc.DesiredCount),
			Environment:      p.Environment,
		}, nil
	})
}

func (s *webHosting) describe(ctx context.Context, id string) (*types.Service, error) {
	out, err := s.client.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(s.cluster),
		Services: []string{id},
		Include:  []types.ServiceField{types.ServiceFieldTags},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Failures) > 0 && len(out.Services) == 0 {
		return nil, cperrors.NotFound("Deployment", id)
	}
	if len(out.Services) == 0 {
		return nil, cperrors.NotFound("Deployment", id)
	}
	return &out.Services[0], nil
}

func minMaxFromTags(tags []types.Tag) (int, int) {
	var min, max int
	for _, t := range tags {
		switch aws.ToString(t.Key) {
		case "lc-platform:minInstances":
			min, _ = strconv.Atoi(aws.ToString(t.Value))
		case "lc-platform:maxInstances":
			max, _ = strconv.Atoi(aws.ToString(t.Value))
		}
	}
	return min, max
}

func ecsStatus(svc *types.Service) api.DeploymentStatus {
	if len(svc.Deployments) > 0 {
		switch svc.Deployments[0].RolloutState {
		case types.DeploymentRolloutStateInProgress:
			return api.DeploymentUpdating
		case types.DeploymentRolloutStateFailed:
			return api.DeploymentFailed
		}
	}
	if aws.ToString(svc.Status) == "DRAINING" || aws.ToString(svc.Status) == "INACTIVE" {
		return api.DeploymentStopped
	}
	return api.DeploymentRunning
}

func (s *webHosting) GetDeployment(ctx context.Context, id string) (api.Deployment, error) {
	return do(ctx, s.base, webHostingServiceName, func(ctx context.Context) (api.Deployment, error) {
		svc, err := s.describe(ctx, id)
		if err != nil {
			return api.Deployment{}, err
		}
		min, max := minMaxFromTags(svc.Tags)
		return api.Deployment{
			ID:               aws.ToString(svc.ServiceName),
			Name:             aws.ToString(svc.ServiceName),
			Status:           ecsStatus(svc),
			MinInstances:     min,
			MaxInstances:     max,
			CurrentInstances: int(svc.DesiredCount),
		}, nil
	})
}

func (s *webHosting) UpdateApplication(ctx context.Context, id string, p control.UpdateParams) (api.Deployment, error) {
	return do(ctx, s.base, webHostingServiceName, func(ctx context.Context) (api.Deployment, error) {
		svc, err := s.describe(ctx, id)
		if err != nil {
			return api.Deployment{}, err
		}
		in := &ecs.UpdateServiceInput{Cluster: aws.String(s.cluster), Service: aws.String(id)}
		if p.Image != nil {
			family := aws.ToString(svc.ServiceName)
			min, max := minMaxFromTags(svc.Tags)
			taskDefArn, err := s.registerTaskDefinition(ctx, family, *p.Image, 0, 0, 0, p.Environment)
			if err != nil {
				return api.Deployment{}, err
			}
			in.TaskDefinition = aws.String(taskDefArn)
			_, err = s.client.UpdateService(ctx, in)
			if err != nil {
				return api.Deployment{}, err
			}
			return api.Deployment{ID: id, Name: id, Status: api.DeploymentRunning, Image: *p.Image, Environment: p.Environment, MinInstances: min, MaxInstances: max}, nil
		}
		return s.GetDeployment(ctx, id)
	})
}

func (s *webHosting) DeleteApplication(ctx context.Context, id string) error {
	_, err := do(ctx, s.base, webHostingServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteService(ctx, &ecs.DeleteServiceInput{Cluster: aws.String(s.cluster), Service: aws.String(id), Force: aws.Bool(true)})
		return struct{}{}, err
	})
	return err
}

func (s *webHosting) GetApplicationURL(ctx context.Context, id string) (string, error) {
	d, err := s.GetDeployment(ctx, id)
	if err != nil {
		return "", err
	}
	if d.URL == "" {
		return fmt.Sprintf("https://%s.%s.lc-platform.aws", id, s.cfg.Region), nil
	}
	return d.URL, nil
}

func (s *webHosting) ScaleApplication(ctx context.Context, id string, p control.ScaleParams) error {
	if p.MinInstances > p.MaxInstances {
		return cperrors.ValidationError("deployment", "minInstances (%d) must be <= maxInstances (%d)", p.MinInstances, p.MaxInstances)
	}
	_, err := do(ctx, s.base, webHostingServiceName, func(ctx context.Context) (struct{}, error) {
		svc, err := s.describe(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.UpdateService(ctx, &ecs.UpdateServiceInput{
			Cluster:      aws.String(s.cluster),
			Service:      aws.String(id),
			DesiredCount: aws.Int32(int32(p.MinInstances)),
		})
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.TagResource(ctx, &ecs.TagResourceInput{
			ResourceArn: svc.ServiceArn,
			Tags:        deploymentTags(p.MinInstances, p.MaxInstances),
		})
		return struct{}{}, err
	})
	return err
}
