package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const containerRepoServiceName = "ecr"

// containerRepo adapts control.ContainerRepoService to Amazon ECR.
type containerRepo struct {
	base
	client *ecr.Client
}

var _ control.ContainerRepoService = (*containerRepo)(nil)

func newContainerRepo(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := ecr.NewFromConfig(awsCfg, func(o *ecr.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &containerRepo{base: newBase(cfg, shared), client: client}, nil
}

func toRepository(r *types.Repository, scanOnPush bool) control.Repository {
	repo := control.Repository{
		Name:       aws.ToString(r.RepositoryName),
		URI:        aws.ToString(r.RepositoryUri),
		ScanOnPush: scanOnPush,
	}
	if r.CreatedAt != nil {
		repo.Created = r.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return repo
}

func (s *containerRepo) CreateRepository(ctx context.Context, name string) (control.Repository, error) {
	return do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) (control.Repository, error) {
		out, err := s.client.CreateRepository(ctx, &ecr.CreateRepositoryInput{RepositoryName: aws.String(name)})
		if err != nil {
			return control.Repository{}, err
		}
		scanOnPush := out.Repository.ImageScanningConfiguration != nil && out.Repository.ImageScanningConfiguration.ScanOnPush
		return toRepository(out.Repository, scanOnPush), nil
	})
}

func (s *containerRepo) describe(ctx context.Context, name string) (*types.Repository, error) {
	out, err := s.client.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{RepositoryNames: []string{name}})
	if err != nil {
		return nil, err
	}
	if len(out.Repositories) == 0 {
		return nil, cperrors.NotFound("Repository", name)
	}
	return &out.Repositories[0], nil
}

func (s *containerRepo) GetRepository(ctx context.Context, name string) (control.Repository, error) {
	return do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) (control.Repository, error) {
		r, err := s.describe(ctx, name)
		if err != nil {
			return control.Repository{}, err
		}
		scanOnPush := r.ImageScanningConfiguration != nil && r.ImageScanningConfiguration.ScanOnPush
		return toRepository(r, scanOnPush), nil
	})
}

func (s *containerRepo) DeleteRepository(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{RepositoryName: aws.String(name), Force: true})
		return struct{}{}, err
	})
	return err
}

func (s *containerRepo) ListRepositories(ctx context.Context) ([]control.Repository, error) {
	return do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) ([]control.Repository, error) {
		var out []control.Repository
		paginator := ecr.NewDescribeRepositoriesPaginator(s.client, &ecr.DescribeRepositoriesInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, r := range page.Repositories {
				scanOnPush := r.ImageScanningConfiguration != nil && r.ImageScanningConfiguration.ScanOnPush
				out = append(out, toRepository(&r, scanOnPush))
			}
		}
		return out, nil
	})
}

func (s *containerRepo) SetLifecyclePolicy(ctx context.Context, name string, policy control.LifecyclePolicy) error {
	_, err := do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.PutLifecyclePolicy(ctx, &ecr.PutLifecyclePolicyInput{
			RepositoryName:      aws.String(name),
			LifecyclePolicyText: aws.String(string(policy)),
		})
		return struct{}{}, err
	})
	return err
}

func (s *containerRepo) SetScanSettings(ctx context.Context, name string, settings control.ScanSettings) error {
	_, err := do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.PutImageScanningConfiguration(ctx, &ecr.PutImageScanningConfigurationInput{
			RepositoryName: aws.String(name),
			ImageScanningConfiguration: &types.ImageScanningConfiguration{
				ScanOnPush: settings.ScanOnPush,
			},
		})
		return struct{}{}, err
	})
	return err
}

func (s *containerRepo) SetPermissions(ctx context.Context, name string, permissions control.RepoPermissions) error {
	_, err := do(ctx, s.base, containerRepoServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.SetRepositoryPolicy(ctx, &ecr.SetRepositoryPolicyInput{
			RepositoryName: aws.String(name),
			PolicyText:     aws.String(string(permissions)),
		})
		return struct{}{}, err
	})
	return err
}

// containerRepoClient is the runtime.ContainerRepoClient data path over
// the same ECR client, reading image metadata rather than repositories.
type containerRepoClient struct {
	*containerRepo
}

var _ runtime.ContainerRepoClient = (*containerRepoClient)(nil)

func newContainerRepoClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	r, err := newContainerRepo(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &containerRepoClient{containerRepo: r.(*containerRepo)}, nil
}

func toImageInfo(repository string, d *types.ImageDetail) runtime.ImageInfo {
	info := runtime.ImageInfo{Repository: repository, Digest: aws.ToString(d.ImageDigest), SizeBytes: aws.ToInt64(d.ImageSizeInBytes)}
	if len(d.ImageTags) > 0 {
		info.Tag = d.ImageTags[0]
	}
	if d.ImagePushedAt != nil {
		info.PushedAt = d.ImagePushedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return info
}

func (c *containerRepoClient) ListImages(ctx context.Context, repository string) ([]runtime.ImageInfo, error) {
	return do(ctx, c.base, containerRepoServiceName, func(ctx context.Context) ([]runtime.ImageInfo, error) {
		var out []runtime.ImageInfo
		paginator := ecr.NewDescribeImagesPaginator(c.client, &ecr.DescribeImagesInput{RepositoryName: aws.String(repository)})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for i := range page.ImageDetails {
				out = append(out, toImageInfo(repository, &page.ImageDetails[i]))
			}
		}
		return out, nil
	})
}

func (c *containerRepoClient) GetImageByTag(ctx context.Context, repository, tag string) (runtime.ImageInfo, error) {
	return do(ctx, c.base, containerRepoServiceName, func(ctx context.Context) (runtime.ImageInfo, error) {
		out, err := c.client.DescribeImages(ctx, &ecr.DescribeImagesInput{
			RepositoryName: aws.String(repository),
			ImageIds:       []types.ImageIdentifier{{ImageTag: aws.String(tag)}},
		})
		if err != nil {
			return runtime.ImageInfo{}, err
		}
		if len(out.ImageDetails) == 0 {
			return runtime.ImageInfo{}, cperrors.NotFound("Image", tag)
		}
		return toImageInfo(repository, &out.ImageDetails[0]), nil
	})
}

func (c *containerRepoClient) DeleteImages(ctx context.Context, repository string, tags []string) error {
	_, err := do(ctx, c.base, containerRepoServiceName, func(ctx context.Context) (struct{}, error) {
		ids := make([]types.ImageIdentifier, 0, len(tags))
		for _, t := range tags {
			ids = append(ids, types.ImageIdentifier{ImageTag: aws.String(t)})
		}
		_, err := c.client.BatchDeleteImage(ctx, &ecr.BatchDeleteImageInput{RepositoryName: aws.String(repository), ImageIds: ids})
		return struct{}{}, err
	})
	return err
}

func (c *containerRepoClient) ImageExists(ctx context.Context, repository, tag string) (bool, error) {
	_, err := c.GetImageByTag(ctx, repository, tag)
	if err != nil {
		if cperrors.KindOf(err) == cperrors.ResourceNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
