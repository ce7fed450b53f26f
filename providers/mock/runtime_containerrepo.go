package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type containerRepoClient struct{ w *world }

var _ runtime.ContainerRepoClient = (*containerRepoClient)(nil)

func (c *containerRepoClient) ListImages(ctx context.Context, repository string) ([]runtime.ImageInfo, error) {
	c.w.reposMu.RLock()
	defer c.w.reposMu.RUnlock()
	st, ok := c.w.repos[repository]
	if !ok {
		return nil, cperrors.NotFound("Repository", repository)
	}
	out := make([]runtime.ImageInfo, 0, len(st.images))
	for _, img := range st.images {
		out = append(out, runtime.ImageInfo{Repository: repository, Tag: img.Tag, Digest: img.Digest, SizeBytes: img.SizeBytes, PushedAt: img.PushedAt})
	}
	return out, nil
}

func (c *containerRepoClient) GetImageByTag(ctx context.Context, repository, tag string) (runtime.ImageInfo, error) {
	c.w.reposMu.RLock()
	defer c.w.reposMu.RUnlock()
	st, ok := c.w.repos[repository]
	if !ok {
		return runtime.ImageInfo{}, cperrors.NotFound("Repository", repository)
	}
	for _, img := range st.images {
		if img.Tag == tag {
			return runtime.ImageInfo{Repository: repository, Tag: img.Tag, Digest: img.Digest, SizeBytes: img.SizeBytes, PushedAt: img.PushedAt}, nil
		}
	}
	return runtime.ImageInfo{}, cperrors.NotFound("Image", tag)
}

func (c *containerRepoClient) DeleteImages(ctx context.Context, repository string, tags []string) error {
	c.w.reposMu.Lock()
	defer c.w.reposMu.Unlock()
	st, ok := c.w.repos[repository]
	if !ok {
		return cperrors.NotFound("Repository", repository)
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	kept := st.images[:0]
	for _, img := range st.images {
		if !want[img.Tag] {
			kept = append(kept, img)
		}
	}
	st.images = kept
	return nil
}

func (c *containerRepoClient) ImageExists(ctx context.Context, repository, tag string) (bool, error) {
	c.w.reposMu.RLock()
	defer c.w.reposMu.RUnlock()
	st, ok := c.w.repos[repository]
	if !ok {
		return false, cperrors.NotFound("Repository", repository)
	}
	for _, img := range st.images {
		if img.Tag == tag {
			return true, nil
		}
	}
	return false, nil
}
