package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

func objectKey(bucket, key string) string { return bucket + "/" + key }

type objectStore struct{ w *world }

var _ control.ObjectStoreService = (*objectStore)(nil)

func (s *objectStore) CreateBucket(ctx context.Context, name string, opts api.BucketOptions) error {
	s.w.bucketsMu.Lock()
	defer s.w.bucketsMu.Unlock()
	if s.w.buckets[name] {
		return cperrors.ConflictErr(name, "bucket %q already exists", name)
	}
	s.w.buckets[name] = true
	return nil
}

func (s *objectStore) DeleteBucket(ctx context.Context, name string) error {
	s.w.bucketsMu.Lock()
	defer s.w.bucketsMu.Unlock()
	if !s.w.buckets[name] {
		return cperrors.NotFound("Bucket", name)
	}
	delete(s.w.buckets, name)
	for k := range s.w.objects {
		if strings.HasPrefix(k, name+"/") {
			delete(s.w.objects, k)
		}
	}
	return nil
}

func (w *world) putObject(bucket, key string, data []byte, contentType string, metadata map[string]string) (api.ObjectMetadata, error) {
	w.bucketsMu.Lock()
	defer w.bucketsMu.Unlock()
	if !w.buckets[bucket] {
		return api.ObjectMetadata{}, cperrors.NotFound("Bucket", bucket)
	}
	now := w.now()
	body := make([]byte, len(data))
	copy(body, data)
	obj := &api.ObjectData{
		ObjectInfo: api.ObjectInfo{
			Bucket:       bucket,
			Key:          key,
			Size:         int64(len(body)),
			ETag:         objectETag(body),
			LastModified: now,
		},
		Data:        body,
		ContentType: contentType,
		Metadata:    copyStrMap(metadata),
	}
	w.objects[objectKey(bucket, key)] = obj
	return api.ObjectMetadata{ETag: obj.ETag, Size: obj.Size, LastModified: obj.LastModified}, nil
}

func (w *world) getObject(bucket, key string) (api.ObjectData, error) {
	w.bucketsMu.RLock()
	defer w.bucketsMu.RUnlock()
	obj, ok := w.objects[objectKey(bucket, key)]
	if !ok {
		return api.ObjectData{}, cperrors.NotFound("Object", key)
	}
	cp := *obj
	cp.Data = make([]byte, len(obj.Data))
	copy(cp.Data, obj.Data)
	cp.Metadata = copyStrMap(obj.Metadata)
	return cp, nil
}

func (w *world) deleteObject(bucket, key string) error {
	w.bucketsMu.Lock()
	defer w.bucketsMu.Unlock()
	k := objectKey(bucket, key)
	if _, ok := w.objects[k]; !ok {
		return cperrors.NotFound("Object", key)
	}
	delete(w.objects, k)
	return nil
}

func (w *world) listObjects(bucket, prefix string) ([]api.ObjectInfo, error) {
	w.bucketsMu.RLock()
	defer w.bucketsMu.RUnlock()
	if !w.buckets[bucket] {
		return nil, cperrors.NotFound("Bucket", bucket)
	}
	var out []api.ObjectInfo
	for k, obj := range w.objects {
		if !strings.HasPrefix(k, bucket+"/") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(obj.Key, prefix) {
			continue
		}
		out = append(out, obj.ObjectInfo)
	}
	return out, nil
}

func (s *objectStore) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) (api.ObjectMetadata, error) {
	s.w.injectLatency()
	return s.w.putObject(bucket, key, data, contentType, metadata)
}

func (s *objectStore) GetObject(ctx context.Context, bucket, key string) (api.ObjectData, error) {
	s.w.injectLatency()
	return s.w.getObject(bucket, key)
}

func (s *objectStore) DeleteObject(ctx context.Context, bucket, key string) error {
	s.w.injectLatency()
	return s.w.deleteObject(bucket, key)
}

func (s *objectStore) ListObjects(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error) {
	s.w.injectLatency()
	return s.w.listObjects(bucket, prefix)
}

func (s *objectStore) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (api.ObjectMetadata, error) {
	s.w.injectLatency()
	src, err := s.w.getObject(srcBucket, srcKey)
	if err != nil {
		return api.ObjectMetadata{}, err
	}
	return s.w.putObject(dstBucket, dstKey, src.Data, src.ContentType, src.Metadata)
}

func (s *objectStore) GeneratePresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if _, err := s.w.getObject(bucket, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://mock-object-store.local/%s/%s?expires=%d", bucket, key, time.Now().Add(expires).Unix()), nil
}

func objectETag(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum64())
}
