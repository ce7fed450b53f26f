package mock

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"reflect"
	"strconv"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type documentStore struct{ w *world }

var _ control.DocumentStoreService = (*documentStore)(nil)

// etagOf derives a stable ETag from a document's content so two PutDocument
// calls with identical data produce the same ETag, and any change to data
// changes it.
func etagOf(data map[string]any) string {
	raw, _ := json.Marshal(data)
	h := fnv.New64a()
	h.Write(raw)
	return strconv.FormatUint(h.Sum64(), 16)
}

func (s *documentStore) CreateCollection(ctx context.Context, name string) error {
	s.w.docsMu.Lock()
	defer s.w.docsMu.Unlock()
	if _, exists := s.w.docs[name]; exists {
		return cperrors.ConflictErr(name, "collection %q already exists", name)
	}
	s.w.docs[name] = make(map[string]*api.Document)
	return nil
}

func (s *documentStore) DeleteCollection(ctx context.Context, name string) error {
	s.w.docsMu.Lock()
	defer s.w.docsMu.Unlock()
	if _, ok := s.w.docs[name]; !ok {
		return cperrors.NotFound("Collection", name)
	}
	delete(s.w.docs, name)
	return nil
}

func (w *world) getDocument(collection, key string) (api.Document, error) {
	w.docsMu.RLock()
	defer w.docsMu.RUnlock()
	coll, ok := w.docs[collection]
	if !ok {
		return api.Document{}, cperrors.NotFound("Collection", collection)
	}
	d, ok := coll[key]
	if !ok {
		return api.Document{}, cperrors.NotFound("Document", key)
	}
	return *d, nil
}

func (w *world) putDocument(collection, key string, data map[string]any) (api.Document, error) {
	w.docsMu.Lock()
	defer w.docsMu.Unlock()
	coll, ok := w.docs[collection]
	if !ok {
		return api.Document{}, cperrors.NotFound("Collection", collection)
	}
	d := &api.Document{Collection: collection, Key: key, Data: copyAnyMap(data), ETag: etagOf(data)}
	coll[key] = d
	return *d, nil
}

func (w *world) updateDocument(collection, key string, data map[string]any, expectedETag string) (api.Document, error) {
	w.docsMu.Lock()
	defer w.docsMu.Unlock()
	coll, ok := w.docs[collection]
	if !ok {
		return api.Document{}, cperrors.NotFound("Collection", collection)
	}
	d, ok := coll[key]
	if !ok {
		return api.Document{}, cperrors.NotFound("Document", key)
	}
	if expectedETag != "" && expectedETag != d.ETag {
		return api.Document{}, cperrors.ConflictErr(key, "document %q has ETag %q, expected %q", key, d.ETag, expectedETag)
	}
	d.Data = copyAnyMap(data)
	d.ETag = etagOf(data)
	return *d, nil
}

func (w *world) deleteDocument(collection, key string) error {
	w.docsMu.Lock()
	defer w.docsMu.Unlock()
	coll, ok := w.docs[collection]
	if !ok {
		return cperrors.NotFound("Collection", collection)
	}
	if _, ok := coll[key]; !ok {
		return cperrors.NotFound("Document", key)
	}
	delete(coll, key)
	return nil
}

// queryDocuments returns every document in collection whose Data is a
// superset of partial (top-level key/value match, same rule as event
// pattern matching in eventbus.go).
func (w *world) queryDocuments(collection string, partial map[string]any) ([]api.Document, error) {
	w.docsMu.RLock()
	defer w.docsMu.RUnlock()
	coll, ok := w.docs[collection]
	if !ok {
		return nil, cperrors.NotFound("Collection", collection)
	}
	var out []api.Document
	for _, d := range coll {
		match := true
		for k, v := range partial {
			if dv, ok := d.Data[k]; !ok || !reflect.DeepEqual(dv, v) {
				match = false
				break
			}
		}
		if match {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *documentStore) GetDocument(ctx context.Context, collection, key string) (api.Document, error) {
	s.w.injectLatency()
	return s.w.getDocument(collection, key)
}

func (s *documentStore) PutDocument(ctx context.Context, collection, key string, data map[string]any) (api.Document, error) {
	s.w.injectLatency()
	return s.w.putDocument(collection, key, data)
}

func (s *documentStore) UpdateDocument(ctx context.Context, collection, key string, data map[string]any, expectedETag string) (api.Document, error) {
	s.w.injectLatency()
	return s.w.updateDocument(collection, key, data, expectedETag)
}

func (s *documentStore) DeleteDocument(ctx context.Context, collection, key string) error {
	s.w.injectLatency()
	return s.w.deleteDocument(collection, key)
}

func (s *documentStore) Query(ctx context.Context, collection string, partial map[string]any) ([]api.Document, error) {
	s.w.injectLatency()
	return s.w.queryDocuments(collection, partial)
}
