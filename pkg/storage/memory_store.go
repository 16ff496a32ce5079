package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryBlobStore keeps blobs in-process. It backs tests.
type MemoryBlobStore struct {
	mu            sync.RWMutex
	objects       map[string]memoryObject
	publicBaseURL string
}

type memoryObject struct {
	data     []byte
	uploaded time.Time
}

// NewMemoryBlobStore initializes an empty in-memory blob store.
func NewMemoryBlobStore(publicBaseURL string) *MemoryBlobStore {
	return &MemoryBlobStore{
		objects:       make(map[string]memoryObject),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (m *MemoryBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string, _ map[string]string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, uploaded: time.Now().UTC()}
	return nil
}

func (m *MemoryBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryBlobStore) List(_ context.Context, prefix string, limit int) ([]Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects := make([]Object, 0)
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		objects = append(objects, Object{
			Key:      key,
			Size:     int64(len(obj.data)),
			Uploaded: obj.uploaded,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}
	return objects, nil
}

func (m *MemoryBlobStore) PresignPut(_ context.Context, key string, expiry time.Duration) (string, error) {
	expires := time.Now().UTC().Add(expiry).Unix()
	return fmt.Sprintf("%s/%s?X-Amz-Expires=%d", m.publicBaseURL, strings.TrimLeft(key, "/"), expires), nil
}

func (m *MemoryBlobStore) PublicURL(key string) string {
	return m.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

// Has reports whether a key exists. Test helper.
func (m *MemoryBlobStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}
