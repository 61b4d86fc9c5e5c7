package fielddetector

import (
	"container/list"
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

type cacheEntry struct {
	key       string
	detection Detection
	expiresAt time.Time
}

// CachingDetector keeps recent detections keyed by picture content, so the
// same screenshot analysed twice (last step, then reference comparison) hits
// the service once. Errors are never cached.
type CachingDetector struct {
	next Detector
	size int
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	order    *list.List // front = most recent
	elements map[string]*list.Element
}

// NewCachingDetector wraps next with an LRU of size entries living ttl.
// A zero ttl keeps entries until evicted.
func NewCachingDetector(next Detector, size int, ttl time.Duration) *CachingDetector {
	if size < 1 {
		size = 1
	}
	return &CachingDetector{
		next:     next,
		size:     size,
		ttl:      ttl,
		now:      time.Now,
		order:    list.New(),
		elements: make(map[string]*list.Element),
	}
}

// Detect serves a cached detection or delegates to the wrapped detector.
func (c *CachingDetector) Detect(ctx context.Context, imagePath string, kind DetectionKind, resize float64) (Detection, error) {
	if resize == 0 {
		resize = 1
	}
	key, err := detectionKey(imagePath, kind, resize)
	if err != nil {
		// unreadable file: let the wrapped detector report it
		return c.next.Detect(ctx, imagePath, kind, resize)
	}

	if d, ok := c.get(key); ok {
		slog.Default().Debug("field detection cache hit", "image", imagePath, "kind", kind.String())
		return d, nil
	}

	d, err := c.next.Detect(ctx, imagePath, kind, resize)
	if err != nil {
		return Detection{}, err
	}
	c.put(key, d)
	return d, nil
}

// Len returns the number of live entries.
func (c *CachingDetector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *CachingDetector) get(key string) (Detection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.elements[key]
	if !ok {
		return Detection{}, false
	}
	e := elem.Value.(*cacheEntry)
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.order.Remove(elem)
		delete(c.elements, key)
		return Detection{}, false
	}
	c.order.MoveToFront(elem)
	return e.detection.clone(), true
}

func (c *CachingDetector) put(key string, d Detection) {
	d = d.clone()
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.elements[key]; ok {
		e := elem.Value.(*cacheEntry)
		e.detection = d
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.size {
		if back := c.order.Back(); back != nil {
			evicted := c.order.Remove(back).(*cacheEntry)
			delete(c.elements, evicted.key)
		}
	}
	c.elements[key] = c.order.PushFront(&cacheEntry{key: key, detection: d, expiresAt: expiresAt})
}

// clone copies the elements so callers and the cache never share them.
func (d Detection) clone() Detection {
	out := Detection{Fields: slices.Clone(d.Fields), Labels: slices.Clone(d.Labels)}
	for i := range out.Fields {
		out.Fields[i].Related = cloneRelated(out.Fields[i].Related)
	}
	return out
}

func cloneRelated(f *Field) *Field {
	if f == nil {
		return nil
	}
	c := *f
	c.Related = cloneRelated(f.Related)
	return &c
}

// detectionKey hashes the picture bytes together with the detection parameters.
func detectionKey(imagePath string, kind DetectionKind, resize float64) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", imagePath, err)
	}
	var params [16]byte
	binary.BigEndian.PutUint64(params[:8], uint64(kind))
	binary.BigEndian.PutUint64(params[8:], math.Float64bits(resize))
	_, _ = h.Write(params[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileChecksum returns the hex blake3 digest of a file.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
