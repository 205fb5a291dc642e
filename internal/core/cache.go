package core

import (
	"container/list"
	"encoding/binary"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/azhar-beg/backstage/internal/object"
)

// CacheSize bounds the number of rendered YAML documents kept by
// ViewCache. It is a distinct type for Wire.
type CacheSize int

// ViewCache is a bounded LRU of rendered YAML documents keyed by an
// xxhash digest of the object and the managed-fields flag. A size of
// zero or less disables caching.
type ViewCache struct {
	size int

	mu      sync.Mutex
	order   *list.List
	entries map[uint64]*list.Element
}

type viewCacheEntry struct {
	key  uint64
	yaml string
}

// NewViewCache returns an empty cache holding at most size documents.
func NewViewCache(size CacheSize) *ViewCache {
	return &ViewCache{
		size:    int(size),
		order:   list.New(),
		entries: make(map[uint64]*list.Element),
	}
}

// YAML returns the YAML rendering of v, computing it with ToYAML on a
// miss.
func (c *ViewCache) YAML(v object.Value, includeManagedFields bool) (string, error) {
	if c == nil || c.size <= 0 {
		return ToYAML(v, includeManagedFields)
	}

	key := digest(v, includeManagedFields)
	if out, ok := c.get(key); ok {
		return out, nil
	}

	out, err := ToYAML(v, includeManagedFields)
	if err != nil {
		return "", err
	}
	c.put(key, out)
	return out, nil
}

// Len returns the number of cached documents.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ViewCache) get(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*viewCacheEntry).yaml, true
}

func (c *ViewCache) put(key uint64, yaml string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&viewCacheEntry{key: key, yaml: yaml})

	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*viewCacheEntry).key)
	}
}

// digest hashes the tree structure of v. Kinds, keys and scalar types
// are all written so that, for example, the string "1" and the integer
// 1 produce different digests.
func digest(v object.Value, includeManagedFields bool) uint64 {
	d := xxhash.New()
	if includeManagedFields {
		_, _ = d.WriteString("managed:1;")
	} else {
		_, _ = d.WriteString("managed:0;")
	}
	writeValue(d, v)
	return d.Sum64()
}

func writeValue(d *xxhash.Digest, v object.Value) {
	var n [8]byte
	switch v.Kind() {
	case object.KindScalar:
		s := v.String()
		_, _ = d.WriteString("s")
		_, _ = d.WriteString(scalarType(v.Scalar()))
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = d.Write(n[:])
		_, _ = d.WriteString(s)
	case object.KindSequence:
		_, _ = d.WriteString("[" + strconv.Itoa(v.Len()))
		for _, item := range v.Items() {
			writeValue(d, item)
		}
	case object.KindMapping:
		_, _ = d.WriteString("{" + strconv.Itoa(v.Len()))
		for _, f := range v.Fields() {
			binary.LittleEndian.PutUint64(n[:], uint64(len(f.Key)))
			_, _ = d.Write(n[:])
			_, _ = d.WriteString(f.Key)
			writeValue(d, f.Value)
		}
	default:
		_, _ = d.WriteString("~")
	}
}

func scalarType(s any) string {
	switch s.(type) {
	case string:
		return "str"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	default:
		return "?"
	}
}
