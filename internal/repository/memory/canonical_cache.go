package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"sigma-lms-be/pkg/docimport"

	"github.com/patrickmn/go-cache"
)

// CanonicalCache keeps recently canonicalized uploads so that re-submitting
// the same file skips parsing. Entries are keyed by file name and content.
type CanonicalCache struct {
	cache *cache.Cache
}

func NewCanonicalCache(ttl time.Duration) *CanonicalCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CanonicalCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func CanonicalKey(fileName string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(fileName))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (r *CanonicalCache) Save(key string, doc docimport.CanonicalDocument) {
	r.cache.Set(key, doc, cache.DefaultExpiration)
}

func (r *CanonicalCache) Get(key string) (docimport.CanonicalDocument, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(docimport.CanonicalDocument), true
	}
	return docimport.CanonicalDocument{}, false
}

func (r *CanonicalCache) Count() int {
	return r.cache.ItemCount()
}
