package memory

import (
	"testing"
	"time"

	"sigma-lms-be/pkg/docimport"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalCache(t *testing.T) {
	c := NewCanonicalCache(time.Minute)
	key := CanonicalKey("a.txt", []byte("hello"))

	_, ok := c.Get(key)
	assert.False(t, ok)

	doc := docimport.CanonicalDocument{SuggestedTitle: "a", HTML: "<p>hello</p>"}
	c.Save(key, doc)

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, doc, got)
	assert.Equal(t, 1, c.Count())
}

func TestCanonicalKey(t *testing.T) {
	a := CanonicalKey("a.txt", []byte("hello"))
	assert.Equal(t, a, CanonicalKey("a.txt", []byte("hello")))
	assert.NotEqual(t, a, CanonicalKey("b.txt", []byte("hello")))
	assert.NotEqual(t, a, CanonicalKey("a.txt", []byte("hello!")))
	// name/content boundary must not be ambiguous
	assert.NotEqual(t, CanonicalKey("ab", []byte("c")), CanonicalKey("a", []byte("bc")))
}
