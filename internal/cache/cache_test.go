package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryKey_OrderIndependent(t *testing.T) {
	a := QueryKey(NamespacePosts, 3, map[string]string{"page": "1", "keyword": "studio"})
	b := QueryKey(NamespacePosts, 3, map[string]string{"keyword": "studio", "page": "1"})

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "rental:posts:v3:"), a)
}

func TestQueryKey_VersionChangesKey(t *testing.T) {
	params := map[string]string{"page": "1"}
	assert.NotEqual(t, QueryKey(NamespacePosts, 1, params), QueryKey(NamespacePosts, 2, params))
	assert.NotEqual(t, QueryKey(NamespacePosts, 1, params), QueryKey(NamespaceTerms, 1, params))
}

func TestNew_WithoutAddrIsNoop(t *testing.T) {
	c, err := New(context.Background(), Config{})
	require.NoError(t, err)

	_, ok := c.(NoopCache)
	require.True(t, ok)

	require.NoError(t, c.Set(context.Background(), "k", 1, time.Minute))
	var out int
	hit, err := c.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
