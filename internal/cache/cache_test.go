package cache

import (
	"testing"
	"time"

	"github.com/atlashq/erp-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id int64) *models.User {
	return &models.User{ID: id, Role: models.RoleExecutive, IsActive: true}
}

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Minute, 10)

	assert.Nil(t, c.Get(1))

	c.Set(testUser(1))
	got := c.Get(1)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(10*time.Millisecond, 10)

	c.Set(testUser(1))
	require.NotNil(t, c.Get(1))

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, c.Get(1))
	assert.Equal(t, 0, c.Len(), "expired entry is removed on read")
}

func TestCache_InvalidateUser(t *testing.T) {
	c := New(time.Minute, 10)

	c.Set(testUser(1))
	c.Set(testUser(2))

	c.InvalidateUser(1)
	assert.Nil(t, c.Get(1))
	assert.NotNil(t, c.Get(2))
}

func TestCache_InvalidateUnknownUserIsNoOp(t *testing.T) {
	c := New(time.Minute, 10)
	c.InvalidateUser(42)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CapacityEviction(t *testing.T) {
	c := New(time.Minute, 2)

	c.Set(testUser(1))
	c.Set(testUser(2))
	c.Set(testUser(3))

	assert.Equal(t, 2, c.Len())
	assert.NotNil(t, c.Get(3), "newest entry always survives eviction")
}

func TestCache_ExpiredEvictedBeforeLive(t *testing.T) {
	c := New(30*time.Millisecond, 2)

	c.Set(testUser(1))
	time.Sleep(40 * time.Millisecond)

	// Entry 1 is expired; inserting past capacity must drop it, not entry 2
	c.Set(testUser(2))
	c.Set(testUser(3))

	assert.Nil(t, c.Get(1))
	assert.NotNil(t, c.Get(2))
	assert.NotNil(t, c.Get(3))
}

func TestCache_SetOverwritesExisting(t *testing.T) {
	c := New(time.Minute, 10)

	stale := testUser(1)
	stale.Role = models.RoleExecutive
	c.Set(stale)

	fresh := testUser(1)
	fresh.Role = models.RoleManager
	c.Set(fresh)

	got := c.Get(1)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleManager, got.Role)
	assert.Equal(t, 1, c.Len())
}
