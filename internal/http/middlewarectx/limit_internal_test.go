package middlewarectx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiters_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	limiters := newClientLimiters(0, 1)
	limiters.now = func() time.Time { return now }

	first := limiters.get("10.0.0.1")
	assert.True(t, first.Allow())
	assert.False(t, first.Allow())
	limiters.get("10.0.0.2")
	assert.Len(t, limiters.limiters, 2)

	// активный клиент сохраняет свой лимитер
	now = now.Add(limiterIdleTTL / 2)
	assert.Same(t, first, limiters.get("10.0.0.1"))

	now = now.Add(limiterIdleTTL)
	limiters.get("10.0.0.3")
	assert.Len(t, limiters.limiters, 1)
	assert.Contains(t, limiters.limiters, "10.0.0.3")

	// после удаления клиент получает новый лимитер с полным запасом
	assert.True(t, limiters.get("10.0.0.1").Allow())
}
