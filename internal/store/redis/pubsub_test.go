package redis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	redisstore "github.com/Lixtic/Intellisynth2/internal/store/redis"
)

func TestFeedChannel(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "feed:activities", redisstore.FeedChannel())
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.FeedChannel()
		assert.True(t, strings.HasPrefix(got, "feed:"), "expected prefix 'feed:', got %q", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, redisstore.FeedChannel(), redisstore.FeedChannel())
	})
}

func TestAlertChannel(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "feed:alerts", redisstore.AlertChannel())
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.AlertChannel()
		assert.True(t, strings.HasPrefix(got, "feed:"), "expected prefix 'feed:', got %q", got)
	})
}

func TestChannelFunctions_NoCollisionAcrossTypes(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, redisstore.FeedChannel(), redisstore.AlertChannel(),
		"activity and alert channels must not collide")
}
