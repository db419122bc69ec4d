package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequestKey(t *testing.T) {
	base := map[string]any{
		"destination": "Lisbon",
		"duration":    3,
		"interests":   []string{"Culture", "Nature"},
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, BuildRequestKey(base), BuildRequestKey(base))
		assert.Len(t, BuildRequestKey(base), 32)
	})

	t.Run("invariant under list order", func(t *testing.T) {
		reordered := map[string]any{
			"destination": "Lisbon",
			"duration":    3,
			"interests":   []string{"Nature", "Culture"},
		}
		assert.Equal(t, BuildRequestKey(base), BuildRequestKey(reordered))
	})

	t.Run("ignores fields outside the allow-list", func(t *testing.T) {
		noisy := map[string]any{
			"destination": "Lisbon",
			"duration":    3,
			"interests":   []string{"Culture", "Nature"},
			"request_id":  "abc-123",
			"page":        2,
		}
		assert.Equal(t, BuildRequestKey(base), BuildRequestKey(noisy))
	})

	t.Run("sensitive to allow-listed fields", func(t *testing.T) {
		changed := map[string]any{
			"destination": "Porto",
			"duration":    3,
			"interests":   []string{"Culture", "Nature"},
		}
		assert.NotEqual(t, BuildRequestKey(base), BuildRequestKey(changed))
	})

	t.Run("missing fields are simply absent", func(t *testing.T) {
		assert.NotEqual(t,
			BuildRequestKey(map[string]any{"destination": "Lisbon"}),
			BuildRequestKey(map[string]any{"destination": "Lisbon", "duration": 3}))
	})
}

func TestBuildPlaceKey(t *testing.T) {
	t.Run("composes normalized segments", func(t *testing.T) {
		key := BuildPlaceKey("  Lisbon ", "Luxury", []string{"Nature", "Culture"})
		assert.Equal(t, "lisbon__luxury__culture|nature", key)
	})

	t.Run("invariant under preference order and case", func(t *testing.T) {
		a := BuildPlaceKey("Lisbon", "budget", []string{"culture", "NATURE"})
		b := BuildPlaceKey("lisbon", "Budget", []string{"Nature", "Culture"})
		assert.Equal(t, a, b)
	})

	t.Run("empty preferences", func(t *testing.T) {
		assert.Equal(t, "lisbon__budget__", BuildPlaceKey("Lisbon", "budget", nil))
	})
}
