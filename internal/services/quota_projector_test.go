package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khidma/internal/models/db_models"
)

func TestProjectQuotaUnlimited(t *testing.T) {
	view := ProjectQuota(7, nil)

	assert.True(t, view.Unlimited)
	assert.Equal(t, 7, view.Used)
	assert.Nil(t, view.Limit)
	assert.Nil(t, view.Remaining)
}

func TestProjectQuotaRemaining(t *testing.T) {
	cases := []struct {
		name      string
		used      int
		limit     int
		remaining int
	}{
		{"under quota", 2, 5, 3},
		{"at quota", 5, 5, 0},
		{"over quota clamps to zero", 8, 5, 0},
		{"unused", 0, 10, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := ProjectQuota(tc.used, &tc.limit)
			assert.False(t, view.Unlimited)
			require.NotNil(t, view.Remaining)
			assert.Equal(t, tc.remaining, *view.Remaining)
		})
	}
}

func TestProjectFeatures(t *testing.T) {
	view := ProjectFeatures(&db_models.SubscriptionPlan{PrioritySupport: true})
	assert.True(t, view.PrioritySupport)
	assert.False(t, view.AnalyticsAccess)
}
