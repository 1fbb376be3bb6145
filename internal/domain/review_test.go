package domain_test

import (
	"testing"

	"see-eat-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeReviews(t *testing.T) {
	summary, ids := domain.SummarizeReviews(nil)
	assert.Equal(t, domain.RatingSummary{}, summary)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)

	summary, ids = domain.SummarizeReviews([]domain.Review{
		{ID: "a", Rating: 5},
		{ID: "b", Rating: 4},
		{ID: "c", Rating: 4},
	})
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 4.3, summary.Average)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
