package domain_test

import (
	"testing"

	"see-eat-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestScheduleWithDefaults(t *testing.T) {
	t.Run("missing days get default hours", func(t *testing.T) {
		s := domain.Schedule{"sunday": {Closed: true}}.WithDefaults()
		assert.Len(t, s, 7)
		assert.True(t, s["sunday"].Closed)
		assert.Equal(t, domain.DaySchedule{Open: "09:00", Close: "22:00"}, s["monday"])
	})

	t.Run("only weekday keys are kept", func(t *testing.T) {
		s := domain.Schedule{
			"monday": {Open: "10:00", Close: "20:00"},
			"Monday": {Closed: true},
			"funday": {Closed: true},
		}.WithDefaults()
		assert.Len(t, s, 7)
		assert.Equal(t, domain.DaySchedule{Open: "10:00", Close: "20:00"}, s["monday"])
		assert.NotContains(t, s, "funday")
		assert.NotContains(t, s, "Monday")
	})
}
