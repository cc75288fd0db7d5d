package service_test

import (
	"testing"
	"time"

	"github.com/mtlprog/bodyshop/internal/service"
	"github.com/stretchr/testify/assert"
)

// January 8 2024 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2024, time.January, 8, hour, min, 0, 0, time.UTC)
}

func TestNormalizeWorkingStart(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"inside window", monday(10, 30), monday(10, 30)},
		{"window start", monday(9, 0), monday(9, 0)},
		{"before opening", monday(7, 45), monday(9, 0)},
		{"at closing", monday(18, 0), monday(9, 0).AddDate(0, 0, 1)},
		{"after closing", monday(20, 0), monday(9, 0).AddDate(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.NormalizeWorkingStart(tt.start))
		})
	}
}

func TestWorkingHoursDeadline(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		hours int
		want  time.Time
	}{
		{"fits in the same day", monday(10, 0), 4, monday(14, 0)},
		{"spills into next morning", monday(16, 0), 4, monday(11, 0).AddDate(0, 0, 1)},
		{"starts after closing", monday(20, 0), 4, monday(13, 0).AddDate(0, 0, 1)},
		{"starts before opening", monday(8, 30), 4, monday(13, 0)},
		{"exactly one full day", monday(9, 0), 9, monday(18, 0)},
		{"one hour past a full day", monday(9, 0), 10, monday(10, 0).AddDate(0, 0, 1)},
		{"spans several days", monday(10, 0), 20, monday(12, 0).AddDate(0, 0, 2)},
		{"zero hours is the normalized start", monday(19, 0), 0, monday(9, 0).AddDate(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.WorkingHoursDeadline(tt.start, tt.hours))
		})
	}
}

// The working window ignores weekends: a Friday overflow lands on Saturday.
func TestWorkingHoursDeadline_WeekendsCount(t *testing.T) {
	friday := time.Date(2024, time.January, 12, 17, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, time.January, 13, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, saturday, service.WorkingHoursDeadline(friday, 4))
}

func TestWorkingHoursDeadline_Monotonic(t *testing.T) {
	start := monday(11, 15)
	prev := service.WorkingHoursDeadline(start, 0)
	for hours := 1; hours <= 30; hours++ {
		next := service.WorkingHoursDeadline(start, hours)
		assert.True(t, next.After(prev), "deadline for %d hours must exceed %d hours", hours, hours-1)
		prev = next
	}
}
