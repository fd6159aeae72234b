package seeder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	repomocks "github.com/Egor213/LogBoard/internal/mocks/repository"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSeeder_Sample(t *testing.T) {
	s := New(nil, 42)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	counts := map[domain.Severity]int{}
	for i := 0; i < 2000; i++ {
		e := s.Sample(30)

		require.True(t, e.Severity.Valid())
		assert.Contains(t, Sources, e.Source)
		assert.NotEmpty(t, e.Message)
		assert.False(t, e.Timestamp.After(now))
		assert.False(t, e.Timestamp.Before(now.Add(-30*24*time.Hour)))
		counts[e.Severity]++
	}

	// weights 30/40/20/8/2
	assert.Greater(t, counts[domain.SeverityInfo], counts[domain.SeverityWarning])
	assert.Greater(t, counts[domain.SeverityDebug], counts[domain.SeverityError])
	assert.Greater(t, counts[domain.SeverityError], counts[domain.SeverityCritical])
}

func TestSeeder_Seed(t *testing.T) {
	testCases := []struct {
		name         string
		count        int
		mockBehavior func(r *repomocks.MockLog)
		want         int
		wantErr      bool
	}{
		{
			name:  "all inserted",
			count: 5,
			mockBehavior: func(r *repomocks.MockLog) {
				r.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.LogEntry{ID: 1}, nil).Times(5)
			},
			want: 5,
		},
		{
			name:  "stops at first failure",
			count: 5,
			mockBehavior: func(r *repomocks.MockLog) {
				gomock.InOrder(
					r.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.LogEntry{ID: 1}, nil).Times(2),
					r.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.LogEntry{}, errors.New("db down")),
				)
			},
			want:    2,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			r := repomocks.NewMockLog(ctrl)
			tc.mockBehavior(r)

			got, err := New(r, 1).Seed(context.Background(), tc.count, DefaultDaysBack)

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantErr, err != nil)
		})
	}
}

func TestMessagesCoverEverySeverity(t *testing.T) {
	assert.ElementsMatch(t, domain.Severities, lo.Keys(messages))
	assert.Equal(t, 100, lo.SumBy(severityWeights, func(w weightedSeverity) int { return w.weight }))
}
