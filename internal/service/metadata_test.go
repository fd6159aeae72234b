package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	repomocks "github.com/Egor213/LogBoard/internal/mocks/repository"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/Egor213/LogBoard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMetadataService_Snapshot(t *testing.T) {
	earliest := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	all := repotypes.LogFilter{}

	testCases := []struct {
		name         string
		mockBehavior func(r *repomocks.MockAnalytics)
		want         domain.Metadata
		wantErr      bool
	}{
		{
			name: "populated table",
			mockBehavior: func(r *repomocks.MockAnalytics) {
				r.EXPECT().DistinctSources(gomock.Any()).Return([]string{"api", "worker"}, nil)
				r.EXPECT().TimestampRange(gomock.Any()).Return(&earliest, &latest, nil)
				r.EXPECT().CountBySeverity(gomock.Any(), all).Return([]domain.SeverityCount{
					{Severity: domain.SeverityInfo, Count: 4},
					{Severity: domain.SeverityError, Count: 1},
				}, nil)
				r.EXPECT().CountTotal(gomock.Any(), all).Return(5, nil)
			},
			want: domain.Metadata{
				SeverityLevels: domain.Severities,
				Sources:        []string{"api", "worker"},
				DateRange:      domain.DateRange{Earliest: &earliest, Latest: &latest},
				SeverityStats:  map[domain.Severity]int{domain.SeverityInfo: 4, domain.SeverityError: 1},
				TotalLogs:      5,
				SortFields:     []string{"timestamp", "severity", "source", "message"},
				Pagination:     testLimits,
			},
		},
		{
			name: "empty table",
			mockBehavior: func(r *repomocks.MockAnalytics) {
				r.EXPECT().DistinctSources(gomock.Any()).Return(nil, nil)
				r.EXPECT().TimestampRange(gomock.Any()).Return(nil, nil, nil)
				r.EXPECT().CountBySeverity(gomock.Any(), all).Return(nil, nil)
				r.EXPECT().CountTotal(gomock.Any(), all).Return(0, nil)
			},
			want: domain.Metadata{
				SeverityLevels: domain.Severities,
				Sources:        []string{},
				SeverityStats:  map[domain.Severity]int{},
				SortFields:     []string{"timestamp", "severity", "source", "message"},
				Pagination:     testLimits,
			},
		},
		{
			name: "store failure",
			mockBehavior: func(r *repomocks.MockAnalytics) {
				r.EXPECT().DistinctSources(gomock.Any()).Return(nil, errors.New("permission denied for table logs"))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			r := repomocks.NewMockAnalytics(ctrl)
			tc.mockBehavior(r)

			s := service.NewMetadataService(r, passthroughTx(ctrl), testLimits)
			got, err := s.Snapshot(context.Background())

			if tc.wantErr {
				var sErr *service.StoreError
				require.True(t, errors.As(err, &sErr))
				assert.Equal(t, "metadata", sErr.Operation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
