package httpv1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "zone aware",
			in:   "2024-03-01T10:00:00+02:00",
			want: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "fractional seconds utc",
			in:   "2024-03-01T10:00:00.123456Z",
			want: time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC),
		},
		{
			name: "naive is local",
			in:   "2024-03-01T10:00:00",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		},
		{
			name: "naive with space",
			in:   "2024-03-01 10:00:00",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		},
		{
			name: "date only",
			in:   "2024-03-01",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:    "garbage",
			in:      "03/01/2024",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseTimestamp(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestFlexTime_JSON(t *testing.T) {
	var body struct {
		A *flexTime `json:"a"`
		B *flexTime `json:"b"`
		C flexTime  `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2024-01-02T03:04:05Z","b":null}`), &body))

	require.NotNil(t, body.A.Ptr())
	assert.Equal(t, 2024, body.A.Ptr().Year())
	assert.Nil(t, body.B.Ptr())
	assert.Nil(t, body.C.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"a":12}`), &body))
}
