package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2021-03-04T10:11:12Z"`, time.Date(2021, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"rfc3339 with offset", `"2021-03-04T10:11:12+02:00"`, time.Date(2021, 3, 4, 8, 11, 12, 0, time.UTC)},
		{"iso without zone", `"2021-03-04T10:11:12.123456"`, time.Date(2021, 3, 4, 10, 11, 12, 123456000, time.UTC)},
		{"space separated", `"2021-03-04 10:11:12"`, time.Date(2021, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"space separated fraction", `"2021-03-04 10:11:12.5"`, time.Date(2021, 3, 4, 10, 11, 12, 500000000, time.UTC)},
		{"space separated with offset", `"2021-03-04 10:11:12+00:00"`, time.Date(2021, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"date only", `"2021-03-04"`, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestamp_UnmarshalJSON_Rejects(t *testing.T) {
	for _, in := range []string{`"yesterday"`, `1614852672`, `{}`} {
		var ts Timestamp
		err := json.Unmarshal([]byte(in), &ts)
		require.ErrorIs(t, err, common.ErrMalformed, in)
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	ts := Timestamp{Time: time.Date(2021, 3, 4, 10, 11, 12, 123456000, time.UTC)}
	data, err = json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2021-03-04T10:11:12.123456Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Equal(back.Time))
}
