package models

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func Test_JobID_Unmarshal(t *testing.T) {

	tests := []struct {
		name     string
		input    string
		expected JobID
		wantErr  bool
	}{
		{"string", `"abc-1"`, "abc-1", false},
		{"integer", `42`, "42", false},
		{"numeric string equals number", `"42"`, "42", false},
		{"large number keeps digits", `12345678901234567890`, "12345678901234567890", false},
		{"null stays empty", `null`, "", false},
		{"object", `{"id": 1}`, "", true},
		{"array", `[1]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id JobID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func Test_PostedDate_Unmarshal(t *testing.T) {

	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"plain date", `"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"timestamp without zone", `"2024-03-01T10:20:30"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"rfc3339 with offset", `"2024-03-01T12:20:30+02:00"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"unix millis", `1709288430000`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"empty string", `""`, time.Time{}, false},
		{"blank string", `"  "`, time.Time{}, false},
		{"garbage", `"yesterday"`, time.Time{}, true},
		{"boolean", `true`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var date PostedDate
			err := json.Unmarshal([]byte(tt.input), &date)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(date.Time), "got %v", date.Time)
			assert.Equal(t, tt.expected.IsZero(), date.IsZero())
		})
	}
}

func Test_PostedDate_Marshal_ShouldRoundTripThroughRFC3339(t *testing.T) {
	raw, err := json.Marshal(NewPostedDate(time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:20:30Z"`, string(raw))

	raw, err = json.Marshal(PostedDate{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))
}

func Test_ToJobType_WhenUnknown_ShouldFail(t *testing.T) {
	jobType, err := ToJobType("Remote")
	require.NoError(t, err)
	assert.Equal(t, Remote, jobType)

	jobType, err = ToJobType("")
	require.NoError(t, err)
	assert.Empty(t, jobType)

	_, err = ToJobType("remote")
	assert.Error(t, err)
	_, err = ToExperienceLevel("Principal")
	assert.Error(t, err)
}

func Test_JobPosting_HasSkills_ShouldUseSubsetSemantics(t *testing.T) {
	job := JobPosting{Skills: []string{"Go", "SQL", "Docker"}}

	assert.True(t, job.HasSkills([]string{"SQL", "Go"}))
	assert.True(t, job.HasSkills(nil))
	assert.False(t, job.HasSkills([]string{"Go", "Rust"}))
}

func Test_Filters_ActiveCount(t *testing.T) {
	filters := DefaultFilters()
	assert.Equal(t, 0, filters.ActiveCount())

	filters.JobType = Hybrid
	filters.Skills = []string{"Go"}
	filters.SalaryRange = SalaryRange{0, 100000}
	assert.Equal(t, 3, filters.ActiveCount())

	clone := filters.Clone()
	clone.Skills[0] = "Rust"
	assert.Equal(t, []string{"Go"}, filters.Skills)
}

func Test_SalaryRange_ContainsIsInclusive(t *testing.T) {
	salaryRange := SalaryRange{50000, 80000}

	assert.True(t, salaryRange.Contains(50000))
	assert.True(t, salaryRange.Contains(80000))
	assert.False(t, salaryRange.Contains(49999))
	assert.False(t, salaryRange.Contains(80001))
	assert.False(t, SalaryRange{-1, 10}.Valid())
	assert.False(t, SalaryRange{10, 5}.Valid())
}
