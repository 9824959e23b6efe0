package resumes

import (
	"testing"
	"time"
)

func TestYearsOfExperience(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		data ResumeData
		want int
	}{
		{name: "no experiences", data: ResumeData{}, want: 0},
		{
			name: "earliest year wins",
			data: ResumeData{Experiences: []Experience{
				{StartDate: "2021-03"},
				{StartDate: "Jan 2015"},
				{StartDate: "2019"},
			}},
			want: 10,
		},
		{
			name: "unparseable dates ignored",
			data: ResumeData{Experiences: []Experience{
				{StartDate: "a while ago"},
				{StartDate: "2020"},
			}},
			want: 5,
		},
		{
			name: "only unparseable dates",
			data: ResumeData{Experiences: []Experience{{StartDate: "recently"}}},
			want: 0,
		},
		{
			name: "future start clamps to zero",
			data: ResumeData{Experiences: []Experience{{StartDate: "2030"}}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearsOfExperience(tt.data, now); got != tt.want {
				t.Fatalf("YearsOfExperience = %d, want %d", got, tt.want)
			}
		})
	}
}
