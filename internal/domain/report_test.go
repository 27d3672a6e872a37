package domain

import (
	"testing"
	"time"
)

func TestTimeBucketTime(t *testing.T) {
	tests := []struct {
		bucket TimeBucket
		year   int
		value  int
		want   time.Time
	}{
		{BucketDay, 2011, 1, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{BucketDay, 2011, 32, time.Date(2011, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{BucketWeek, 2011, 2, time.Date(2011, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{BucketMonth, 2011, 7, time.Date(2011, time.July, 1, 0, 0, 0, 0, time.UTC)},
		// last month of the quarter, kept for compatibility with existing charts
		{BucketQuarter, 2011, 1, time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{BucketQuarter, 2011, 4, time.Date(2011, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := tt.bucket.Time(tt.year, tt.value); !got.Equal(tt.want) {
			t.Fatalf("%s(%d, %d): expected %s, got %s", tt.bucket, tt.year, tt.value, tt.want, got)
		}
	}
}

func TestParseTimeBucket(t *testing.T) {
	b, err := ParseTimeBucket("week")
	if err != nil || b != BucketWeek {
		t.Fatalf("expected week, got %v (%v)", b, err)
	}
	if b, err := ParseTimeBucket(""); err != nil || b != BucketNone {
		t.Fatalf("expected none for empty string, got %v (%v)", b, err)
	}
	if _, err := ParseTimeBucket("fortnight"); err == nil {
		t.Fatalf("expected error for unknown bucket")
	}
}

func TestLocationContains(t *testing.T) {
	uganda := &Location{ID: 1, TreeID: 1, Lft: 1, Rght: 10}
	kampala := &Location{ID: 2, TreeID: 1, Lft: 2, Rght: 5}
	gulu := &Location{ID: 3, TreeID: 1, Lft: 6, Rght: 9}

	if !uganda.Contains(kampala) || !uganda.Contains(uganda) {
		t.Fatalf("root should contain itself and its children")
	}
	if kampala.Contains(gulu) {
		t.Fatalf("siblings must not contain each other")
	}
	if kampala.Span() != 3 {
		t.Fatalf("expected span 3, got %d", kampala.Span())
	}
}

func TestLabels(t *testing.T) {
	if MonthLabel(time.September) != "Sept" {
		t.Fatalf("unexpected September label")
	}
	if QuarterLabel(4) != "Fourth" {
		t.Fatalf("unexpected fourth quarter label")
	}
}
