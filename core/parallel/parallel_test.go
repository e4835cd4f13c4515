package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		threshold int
	}{
		{"empty", 0, DefaultThreshold},
		{"sequential", 5, DefaultThreshold},
		{"concurrent", 1000, DefaultThreshold},
		{"more workers than items", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.items)
			var total int32
			ForEach(tt.items, tt.threshold, func(i int) {
				atomic.AddInt32(&hits[i], 1)
				atomic.AddInt32(&total, 1)
			})
			if int(total) != tt.items {
				t.Fatalf("total calls = %d, want %d", total, tt.items)
			}
			for i, h := range hits {
				if h != 1 {
					t.Errorf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestRangeChunksCoverItems(t *testing.T) {
	var covered int64
	Range(97, func(start, end int) {
		if start >= end {
			t.Errorf("empty chunk [%d, %d)", start, end)
		}
		atomic.AddInt64(&covered, int64(end-start))
	})
	if covered != 97 {
		t.Errorf("covered %d items, want 97", covered)
	}
}
