package vecstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resultsFor(ids ...string) []result {
	out := make([]result, len(ids))
	for i, id := range ids {
		out[i] = result{Item: testItem{id: id}, Distance: float32(i)}
	}
	return out
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name        string
		approximate []result
		groundTruth []result
		accuracy    int
		overlap     int
		ok          bool
	}{
		{"half", resultsFor("1"), resultsFor("1", "2"), 50, 1, true},
		{"exact", resultsFor("1", "2"), resultsFor("1", "2"), 100, 2, true},
		{"order ignored", resultsFor("2", "1"), resultsFor("1", "2"), 100, 2, true},
		{"disjoint", resultsFor("3"), resultsFor("1", "2"), 0, 0, true},
		{"empty approximate", nil, resultsFor("1"), 0, 0, true},
		{"empty ground truth", resultsFor("1"), nil, 0, 0, false},
		{"one third rounds down", resultsFor("1"), resultsFor("1", "2", "3"), 33, 1, true},
		{"two thirds rounds up", resultsFor("1", "2"), resultsFor("1", "2", "3"), 67, 2, true},
		{"half point rounds up", resultsFor("1"), resultsFor("1", "2", "3", "4", "5", "6", "7", "8"), 13, 1, true},
		{"duplicate counted once", resultsFor("1", "1"), resultsFor("1", "1", "2", "3"), 25, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accuracy, overlap, ok := Accuracy[string, testItem](tt.approximate, tt.groundTruth)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.accuracy, accuracy)
			assert.Equal(t, tt.overlap, overlap)
		})
	}
}

func TestAccuracyIgnoresDistance(t *testing.T) {
	approx := []result{{Item: item1, Distance: 9}}
	truth := []result{{Item: item1, Distance: 0.1}, {Item: item2, Distance: 0.2}}

	accuracy, _, ok := Accuracy[string, testItem](approx, truth)
	assert.True(t, ok)
	assert.Equal(t, 50, accuracy)
}
