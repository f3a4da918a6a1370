package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulatorAdd(t *testing.T) {
	acc := make(Accumulator)
	acc.Add("Alice", "2023-05-01", 3)
	acc.Add("Alice", "2023-05-01", 2)
	acc.Add("Alice", "2023-05-02", 1)
	acc.Add("Bob", "2023-05-01", 0)

	assert.Equal(t, 5, acc["Alice"]["2023-05-01"])
	assert.Equal(t, 1, acc["Alice"]["2023-05-02"])
	assert.Contains(t, acc, "Bob")
}

func TestAccumulatorClone(t *testing.T) {
	acc := make(Accumulator)
	acc.Add("Alice", "k", 1)
	clone := acc.Clone()
	clone.Add("Alice", "k", 10)
	assert.Equal(t, 1, acc["Alice"]["k"])
	assert.Equal(t, 11, clone["Alice"]["k"])
}

func TestCountSymbols(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 3},
		{"a b c", 3},
		{"привет мир", 9},
		{"👍 ok", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, countSymbols(tc.text), tc.text)
	}
}

func TestFeatureVocabulary(t *testing.T) {
	for _, f := range Features() {
		assert.True(t, Known(f), string(f))
	}
	assert.False(t, Known(Feature("sentiment")))
}
