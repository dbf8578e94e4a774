package energy

import "testing"

func TestCalculateBasePoints(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		priority int
		energy   int
		expected int
	}{
		{
			name:     "minimum priority and energy",
			priority: 1,
			energy:   1,
			expected: 5, // 10 * 0.5
		},
		{
			name:     "defaults everywhere",
			priority: 3,
			energy:   3,
			expected: 40, // 40 * 1.0
		},
		{
			name:     "maximum priority and energy",
			priority: 5,
			energy:   5,
			expected: 225, // 150 * 1.5
		},
		{
			name:     "high priority low energy",
			priority: 5,
			energy:   1,
			expected: 75, // 150 * 0.5
		},
		{
			name:     "fractional product rounds half up",
			priority: 1,
			energy:   2,
			expected: 8, // 10 * 0.75 = 7.5
		},
		{
			name:     "priority four with energy four",
			priority: 4,
			energy:   4,
			expected: 100, // 80 * 1.25
		},
		{
			name:     "out of range inputs degrade to defaults",
			priority: 99,
			energy:   99,
			expected: 40, // 40 * 1.0
		},
		{
			name:     "zero priority degrades, valid energy applies",
			priority: 0,
			energy:   5,
			expected: 60, // 40 * 1.5
		},
		{
			name:     "negative energy degrades, valid priority applies",
			priority: 2,
			energy:   -1,
			expected: 20, // 20 * 1.0
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateBasePoints(tc.priority, tc.energy, params)
			if got != tc.expected {
				t.Errorf("Expected %d points, got %d", tc.expected, got)
			}
		})
	}
}

func TestCalculateBasePointsFullTable(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// Every in-range combination must match the exact table product.
	expected := map[[2]int]int{
		{1, 1}: 5, {1, 2}: 8, {1, 3}: 10, {1, 4}: 13, {1, 5}: 15,
		{2, 1}: 10, {2, 2}: 15, {2, 3}: 20, {2, 4}: 25, {2, 5}: 30,
		{3, 1}: 20, {3, 2}: 30, {3, 3}: 40, {3, 4}: 50, {3, 5}: 60,
		{4, 1}: 40, {4, 2}: 60, {4, 3}: 80, {4, 4}: 100, {4, 5}: 120,
		{5, 1}: 75, {5, 2}: 113, {5, 3}: 150, {5, 4}: 188, {5, 5}: 225,
	}

	for priority := 1; priority <= 5; priority++ {
		for energy := 1; energy <= 5; energy++ {
			want := expected[[2]int{priority, energy}]
			got := calculateBasePoints(priority, energy, params)
			if got != want {
				t.Errorf("priority=%d energy=%d: expected %d, got %d",
					priority, energy, want, got)
			}
		}
	}
}

func TestCalculateBasePointsIsPure(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	first := calculateBasePoints(4, 2, params)
	second := calculateBasePoints(4, 2, params)
	if first != second {
		t.Errorf("Expected identical results for identical inputs, got %d then %d", first, second)
	}
}

func TestCalculateBonusPoints(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		points   int
		expected int
	}{
		{name: "quarter of 40", points: 40, expected: 10},
		{name: "quarter of 225 rounds half up", points: 225, expected: 56}, // 56.25
		{name: "quarter of 10 rounds half up", points: 10, expected: 3},    // 2.5
		{name: "zero points", points: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateBonusPoints(tc.points, params)
			if got != tc.expected {
				t.Errorf("Expected bonus %d, got %d", tc.expected, got)
			}
		})
	}
}
