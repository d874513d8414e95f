package bench

import (
	"reflect"
	"testing"
)

func TestParseRangeSpec(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  RangeSpec
		expectErr bool
	}{
		{"valid_range", "0.5:2.0:0.5", RangeSpec{Min: 0.5, Max: 2.0, Step: 0.5}, false},
		{"integer_range", "0:10:1", RangeSpec{Min: 0, Max: 10, Step: 1}, false},
		{"with_spaces", " 0.5 : 2.0 : 0.5 ", RangeSpec{Min: 0.5, Max: 2.0, Step: 0.5}, false},
		{"negative_values", "-5.0:5.0:1.0", RangeSpec{Min: -5.0, Max: 5.0, Step: 1.0}, false},
		{"missing_parts", "0.5:2.0", RangeSpec{}, true},
		{"too_many_parts", "0.5:2.0:0.5:1.0", RangeSpec{}, true},
		{"invalid_min", "abc:2.0:0.5", RangeSpec{}, true},
		{"invalid_max", "0.5:abc:0.5", RangeSpec{}, true},
		{"invalid_step", "0.5:2.0:abc", RangeSpec{}, true},
		{"zero_step", "0.5:2.0:0", RangeSpec{}, true},
		{"negative_step", "0.5:2.0:-0.5", RangeSpec{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseRangeSpec(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if result != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, result)
			}
		})
	}
}

func TestParseIntRangeSpec(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  IntRangeSpec
		expectErr bool
	}{
		{"valid_range", "10:50:10", IntRangeSpec{Min: 10, Max: 50, Step: 10}, false},
		{"with_spaces", " 10 : 50 : 10 ", IntRangeSpec{Min: 10, Max: 50, Step: 10}, false},
		{"missing_parts", "10:50", IntRangeSpec{}, true},
		{"too_many_parts", "10:50:10:5", IntRangeSpec{}, true},
		{"float_value", "10.5:50:10", IntRangeSpec{}, true},
		{"invalid_min", "abc:50:10", IntRangeSpec{}, true},
		{"zero_step", "10:50:0", IntRangeSpec{}, true},
		{"negative_step", "10:50:-10", IntRangeSpec{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseIntRangeSpec(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if result != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, result)
			}
		})
	}
}

func TestGenerateRange(t *testing.T) {
	testCases := []struct {
		name     string
		min      float64
		max      float64
		step     float64
		expected []float64
	}{
		{"simple_range", 1.0, 3.0, 1.0, []float64{1.0, 2.0, 3.0}},
		{"fractional_step", 0.5, 2.0, 0.5, []float64{0.5, 1.0, 1.5, 2.0}},
		{"single_value", 5.0, 5.0, 1.0, []float64{5.0}},
		{"min_greater_than_max", 5.0, 1.0, 1.0, nil},
		{"zero_step", 1.0, 5.0, 0, nil},
		{"negative_step", 1.0, 5.0, -1.0, nil},
		{"excessive_count", 0, 1e9, 0.001, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := GenerateRange(tc.min, tc.max, tc.step)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestGenerateIntRange(t *testing.T) {
	testCases := []struct {
		name     string
		min      int
		max      int
		step     int
		expected []int
	}{
		{"simple_range", 10, 30, 10, []int{10, 20, 30}},
		{"uneven_step", 10, 35, 10, []int{10, 20, 30}},
		{"single_value", 5, 5, 1, []int{5}},
		{"min_greater_than_max", 5, 1, 1, nil},
		{"zero_step", 1, 5, 0, nil},
		{"excessive_count", 0, 1 << 30, 1, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := GenerateIntRange(tc.min, tc.max, tc.step)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestParseParamList(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  []float64
		expectErr bool
	}{
		{"empty", "", nil, false},
		{"comma_list", "0.5,1.0,1.5", []float64{0.5, 1.0, 1.5}, false},
		{"comma_list_spaces", " 0.5, 1.0 ,1.5 ", []float64{0.5, 1.0, 1.5}, false},
		{"range_spec", "3.0:7.0:2.0", []float64{3.0, 5.0, 7.0}, false},
		{"single_value", "5.0", []float64{5.0}, false},
		{"bad_value", "0.5,abc", nil, true},
		{"bad_range", "3.0:7.0", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseParamList(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestParseIntParamList(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  []int
		expectErr bool
	}{
		{"empty", "", nil, false},
		{"comma_list", "10,20,50", []int{10, 20, 50}, false},
		{"range_spec", "10:30:10", []int{10, 20, 30}, false},
		{"bad_value", "10,x", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseIntParamList(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestParseSeedList(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  []int64
		expectErr bool
	}{
		{"empty", "", nil, false},
		{"single", "42", []int64{42}, false},
		{"multiple", "42,123,2025", []int64{42, 123, 2025}, false},
		{"negative", "-1", []int64{-1}, false},
		{"bad_value", "42,forty-two", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseSeedList(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}
