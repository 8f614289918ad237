package reorder

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		want     []int
		wantErr  error
	}{
		{
			name:     "simple permutation",
			input:    "3 1 2",
			expected: 3,
			want:     []int{3, 1, 2},
		},
		{
			name:     "identity order",
			input:    "1 2 3",
			expected: 3,
			want:     []int{1, 2, 3},
		},
		{
			name:     "two items reversed",
			input:    "2 1",
			expected: 2,
			want:     []int{2, 1},
		},
		{
			name:     "extra whitespace between numbers",
			input:    "  3   1  2 ",
			expected: 3,
			want:     []int{3, 1, 2},
		},
		{
			name:     "leading zeros",
			input:    "03 01 02",
			expected: 3,
			want:     []int{3, 1, 2},
		},
		{
			name:     "letters",
			input:    "a b c",
			expected: 3,
			wantErr:  ErrParse,
		},
		{
			name:     "mixed letters and numbers",
			input:    "1 2 x",
			expected: 3,
			wantErr:  ErrParse,
		},
		{
			name:     "decimal number",
			input:    "1.5 2 3",
			expected: 3,
			wantErr:  ErrParse,
		},
		{
			name:     "overflowing number",
			input:    "99999999999999999999 1 2",
			expected: 3,
			wantErr:  ErrParse,
		},
		{
			name:     "too few values",
			input:    "1 2",
			expected: 3,
			wantErr:  ErrCountMismatch,
		},
		{
			name:     "too many values",
			input:    "1 2 3 4",
			expected: 3,
			wantErr:  ErrCountMismatch,
		},
		{
			name:     "duplicate values",
			input:    "1 1 2",
			expected: 3,
			wantErr:  ErrCountMismatch,
		},
		{
			name:     "empty input",
			input:    "",
			expected: 3,
			wantErr:  ErrCountMismatch,
		},
		{
			name:     "zero is out of range",
			input:    "0 1 2",
			expected: 3,
			wantErr:  ErrRange,
		},
		{
			name:     "value above expected",
			input:    "1 2 4",
			expected: 3,
			wantErr:  ErrRange,
		},
		{
			name:     "negative value",
			input:    "-1 2 3",
			expected: 3,
			wantErr:  ErrRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrder(tt.input, tt.expected)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseOrder(%q, %d) error = %v, want %v", tt.input, tt.expected, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrder(%q, %d) unexpected error: %v", tt.input, tt.expected, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOrder(%q, %d) = %v, want %v", tt.input, tt.expected, got, tt.want)
			}
		})
	}
}

func TestParseOrder_AllPermutationsOfThree(t *testing.T) {
	perms := []string{"1 2 3", "1 3 2", "2 1 3", "2 3 1", "3 1 2", "3 2 1"}
	for _, p := range perms {
		if _, err := ParseOrder(p, 3); err != nil {
			t.Errorf("ParseOrder(%q, 3) unexpected error: %v", p, err)
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		order []int
		want  []string
	}{
		{
			name:  "reverse",
			files: []string{"a", "b", "c"},
			order: []int{3, 2, 1},
			want:  []string{"c", "b", "a"},
		},
		{
			name:  "rotate",
			files: []string{"a", "b", "c"},
			order: []int{3, 1, 2},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "identity",
			files: []string{"a", "b"},
			order: []int{1, 2},
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.files, tt.order)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply(%v, %v) = %v, want %v", tt.files, tt.order, got, tt.want)
			}
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	files := []string{"a", "b", "c"}
	Apply(files, []int{3, 2, 1})
	if !reflect.DeepEqual(files, []string{"a", "b", "c"}) {
		t.Errorf("Apply mutated its input: %v", files)
	}
}
