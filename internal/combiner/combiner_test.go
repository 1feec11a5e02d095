package combiner

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/monasticacademy/srt-to-json-microservice/internal/apperrors"
	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
	"github.com/monasticacademy/srt-to-json-microservice/internal/parser"
	"github.com/monasticacademy/srt-to-json-microservice/internal/testutil"
)

func helloWorld() []models.Caption {
	return []models.Caption{
		{Index: 1, Start: 1000, End: 2000, Content: "Hello"},
		{Index: 2, Start: 2500, End: 5000, Content: "World"},
	}
}

func TestCombine_NoLimits(t *testing.T) {
	t.Parallel()
	got, err := Combine(helloWorld(), models.Limits{})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if !reflect.DeepEqual(got, helloWorld()) {
		t.Errorf("Combine() = %+v, want %+v", got, helloWorld())
	}
}

func TestCombine_MergesWithinLimits(t *testing.T) {
	t.Parallel()
	got, err := Combine(helloWorld(), models.Limits{CharLimit: testutil.IntPtr(20), MillisLimit: testutil.IntPtr(10000)})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	expected := []models.Caption{{Index: 1, Start: 1000, End: 5000, Content: "Hello World"}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Combine() = %+v, want %+v", got, expected)
	}
}

func TestCombine_Limits(t *testing.T) {
	t.Parallel()
	input := []models.Caption{
		{Index: 10, Start: 0, End: 1000, Content: "aaaa"},
		{Index: 11, Start: 1000, End: 2000, Content: "bbbb"},
		{Index: 12, Start: 2000, End: 3000, Content: "cccc"},
		{Index: 13, Start: 3000, End: 4000, Content: "dddd"},
	}

	tests := []struct {
		name     string
		limits   models.Limits
		expected []models.Caption
	}{
		{
			name:   "char limit exactly fits two",
			limits: models.Limits{CharLimit: testutil.IntPtr(9)},
			expected: []models.Caption{
				{Index: 1, Start: 0, End: 2000, Content: "aaaa bbbb"},
				{Index: 2, Start: 2000, End: 4000, Content: "cccc dddd"},
			},
		},
		{
			name:   "char limit one short of two",
			limits: models.Limits{CharLimit: testutil.IntPtr(8)},
			expected: []models.Caption{
				{Index: 1, Start: 0, End: 1000, Content: "aaaa"},
				{Index: 2, Start: 1000, End: 2000, Content: "bbbb"},
				{Index: 3, Start: 2000, End: 3000, Content: "cccc"},
				{Index: 4, Start: 3000, End: 4000, Content: "dddd"},
			},
		},
		{
			name:   "millis limit only",
			limits: models.Limits{MillisLimit: testutil.IntPtr(3000)},
			expected: []models.Caption{
				{Index: 1, Start: 0, End: 3000, Content: "aaaa bbbb cccc"},
				{Index: 2, Start: 3000, End: 4000, Content: "dddd"},
			},
		},
		{
			name:   "millis limit binds before char limit",
			limits: models.Limits{CharLimit: testutil.IntPtr(100), MillisLimit: testutil.IntPtr(2000)},
			expected: []models.Caption{
				{Index: 1, Start: 0, End: 2000, Content: "aaaa bbbb"},
				{Index: 2, Start: 2000, End: 4000, Content: "cccc dddd"},
			},
		},
		{
			name:   "char limit binds before millis limit",
			limits: models.Limits{CharLimit: testutil.IntPtr(14), MillisLimit: testutil.IntPtr(100000)},
			expected: []models.Caption{
				{Index: 1, Start: 0, End: 3000, Content: "aaaa bbbb cccc"},
				{Index: 2, Start: 3000, End: 4000, Content: "dddd"},
			},
		},
		{
			name:   "generous limits merge everything",
			limits: models.Limits{CharLimit: testutil.IntPtr(1000), MillisLimit: testutil.IntPtr(100000)},
			expected: []models.Caption{
				{Index: 1, Start: 0, End: 4000, Content: "aaaa bbbb cccc dddd"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Combine(input, tt.limits)
			if err != nil {
				t.Fatalf("Combine failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Combine() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestCombine_OversizedCaptionIsKept(t *testing.T) {
	t.Parallel()
	input := []models.Caption{
		{Index: 1, Start: 0, End: 500, Content: "hi"},
		{Index: 2, Start: 500, End: 20000, Content: "this caption is far longer than the limit"},
		{Index: 3, Start: 20000, End: 20500, Content: "ok"},
	}

	got, err := Combine(input, models.Limits{CharLimit: testutil.IntPtr(10), MillisLimit: testutil.IntPtr(5000)})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 groups, got %d: %+v", len(got), got)
	}
	if got[1].Content != input[1].Content || got[1].Start != 500 || got[1].End != 20000 {
		t.Errorf("oversized caption altered: %+v", got[1])
	}
}

func TestCombine_CountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	input := []models.Caption{
		{Index: 1, Start: 0, End: 100, Content: "héllo"},
		{Index: 2, Start: 100, End: 200, Content: "wörld"},
	}

	// "héllo wörld" is 11 runes but 13 bytes.
	got, err := Combine(input, models.Limits{CharLimit: testutil.IntPtr(11)})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if len(got) != 1 || got[0].Content != "héllo wörld" {
		t.Errorf("Combine() = %+v, want a single merged caption", got)
	}
}

func TestCombine_InvalidLimits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		limits models.Limits
		field  string
	}{
		{"zero char limit", models.Limits{CharLimit: testutil.IntPtr(0)}, "char_limit"},
		{"negative char limit", models.Limits{CharLimit: testutil.IntPtr(-1)}, "char_limit"},
		{"zero millis limit", models.Limits{MillisLimit: testutil.IntPtr(0)}, "millis_limit"},
		{"negative millis with valid chars", models.Limits{CharLimit: testutil.IntPtr(5), MillisLimit: testutil.IntPtr(-100)}, "millis_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Combine(helloWorld(), tt.limits)
			if got != nil {
				t.Errorf("Expected no output, got %+v", got)
			}
			var limitErr *apperrors.ErrInvalidLimit
			if !errors.As(err, &limitErr) {
				t.Fatalf("Expected *ErrInvalidLimit, got %v", err)
			}
			if limitErr.Name != tt.field {
				t.Errorf("Name = %q, want %q", limitErr.Name, tt.field)
			}
		})
	}
}

func TestCombine_EmptyInput(t *testing.T) {
	t.Parallel()
	for _, limits := range []models.Limits{{}, {CharLimit: testutil.IntPtr(10)}} {
		got, err := Combine(nil, limits)
		if err != nil {
			t.Fatalf("Combine failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty output, got %+v", got)
		}
	}
}

func TestCombine_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	input := []models.Caption{
		{Index: 5, Start: 0, End: 100, Content: "a"},
		{Index: 9, Start: 100, End: 200, Content: "b"},
	}
	snapshot := append([]models.Caption(nil), input...)

	if _, err := Combine(input, models.Limits{}); err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if _, err := Combine(input, models.Limits{CharLimit: testutil.IntPtr(50)}); err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if !reflect.DeepEqual(input, snapshot) {
		t.Errorf("input modified: %+v, want %+v", input, snapshot)
	}
}

// ---------------------------------------------------------------------------
// Properties over a generated document
// ---------------------------------------------------------------------------

func generatedCaptions(t *testing.T) []models.Caption {
	t.Helper()
	captions, err := parser.Parse(testutil.GenerateSequentialSRT(50, 1200, 300))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return captions
}

func limitGrid() []models.Limits {
	var grid []models.Limits
	for _, chars := range []int{5, 12, 25, 60} {
		for _, millis := range []int{1000, 3000, 7500, 20000} {
			grid = append(grid,
				models.Limits{CharLimit: testutil.IntPtr(chars)},
				models.Limits{MillisLimit: testutil.IntPtr(millis)},
				models.Limits{CharLimit: testutil.IntPtr(chars), MillisLimit: testutil.IntPtr(millis)},
			)
		}
	}
	return grid
}

func TestCombine_Properties(t *testing.T) {
	t.Parallel()
	captions := generatedCaptions(t)

	for _, limits := range limitGrid() {
		got, err := Combine(captions, limits)
		if err != nil {
			t.Fatalf("Combine(%s) failed: %v", limits.CacheKey(), err)
		}

		for i, c := range got {
			if c.Index != i+1 {
				t.Errorf("%s: output %d has index %d", limits.CacheKey(), i, c.Index)
			}
			if c.Start > c.End {
				t.Errorf("%s: output %d has start after end", limits.CacheKey(), i)
			}
			if i > 0 && got[i-1].Start > c.Start {
				t.Errorf("%s: output not ordered by start at %d", limits.CacheKey(), i)
			}

			// Groups built from two or more source cues must respect every limit.
			if strings.Count(c.Content, "Line ") < 2 {
				continue
			}
			if limits.CharLimit != nil && utf8.RuneCountInString(c.Content) > *limits.CharLimit {
				t.Errorf("%s: group %d exceeds char limit: %q", limits.CacheKey(), i, c.Content)
			}
			if limits.MillisLimit != nil && c.Duration() > int64(*limits.MillisLimit) {
				t.Errorf("%s: group %d exceeds millis limit: %d", limits.CacheKey(), i, c.Duration())
			}
		}

		// Idempotence: combining the result again with the same limits changes nothing.
		again, err := Combine(got, limits)
		if err != nil {
			t.Fatalf("second Combine failed: %v", err)
		}
		if !reflect.DeepEqual(again, got) {
			t.Errorf("%s: re-combination changed the result", limits.CacheKey())
		}
	}
}

func TestCombine_NoLimitIdentity(t *testing.T) {
	t.Parallel()
	captions := generatedCaptions(t)
	// Give the source non-contiguous indices so re-indexing is observable.
	for i := range captions {
		captions[i].Index = (i + 1) * 10
	}

	got, err := Combine(captions, models.Limits{})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if len(got) != len(captions) {
		t.Fatalf("length = %d, want %d", len(got), len(captions))
	}
	for i := range got {
		want := captions[i]
		want.Index = i + 1
		if got[i] != want {
			t.Errorf("caption %d = %+v, want %+v", i, got[i], want)
		}
	}
}
