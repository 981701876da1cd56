package utils_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/tarnlab/tarn/pkg/utils"
	"github.com/tarnlab/tarn/pkg/utils/cmp"
)

func TestMap(t *testing.T) {
	t.Run("it maps each element, keeping order", func(t *testing.T) {
		actual := utils.Map([]int{3, 1, 4, 1, 5}, strconv.Itoa)
		expected := []string{"3", "1", "4", "1", "5"}
		if !cmp.SliceEq(actual, expected) {
			t.Errorf("unmatch: %v (expected: %v)", actual, expected)
		}
	})
	t.Run("it maps an empty slice to an empty slice", func(t *testing.T) {
		actual := utils.Map([]int{}, strconv.Itoa)
		if len(actual) != 0 {
			t.Errorf("unmatch: %v (expected: empty)", actual)
		}
	})
}

func TestMapUntilError(t *testing.T) {
	t.Run("it maps each element when no error occurs", func(t *testing.T) {
		actual, err := utils.MapUntilError(
			[]string{"3", "1", "4"}, strconv.Atoi,
		)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(actual, []int{3, 1, 4}) {
			t.Errorf("unmatch: %v", actual)
		}
	})
	t.Run("it stops at the first error and exposes no partial result", func(t *testing.T) {
		expectedErr := errors.New("expected error")
		calls := 0
		actual, err := utils.MapUntilError(
			[]string{"3", "one", "4"},
			func(v string) (int, error) {
				calls += 1
				if n, e := strconv.Atoi(v); e == nil {
					return n, nil
				}
				return 0, expectedErr
			},
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
		if actual != nil {
			t.Errorf("partial result is exposed: %v", actual)
		}
		if calls != 2 {
			t.Errorf("mapper is called %d times (expected: 2)", calls)
		}
	})
}

func TestToMap(t *testing.T) {
	t.Run("it indexes elements by the extracted key", func(t *testing.T) {
		type item struct {
			name  string
			value int
		}
		actual := utils.ToMap(
			[]item{{"a", 1}, {"b", 2}, {"a", 3}},
			func(i item) string { return i.name },
		)
		expected := map[string]item{
			"a": {"a", 3}, // the later element wins
			"b": {"b", 2},
		}
		if !cmp.MapEq(actual, expected) {
			t.Errorf("unmatch: %v (expected: %v)", actual, expected)
		}
	})
}

func TestKeysOfValuesOf(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}

	if actual := utils.KeysOf(m); !cmp.SliceContentEq(actual, []string{"a", "b", "c"}) {
		t.Errorf("keys unmatch: %v", actual)
	}
	if actual := utils.ValuesOf(m); !cmp.SliceContentEq(actual, []int{1, 2, 3}) {
		t.Errorf("values unmatch: %v", actual)
	}
}
