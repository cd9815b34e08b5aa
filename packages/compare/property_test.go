package compare

import (
	"strconv"
	"testing"

	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func optionalString(label string) *rapid.Generator[*string] {
	return rapid.Custom(func(t *rapid.T) *string {
		if rapid.Bool().Draw(t, label+"IsNil") {
			return nil
		}
		s := rapid.String().Draw(t, label)
		return &s
	})
}

func TestProperty_ContainEmptyExpectedFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		actual := optionalString("actual").Draw(t, "realValue")
		op := rapid.SampledFrom([]Operator{Contain, NotContain}).Draw(t, "op")
		var expected *string
		if rapid.Bool().Draw(t, "blank") {
			expected = value.Ptr("")
		}

		out := Compare(actual, op, expected, Subject{})
		if !out.Failure {
			t.Fatalf("%s with empty expected passed for %s", op, value.Display(actual))
		}
	})
}

func TestProperty_MatchFamilyTruthiness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		actual := optionalString("actual").Draw(t, "realValue")
		op := rapid.SampledFrom([]Operator{RegMatch, XPathMatch, JSONPathMatch}).Draw(t, "op")

		out := Compare(actual, op, nil, Subject{})
		if out.Failure != value.IsEmpty(actual) {
			t.Fatalf("%s: failure=%v for %s", op, out.Failure, value.Display(actual))
		}

		expected := rapid.StringN(1, 16, -1).Draw(t, "expected")
		out = Compare(actual, op, &expected, Subject{})
		if out.Failure == (actual != nil && *actual == expected) {
			t.Fatalf("%s: failure=%v for %s vs %q", op, out.Failure, value.Display(actual), expected)
		}
	})
}

func TestProperty_NotEqualNegatesEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := optionalString("a").Draw(t, "left")
		b := optionalString("b").Draw(t, "right")

		eq := Compare(a, Equal, b, Subject{})
		ne := Compare(a, NotEqual, b, Subject{})
		if eq.Failure == ne.Failure {
			t.Fatalf("EQUAL and NOT_EQUAL agree for %s and %s", value.Display(a), value.Display(b))
		}
		if Compare(a, Equal, a, Subject{}).Failure {
			t.Fatalf("EQUAL is not reflexive for %s", value.Display(a))
		}
	})
}

func TestProperty_NumericOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "x")
		y := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "y")
		a, b := strconv.Itoa(x), strconv.Itoa(y)

		assert.Equal(t, !(x > y), Compare(&a, GreaterThan, &b, Subject{}).Failure)
		assert.Equal(t, !(x >= y), Compare(&a, GreaterThanEqual, &b, Subject{}).Failure)
		assert.Equal(t, !(x < y), Compare(&a, LessThan, &b, Subject{}).Failure)
		assert.Equal(t, !(x <= y), Compare(&a, LessThanEqual, &b, Subject{}).Failure)
	})
}

func TestProperty_NonNumericOperandFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		junk := rapid.OneOf(
			rapid.StringMatching(`[a-zA-Z]{1,4}[0-9]{0,3}`),
			rapid.SampledFrom([]string{"Inf", "inf", "-Inf", "+inf", "infinity", "INFINITY", "0x1p-2", "0x1F", "1_000"}),
		).Draw(t, "junk")
		op := rapid.SampledFrom([]Operator{GreaterThan, GreaterThanEqual, LessThan, LessThanEqual}).Draw(t, "op")
		n := "10"

		if _, ok := value.Number(&junk); ok {
			t.Skip("generated a parseable number")
		}
		out := Compare(&junk, op, &n, Subject{})
		assert.True(t, out.Failure)
		assert.Contains(t, out.Message, "not a number")

		out = Compare(&n, op, &junk, Subject{})
		assert.True(t, out.Failure)
		assert.Contains(t, out.Message, "not a number")
	})
}
