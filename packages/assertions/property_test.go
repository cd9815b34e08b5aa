package assertions

import (
	"testing"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"pgregory.net/rapid"
)

func configGen() *rapid.Generator[Config] {
	return rapid.Custom(func(t *rapid.T) Config {
		cfg := Config{
			Name:               rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name"),
			Type:               rapid.SampledFrom(Types).Draw(t, "type"),
			ParameterName:      rapid.SampledFrom([]string{"Content-Type", "X-Missing", ""}).Draw(t, "parameterName"),
			AssertionCondition: rapid.SampledFrom(compare.Operators).Draw(t, "op"),
			Expression:         rapid.SampledFrom([]string{"$.user.name", `(\w+)`, "//x", ""}).Draw(t, "expression"),
			Condition:          rapid.SampledFrom([]string{"", "${status} == 200", "${nope} == 1", "bogus"}).Draw(t, "condition"),
		}
		switch rapid.IntRange(0, 2).Draw(t, "enabled") {
		case 1:
			cfg.Enabled = BoolPtr(true)
		case 2:
			cfg.Enabled = BoolPtr(false)
		}
		if rapid.Bool().Draw(t, "hasExpected") {
			cfg.Expected = text(rapid.String().Draw(t, "expected"))
		}
		return cfg
	})
}

func TestProperty_EnabledCount(t *testing.T) {
	snap := createSnapshot()
	rapid.Check(t, func(t *rapid.T) {
		configs := rapid.SliceOf(configGen()).Draw(t, "configs")

		enabled := 0
		for i := range configs {
			if configs[i].IsEnabled() {
				enabled++
			}
		}

		results := Execute(configs, snap)
		if len(results) != enabled {
			t.Fatalf("got %d results for %d enabled configs", len(results), enabled)
		}
		for i := range results {
			if results[i].Ignored() && results[i].Result.Failure {
				t.Fatalf("ignored result %d reports failure", i)
			}
		}
	})
}

func TestProperty_MatchTruthiness(t *testing.T) {
	snap := createSnapshot()
	rapid.Check(t, func(t *rapid.T) {
		cfg := Config{
			Type:               TypeBody,
			AssertionCondition: rapid.SampledFrom([]compare.Operator{compare.RegMatch, compare.XPathMatch, compare.JSONPathMatch}).Draw(t, "op"),
			Expression:         rapid.SampledFrom([]string{"$.user.name", "$.note", "$.none", `"name":"(\w+)"`, `zzz(\d)`, "//user"}).Draw(t, "expression"),
		}

		results := Execute([]Config{cfg}, snap)
		if len(results) != 1 {
			t.Fatalf("got %d results", len(results))
		}
		r := results[0].Result
		if r.Failure != value.IsEmpty(r.RealValueData) {
			t.Fatalf("failure=%v with real value %s", r.Failure, value.Display(r.RealValueData))
		}
	})
}
