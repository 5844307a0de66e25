package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Tables(t *testing.T) {
	rs := Default()

	assert.True(t, rs.IsDeprecated("ns_share"))
	assert.True(t, rs.IsDeprecated("ns_db verbose"), "two-word deprecated name")
	assert.False(t, rs.IsDeprecated("ns_mkdir"), "rewritable commands are not deprecated-only")

	assert.True(t, rs.IsUncertain("ns_set new"))
	assert.False(t, rs.IsUncertain("ns_share"))
}

func TestDefault_TwoWordRulesComeFirst(t *testing.T) {
	rs := Default()

	require.NotEmpty(t, rs.Rewrites)
	assert.Equal(t, "ns_thread start", rs.Rewrites[0].Name)
	assert.Equal(t, "ns_thread join", rs.Rewrites[1].Name)
}

func TestDefault_WholeWordBoundary(t *testing.T) {
	rs := Default()

	var mkdir *Rewrite
	for i := range rs.Rewrites {
		if rs.Rewrites[i].Name == "ns_mkdir" {
			mkdir = &rs.Rewrites[i]
		}
	}
	require.NotNil(t, mkdir)

	assert.True(t, mkdir.Pattern.MatchString("ns_mkdir $dir"))
	assert.False(t, mkdir.Pattern.MatchString("ns_mkdirall $dir"), "must not match as a prefix")
	assert.False(t, mkdir.Pattern.MatchString("my_ns_mkdir $dir"), "must not match as a suffix")
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name       string
		deprecated []string
		uncertain  []string
		extras     []Spec
		wantError  string
		check      func(t *testing.T, rs *RuleSet)
	}{
		{
			name:       "extra_names",
			deprecated: []string{"ns_oldthing"},
			uncertain:  []string{"ns_maybe"},
			check: func(t *testing.T, rs *RuleSet) {
				assert.True(t, rs.IsDeprecated("ns_oldthing"))
				assert.True(t, rs.IsDeprecated("ns_share"), "built-ins survive the merge")
				assert.True(t, rs.IsUncertain("ns_maybe"))
			},
		},
		{
			name:   "extra_rule_appended_after_builtins",
			extras: []Spec{{Name: "ns_custom", Pattern: `\bns_custom\b`, Replace: "my_custom"}},
			check: func(t *testing.T, rs *RuleSet) {
				last := rs.Rewrites[len(rs.Rewrites)-1]
				assert.Equal(t, "ns_custom", last.Name)
				assert.Equal(t, len(Default().Rewrites)+1, len(rs.Rewrites))
			},
		},
		{
			name:      "missing_pattern",
			extras:    []Spec{{Name: "ns_custom"}},
			wantError: "pattern is required",
		},
		{
			name:      "bad_pattern",
			extras:    []Spec{{Name: "ns_custom", Pattern: `(`}},
			wantError: "compiling extra rule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Default().Merge(tt.deprecated, tt.uncertain, tt.extras)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			tt.check(t, rs)
		})
	}
}

func TestMerge_DoesNotMutateOriginal(t *testing.T) {
	base := Default()
	before := len(base.Rewrites)

	_, err := base.Merge([]string{"ns_x"}, nil, []Spec{{Name: "ns_y", Pattern: `\bns_y\b`, Replace: "z"}})
	require.NoError(t, err)

	assert.Equal(t, before, len(base.Rewrites))
	assert.False(t, base.IsDeprecated("ns_x"))
}
