package conflict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batch creates five sources in src/ and pre-populates dst/ with copies of
// the two listed as conflicting.
func batch(t *testing.T, conflicting ...string) (sources []string, dst string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst = filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(dst, 0o755))

	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		p := filepath.Join(src, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		sources = append(sources, p)
	}
	for _, name := range conflicting {
		require.NoError(t, os.WriteFile(filepath.Join(dst, name), []byte("old"), 0o644))
	}
	return sources, dst
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestScan(t *testing.T) {
	sources, dst := batch(t, "b.txt", "d.txt")
	p := Scan(sources, dst)

	assert.Equal(t, []string{"a.txt", "c.txt", "e.txt"}, names(p.Clear))
	require.Len(t, p.Conflicting, 2)
	assert.Equal(t, "b.txt", p.Conflicting[0].Name)
	assert.Equal(t, filepath.Join(dst, "b.txt"), p.Conflicting[0].Target)
	assert.False(t, p.Conflicting[0].Existing.IsDir)
	assert.Contains(t, p.Conflicting[0].String(), "already exists (file")
	assert.Len(t, p.Sources, 5)
	assert.Empty(t, p.SelfTargets)
}

func TestScan_SelfTargetExcluded(t *testing.T) {
	sources, _ := batch(t)
	srcDir := filepath.Dir(sources[0])

	p := Scan(sources, srcDir)
	assert.Len(t, p.SelfTargets, 5)
	assert.Empty(t, p.Sources)
	assert.Empty(t, p.Conflicting)
}

func TestScan_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	first := filepath.Join(dir, "a", "x.txt")
	second := filepath.Join(dir, "b", "x.txt")
	other := filepath.Join(dir, "b", "y.txt")
	for _, p := range []string{first, second, other} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(p), 0o644))
	}

	p := Scan([]string{first, second, other}, dst)
	assert.Equal(t, []string{first, other}, p.Sources)
	assert.Equal(t, []string{first, other}, p.Clear)
	assert.Equal(t, []string{second}, p.Duplicates)
	assert.Empty(t, p.Conflicting)

	res := Resolve(p, Fixed(ReplaceAll))
	assert.Equal(t, []string{first, other}, res.Sources)
	assert.Equal(t, []string{"x.txt: duplicate name in batch (skipped)"}, res.Skipped)
}

func TestScan_DuplicateOfConflict(t *testing.T) {
	sources, dst := batch(t, "a.txt")
	again := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(again, []byte("again"), 0o644))

	p := Scan(append(sources, again), dst)
	require.Len(t, p.Conflicting, 1)
	assert.Equal(t, sources[0], p.Conflicting[0].Source)
	assert.Equal(t, []string{again}, p.Duplicates)

	res := Resolve(p, Fixed(ReplaceAll))
	assert.NotContains(t, res.Sources, again)
	assert.Len(t, res.Sources, 5)
	assert.Equal(t, []string{DuplicateMessage("a.txt")}, res.Skipped)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		decider   Decider
		sources   []string
		skipped   []string
		cancelled bool
	}{
		{
			name:    "replace all",
			decider: Fixed(ReplaceAll),
			sources: []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"},
		},
		{
			name:    "skip all",
			decider: Fixed(SkipAll),
			sources: []string{"a.txt", "c.txt", "e.txt"},
			skipped: []string{"b.txt: already exists (skipped)", "d.txt: already exists (skipped)"},
		},
		{
			name:      "cancel",
			decider:   Fixed(Cancel),
			cancelled: true,
		},
		{
			name: "ask each",
			decider: Funcs{
				Batch: func([]Conflict) Policy { return AskEach },
				Item: func(c Conflict) Decision {
					if c.Name == "b.txt" {
						return Replace
					}
					return Skip
				},
			},
			sources: []string{"a.txt", "b.txt", "c.txt", "e.txt"},
			skipped: []string{"d.txt: already exists (skipped)"},
		},
		{
			name: "ask each then stop",
			decider: Funcs{
				Batch: func([]Conflict) Policy { return AskEach },
				Item:  func(Conflict) Decision { return Stop },
			},
			sources: []string{"a.txt", "c.txt", "e.txt"},
			skipped: []string{"b.txt: already exists (skipped)", "d.txt: already exists (skipped)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources, dst := batch(t, "b.txt", "d.txt")
			res := Resolve(Scan(sources, dst), tt.decider)

			assert.Equal(t, tt.cancelled, res.Cancelled)
			if tt.cancelled {
				assert.True(t, res.Empty())
				return
			}
			assert.Equal(t, tt.sources, names(res.Sources))
			assert.Equal(t, tt.skipped, res.Skipped)
		})
	}
}

func TestResolve_StopKeepsEarlierDecisions(t *testing.T) {
	sources, dst := batch(t, "a.txt", "b.txt", "c.txt")
	var asked []string
	d := Funcs{
		Batch: func([]Conflict) Policy { return AskEach },
		Item: func(c Conflict) Decision {
			asked = append(asked, c.Name)
			if c.Name == "a.txt" {
				return Replace
			}
			return Stop
		},
	}

	res := Resolve(Scan(sources, dst), d)
	assert.Equal(t, []string{"a.txt", "b.txt"}, asked, "no prompt after Stop")
	assert.Equal(t, []string{"a.txt", "d.txt", "e.txt"}, names(res.Sources))
	assert.Len(t, res.Skipped, 2)
}

func TestResolve_NoConflictsNeverAsks(t *testing.T) {
	sources, dst := batch(t)
	d := Funcs{Batch: func([]Conflict) Policy {
		t.Fatal("decider consulted without conflicts")
		return Cancel
	}}

	res := Resolve(Scan(sources, dst), d)
	assert.Len(t, res.Sources, 5)
	assert.Empty(t, res.Skipped)
}

func TestFixed_DecideItem(t *testing.T) {
	assert.Equal(t, Replace, Fixed(ReplaceAll).DecideItem(Conflict{}))
	assert.Equal(t, Skip, Fixed(SkipAll).DecideItem(Conflict{}))
	assert.Equal(t, Skip, Fixed(AskEach).DecideItem(Conflict{}))
	assert.Equal(t, Stop, Fixed(Cancel).DecideItem(Conflict{}))
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{ReplaceAll, SkipAll, AskEach, Cancel} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePolicy(" Overwrite ")
	require.NoError(t, err)
	assert.Equal(t, ReplaceAll, got)

	_, err = ParsePolicy("maybe")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
