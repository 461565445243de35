package schedule

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
)

// identityRand always picks the highest index, so shuffle leaves the
// order unchanged and draw takes a plain prefix.
type identityRand struct{}

func (identityRand) Intn(n int) int { return n - 1 }

type recordingRand struct {
	calls []int
}

func (r *recordingRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	return 0
}

func TestShuffleWalksDownFromLastIndex(t *testing.T) {
	rng := &recordingRand{}
	students := []string{"A", "B", "C", "D"}
	shuffle(rng, students)

	want := []int{4, 3, 2}
	if !slices.Equal(rng.calls, want) {
		t.Errorf("Intn calls = %v, want %v", rng.calls, want)
	}
	// j is always 0: [A B C D] -> [D B C A] -> [C B D A] -> [B C D A]
	if got := strings.Join(students, ""); got != "BCDA" {
		t.Errorf("shuffled = %s, want BCDA", got)
	}
}

func TestShuffleUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const rounds = 60000
	counts := make(map[string]int)
	for i := 0; i < rounds; i++ {
		students := []string{"A", "B", "C"}
		shuffle(rng, students)
		counts[strings.Join(students, "")]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d permutations, want 6: %v", len(counts), counts)
	}
	expected := rounds / 6
	for perm, c := range counts {
		if c < expected*9/10 || c > expected*11/10 {
			t.Errorf("permutation %s seen %d times, want about %d", perm, c, expected)
		}
	}
}

func TestDraw(t *testing.T) {
	pool := []string{"A", "B", "C", "D"}

	t.Run("takes a prefix of the shuffle", func(t *testing.T) {
		got := draw(identityRand{}, pool, 2)
		if !slices.Equal(got, []string{"A", "B"}) {
			t.Errorf("draw = %v, want [A B]", got)
		}
	})

	t.Run("whole pool when request exceeds it", func(t *testing.T) {
		got := draw(rand.New(rand.NewSource(1)), pool, 10)
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, pool) {
			t.Errorf("draw = %v, want a permutation of %v", got, pool)
		}
	})

	t.Run("exact pool when sizes match", func(t *testing.T) {
		got := draw(rand.New(rand.NewSource(2)), pool, len(pool))
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, pool) {
			t.Errorf("draw = %v, want a permutation of %v", got, pool)
		}
	})

	t.Run("zero or negative request", func(t *testing.T) {
		if got := draw(identityRand{}, pool, 0); len(got) != 0 {
			t.Errorf("draw(0) = %v, want empty", got)
		}
		if got := draw(identityRand{}, pool, -1); len(got) != 0 {
			t.Errorf("draw(-1) = %v, want empty", got)
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		if got := draw(identityRand{}, nil, 3); len(got) != 0 {
			t.Errorf("draw from empty pool = %v, want empty", got)
		}
	})

	t.Run("pool is not mutated", func(t *testing.T) {
		orig := []string{"A", "B", "C", "D"}
		p := slices.Clone(orig)
		draw(rand.New(rand.NewSource(3)), p, 2)
		if !slices.Equal(p, orig) {
			t.Errorf("pool mutated to %v", p)
		}
	})

	t.Run("subsets are uniform", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		const rounds = 30000
		counts := make(map[string]int)
		for i := 0; i < rounds; i++ {
			got := draw(rng, pool, 1)
			counts[got[0]]++
		}
		expected := rounds / len(pool)
		for s, c := range counts {
			if c < expected*9/10 || c > expected*11/10 {
				t.Errorf("%s drawn %d times, want about %d", s, c, expected)
			}
		}
	})
}
