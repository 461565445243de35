package schedule

// Rand is the source of randomness used for drawing players.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// shuffle permutes students in place with a Fisher-Yates pass.
func shuffle(rng Rand, students []string) {
	for i := len(students) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		students[i], students[j] = students[j], students[i]
	}
}

// draw returns up to n students chosen uniformly at random from pool.
// The pool itself is left untouched.
func draw(rng Rand, pool []string, n int) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	shuffle(rng, shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
