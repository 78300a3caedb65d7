package player

import (
	"math"

	"github.com/mcoot/playerregistry/internal/model"
)

// LevelFor returns the level reached with the given experience:
// floor((sqrt(2500 + 200*experience) - 50) / 100)
func LevelFor(experience int) int {
	root := isqrt(2500 + 200*int64(experience))
	return int((root - 50) / 100)
}

// UntilNextLevel returns the experience still needed to leave the given level
func UntilNextLevel(level, experience int) int {
	return 50*(level+1)*(level+2) - experience
}

// ApplyDerivedStats recomputes Level and UntilNextLevel from Experience.
// Called exactly once before every persist.
func ApplyDerivedStats(p *model.Player) {
	p.Level = LevelFor(p.Experience)
	p.UntilNextLevel = UntilNextLevel(p.Level, p.Experience)
}

// isqrt returns floor(sqrt(n)) for n >= 0
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
