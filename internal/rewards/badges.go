// Package rewards derives unlocked achievements from goal counts.
//
// Badges and uniforms are static catalogs keyed by unlock thresholds; the
// unlocked set is recomputed from the current goal collection on every
// change, so no per-badge unlocked flag is ever persisted.
package rewards

// Badge is a goal-count achievement definition.
type Badge struct {
	Label    string `json:"label"`
	Tooltip  string `json:"tooltip"`
	Image    string `json:"image"`
	UnlockAt int    `json:"unlockAt"`
}

// Uniform is a pilot-level achievement definition.
type Uniform struct {
	Label    string `json:"label"`
	Tooltip  string `json:"tooltip"`
	Image    string `json:"image"`
	UnlockAt int    `json:"unlockAt"`
}

// Badges is the reference catalog, ascending by unlock threshold.
var Badges = []Badge{
	{Label: "First Flight", Tooltip: "Earned for creating your 1st goal", Image: "/images/first-flight-badge.png", UnlockAt: 1},
	{Label: "Planning Cadet", Tooltip: "Earned for creating your 5th goal", Image: "/images/planning-cadet-badge.png", UnlockAt: 5},
	{Label: "Goal Getter", Tooltip: "Earned for creating your 10th goal", Image: "/images/goal-getter-badge.png", UnlockAt: 10},
	{Label: "Mission Strategist", Tooltip: "Earned for creating your 15th goal", Image: "/images/mission-strategist-badge.png", UnlockAt: 15},
	{Label: "Flight Commander", Tooltip: "Earned for creating your 20th goal", Image: "/images/flight-commander-badge.png", UnlockAt: 20},
	{Label: "Elite Pathfinder", Tooltip: "Earned for creating your 25th goal", Image: "/images/elite-pathfinder-badge.png", UnlockAt: 25},
}

// Uniforms is the pilot-rank catalog, ascending by level threshold.
var Uniforms = []Uniform{
	{Label: "Cadet Pilot", Tooltip: "Cadet Pilot (Level 1)", Image: "/images/cadet-pilot-uniform.png", UnlockAt: 1},
	{Label: "First Officer", Tooltip: "First Officer (Level 4)", Image: "/images/first-officer-uniform.png", UnlockAt: 4},
	{Label: "Second Officer", Tooltip: "Second Officer (Level 7)", Image: "/images/second-officer-uniform.png", UnlockAt: 7},
	{Label: "Captain", Tooltip: "Captain (Level 10)", Image: "/images/captain-uniform.png", UnlockAt: 10},
	{Label: "Elite Pilot", Tooltip: "Elite Pilot (Level 15)", Image: "/images/elite-pilot-uniform.png", UnlockAt: 15},
}

// Unlocked returns the badges earned at the given goal count. The result for
// a larger count is always a superset of the result for a smaller one.
func Unlocked(goalCount int) []Badge {
	out := make([]Badge, 0, len(Badges))
	for _, b := range Badges {
		if goalCount >= b.UnlockAt {
			out = append(out, b)
		}
	}
	return out
}

// XP computes experience points: 10 per goal created plus 10 per goal
// completed.
func XP(goalCount, completedCount int) int {
	return goalCount*10 + completedCount*10
}

// Level converts experience points to a pilot level (100 XP per level).
func Level(xp int) int {
	return xp / 100
}

// UnlockedUniforms returns the uniforms earned at the given pilot level.
func UnlockedUniforms(level int) []Uniform {
	out := make([]Uniform, 0, len(Uniforms))
	for _, u := range Uniforms {
		if level >= u.UnlockAt {
			out = append(out, u)
		}
	}
	return out
}
