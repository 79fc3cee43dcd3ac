package rewards

import "testing"

func TestUnlocked(t *testing.T) {
	tests := []struct {
		goalCount int
		want      int
	}{
		{goalCount: 0, want: 0},
		{goalCount: 1, want: 1},
		{goalCount: 4, want: 1},
		{goalCount: 5, want: 2},
		{goalCount: 10, want: 3},
		{goalCount: 25, want: 6},
		{goalCount: 100, want: 6},
	}

	for _, tt := range tests {
		if got := len(Unlocked(tt.goalCount)); got != tt.want {
			t.Errorf("Unlocked(%d) returned %d badges, want %d", tt.goalCount, got, tt.want)
		}
	}
}

// A larger goal count never loses a badge earned at a smaller one.
func TestUnlocked_Monotone(t *testing.T) {
	prev := 0
	for count := 0; count <= 30; count++ {
		got := len(Unlocked(count))
		if got < prev {
			t.Fatalf("Unlocked(%d) returned %d badges, fewer than Unlocked(%d) = %d", count, got, count-1, prev)
		}
		prev = got
	}
}

func TestXPAndLevel(t *testing.T) {
	tests := []struct {
		goals     int
		completed int
		wantXP    int
		wantLevel int
	}{
		{goals: 0, completed: 0, wantXP: 0, wantLevel: 0},
		{goals: 3, completed: 1, wantXP: 40, wantLevel: 0},
		{goals: 5, completed: 5, wantXP: 100, wantLevel: 1},
		{goals: 30, completed: 12, wantXP: 420, wantLevel: 4},
	}

	for _, tt := range tests {
		xp := XP(tt.goals, tt.completed)
		if xp != tt.wantXP {
			t.Errorf("XP(%d, %d) = %d, want %d", tt.goals, tt.completed, xp, tt.wantXP)
		}
		if lvl := Level(xp); lvl != tt.wantLevel {
			t.Errorf("Level(%d) = %d, want %d", xp, lvl, tt.wantLevel)
		}
	}
}

func TestUnlockedUniforms(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{level: 0, want: 0},
		{level: 1, want: 1},
		{level: 4, want: 2},
		{level: 10, want: 4},
		{level: 15, want: 5},
		{level: 99, want: 5},
	}

	for _, tt := range tests {
		if got := len(UnlockedUniforms(tt.level)); got != tt.want {
			t.Errorf("UnlockedUniforms(%d) returned %d uniforms, want %d", tt.level, got, tt.want)
		}
	}
}
