package participant

import "testing"

func TestComputeStats(t *testing.T) {
	t.Run("rounds kda and kill participation", func(t *testing.T) {
		got := ComputeStats(7, 3, 5, 25, 180, 1800)
		if got.KDA != 4 {
			t.Fatalf("kda=%v want 4", got.KDA)
		}
		if got.KillParticipation != 0.48 {
			t.Fatalf("kp=%v want 0.48", got.KillParticipation)
		}
		if got.CSPerMinute != 6 {
			t.Fatalf("cs/min=%v want 6", got.CSPerMinute)
		}
	})

	t.Run("zero deaths counts as one", func(t *testing.T) {
		got := ComputeStats(2, 0, 1, 9, 0, 600)
		if got.KDA != 3 {
			t.Fatalf("kda=%v want 3", got.KDA)
		}
		if got.KillParticipation != 0.33 {
			t.Fatalf("kp=%v want 0.33", got.KillParticipation)
		}
	})

	t.Run("no team kills yields zero participation", func(t *testing.T) {
		got := ComputeStats(0, 4, 0, 0, 30, 900)
		if got.KillParticipation != 0 {
			t.Fatalf("kp=%v want 0", got.KillParticipation)
		}
		if got.KDA != 0 {
			t.Fatalf("kda=%v want 0", got.KDA)
		}
	})

	t.Run("zero duration yields zero cs per minute", func(t *testing.T) {
		got := ComputeStats(1, 1, 1, 2, 50, 0)
		if got.CSPerMinute != 0 {
			t.Fatalf("cs/min=%v want 0", got.CSPerMinute)
		}
	})

	t.Run("kda rounds half away from zero", func(t *testing.T) {
		got := ComputeStats(1, 3, 1, 10, 0, 60)
		if got.KDA != 0.67 {
			t.Fatalf("kda=%v want 0.67", got.KDA)
		}
	})
}
