package integration

import (
	"path/filepath"
	"testing"
)

func TestWatchersFollowTheLootFight(t *testing.T) {
	fight, res := runScenario(t, filepath.Join("..", "..", "scenarios", "loot.yaml"))

	thug, ok := fight.Entity("thug")
	if !ok {
		t.Fatal("thug missing")
	}
	hero, _ := fight.Entity("hero")

	died := fight.Stats.Deaths.GetDied()
	if len(died) != 1 || died[0] != thug {
		t.Fatalf("expected only the thug to die, got %v", died)
	}
	if got := fight.Stats.Damage.GetDamage(thug); got != 1 {
		t.Errorf("thug damage = %d, want 1", got)
	}
	if got := fight.Stats.Damage.GetDamage(hero); got != 0 {
		t.Errorf("hero damage = %d, want 0", got)
	}
	if got := fight.Stats.Damage.GetTotal(); got != 1 {
		t.Errorf("total damage = %d, want 1", got)
	}
	if res.Contests != 0 || fight.Stats.Interrupt.GetContests() != 0 {
		t.Errorf("no contest expected, got %d", res.Contests)
	}
}

func TestWatchersCountTheBlockedHit(t *testing.T) {
	fight, _ := runScenario(t, filepath.Join("..", "..", "scenarios", "block.yaml"))

	if got := fight.Stats.Damage.GetTotal(); got != 0 {
		t.Errorf("a fully blocked punch dealt %d", got)
	}
	if died := fight.Stats.Deaths.GetDied(); len(died) != 0 {
		t.Errorf("nobody should die, got %v", died)
	}
}
