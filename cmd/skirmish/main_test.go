package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skirmish/internal/registry"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{registry: registry.Default()}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEnvsCmd(t *testing.T) {
	out, err := execute(t, "envs")
	if err != nil {
		t.Fatalf("envs: %v", err)
	}
	if !strings.Contains(out, "Skirmish-v0\tmax_episode_steps=100") {
		t.Errorf("output = %q", out)
	}
}

func TestRunCmd_Scenario(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "episode.json")
	eventsPath := filepath.Join(dir, "events.jsonl")
	dbPath := filepath.Join(dir, "episodes.db")

	out, err := execute(t, "run",
		"--policy", "aggressive", "--fighter-pos", "1", "--render", "human",
		"--out", outPath, "--events", eventsPath, "--store", dbPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Rogue took action ATTACK. Fighter took action NONE.") {
		t.Errorf("trace missing final turn:\n%s", out)
	}
	if !strings.Contains(out, "Result=victory, Turns=3, Return=10.0") {
		t.Errorf("summary line missing:\n%s", out)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Turns  int    `json:"turns"`
		Result string `json:"result"`
		Steps  []struct {
			Action string `json:"action"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("bad result json: %v", err)
	}
	if res.Turns != 3 || res.Result != "victory" || len(res.Steps) != 3 || res.Steps[0].Action != "ATTACK" {
		t.Errorf("result = %+v", res)
	}

	events, err := os.ReadFile(eventsPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(events), "\n"); n != 11 {
		// 2 spawns + 5 actions + 3 turns + 1 end
		t.Errorf("event lines = %d, want 11", n)
	}

	out, err = execute(t, "history", "--store", dbPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "1 episodes (all policies): 1 victories") {
		t.Errorf("history output = %q", out)
	}
}

func TestRunCmd_InvalidRender(t *testing.T) {
	if _, err := execute(t, "run", "--render", "rgb_array", "--out", ""); err == nil {
		t.Error("expected render mode error")
	}
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "summary.json")
	dbPath := filepath.Join(dir, "episodes.db")

	out, err := execute(t, "batch", "--runs", "6", "--workers", "2", "--policy", "kite",
		"--seed", "3", "--out", outPath, "--store", dbPath)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Batch 6 done.") {
		t.Errorf("output = %q", out)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var sum struct {
		Runs   int    `json:"runs"`
		Policy string `json:"policy"`
	}
	if err := json.Unmarshal(b, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Runs != 6 || sum.Policy != "kite" {
		t.Errorf("summary = %+v", sum)
	}

	out, err = execute(t, "history", "--store", dbPath, "--policy", "kite")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "6 episodes (kite)") {
		t.Errorf("history output = %q", out)
	}
}

func TestHistoryCmd_NoStore(t *testing.T) {
	if _, err := execute(t, "history"); err == nil {
		t.Error("expected error without a store")
	}
}

func TestConfigCmd_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skirmish.yaml")
	if _, err := execute(t, "config", path); err != nil {
		t.Fatalf("config: %v", err)
	}
	out, err := execute(t, "--config", path, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "id: Skirmish-v0") || !strings.Contains(out, "size: 30") {
		t.Errorf("config output = %q", out)
	}
}
