package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterpunch/counterpunch-go/internal/scenario"
)

const blockScenario = `
name: block
seed: 7
arena: {width: 6, height: 6}
entities:
  - name: thug
    at: {x: 1, y: 1}
    hp: 5
    schedule: {current: 1, base: 3, delta: 1}
  - name: hero
    at: {x: 2, y: 1}
    hp: 5
    player: true
    can_react: true
script:
  - actor: thug
    attack: {move: punch, at: {x: 2, y: 1}}
  - actor: hero
    block: 1
expect:
  - entity: hero
    hp: %d
`

func writeScenario(t *testing.T, wantHP int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "block.yaml")
	data := []byte(fmt.Sprintf(blockScenario, wantHP))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand("test")
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand("test")
	for _, name := range []string{"simulate", "serve", "ranges", "replay"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "ranges", "punch", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestSimulatePasses(t *testing.T) {
	out, err := execute(t, "simulate", writeScenario(t, 5))
	require.NoError(t, err)

	assert.Contains(t, out, "== block ==")
	assert.Contains(t, out, "  hero blocks 1\n")
	assert.Contains(t, out, "steps: 3  finished: true  player dead: false")
	assert.Contains(t, out, "PASS")
}

func TestSimulateQuietOmitsLog(t *testing.T) {
	out, err := execute(t, "simulate", "--quiet", writeScenario(t, 5))
	require.NoError(t, err)
	assert.NotContains(t, out, "hero blocks 1")
}

func TestSimulateReportsFailures(t *testing.T) {
	out, err := execute(t, "simulate", writeScenario(t, 1))
	require.Error(t, err)
	assert.Equal(t, "1 of 1 scenario(s) failed", err.Error())
	assert.Contains(t, out, "FAIL hero: hp=5, want 1")
}

func TestSimulateJSON(t *testing.T) {
	path := writeScenario(t, 5)
	out, err := execute(t, "simulate", "--format", "json", path, path)
	require.NoError(t, err)

	var results []scenario.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "block", results[0].Scenario)
	assert.NotEmpty(t, results[0].Checksum)
	assert.Equal(t, results[0].Checksum, results[1].Checksum)
}

func TestSimulateMissingFile(t *testing.T) {
	_, err := execute(t, "simulate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestRangesRendersMoves(t *testing.T) {
	out, err := execute(t, "ranges", "punch", "--size", "3")
	require.NoError(t, err)

	want := "punch reach (square:1)\n***\n*@*\n***\n\n" +
		"punch shape (single)\n...\n.@.\n...\n\n"
	assert.Equal(t, want, out)
}

func TestRangesLiteral(t *testing.T) {
	out, err := execute(t, "ranges", "--range", "custom:1,0;2,0", "--size", "5")
	require.NoError(t, err)

	want := "custom:1,0;2,0 (custom:1,0;2,0)\n.....\n.....\n..@**\n.....\n.....\n\n"
	assert.Equal(t, want, out)
}

func TestRangesErrors(t *testing.T) {
	_, err := execute(t, "ranges", "kick")
	assert.Error(t, err)

	_, err = execute(t, "ranges", "--size", "4")
	assert.Error(t, err)

	_, err = execute(t, "ranges", "--range", "circle:2")
	assert.Error(t, err)
}

func TestRangesJSON(t *testing.T) {
	out, err := execute(t, "ranges", "ponder", "--format", "json")
	require.NoError(t, err)

	var got []footprint
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ponder reach", got[0].Name)
	assert.Equal(t, "empty", got[0].Range)
	assert.Empty(t, got[0].Points)
}

func TestSimulateUsesConfiguredArena(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "counterpunch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\narena:\n  width: 3\n  height: 3\n  seed: 5\n"), 0o644))

	scenarioPath := filepath.Join(dir, "bare.yaml")
	bare := "name: bare\nentities:\n  - {name: hero, at: {x: 2, y: 2}, hp: 3, player: true}\nexpect:\n  - {entity: hero, at: {x: 2, y: 2}}\n"
	require.NoError(t, os.WriteFile(scenarioPath, []byte(bare), 0o644))

	out, err := execute(t, "simulate", "--config", cfgPath, scenarioPath)
	require.NoError(t, err)
	assert.Contains(t, out, "== bare ==")
	assert.Contains(t, out, "PASS")

	_, err = execute(t, "simulate", scenarioPath)
	require.NoError(t, err, "the default arena is 12x12")
}

func recordReplay(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := execute(t, "simulate", "--quiet", "--replay-dir", dir, writeScenario(t, 5))
	require.NoError(t, err)
	path := filepath.Join(dir, "block.replay")
	require.FileExists(t, path)
	return path
}

func TestReplayListsEveryState(t *testing.T) {
	out, err := execute(t, "replay", recordReplay(t))
	require.NoError(t, err)

	assert.Contains(t, out, "replay block: 4 state(s)\n")
	assert.Contains(t, out, "waiting: punch (DAMAGE{1})")
	assert.Contains(t, out, "hero=5 thug=5")
}

func TestReplayJSONStep(t *testing.T) {
	path := recordReplay(t)
	out, err := execute(t, "replay", "--format", "json", "--step", "3", path)
	require.NoError(t, err)

	var steps []replayStep
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 1)
	assert.Equal(t, 3, steps[0].Step)
	assert.Equal(t, map[string]int{"hero": 5, "thug": 5}, steps[0].HP)
	assert.Empty(t, steps[0].Stashed)

	sim, err := execute(t, "simulate", "--format", "json", writeScenario(t, 5))
	require.NoError(t, err)
	var results []scenario.Result
	require.NoError(t, json.Unmarshal([]byte(sim), &results))
	assert.Equal(t, results[0].Checksum, steps[0].Checksum)
}

func TestReplayErrors(t *testing.T) {
	_, err := execute(t, "replay", "--step", "9", recordReplay(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay has steps 0..3")

	_, err = execute(t, "replay", filepath.Join(t.TempDir(), "missing.replay"))
	assert.Error(t, err)
}
