package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReplayVersion is bumped whenever the Snapshot encoding changes.
const ReplayVersion = 1

// Replay is a recorded fight: one snapshot per runner step, starting with
// the state before the first step. CurrentIndex is the cursor used by Next
// and Skip.
type Replay struct {
	Name         string
	States       []*Snapshot
	CurrentIndex int
}

// NewReplay creates an empty replay named after the fight.
func NewReplay(name string) *Replay {
	return &Replay{
		Name:   name,
		States: make([]*Snapshot, 0),
	}
}

// RecordState appends a snapshot.
func (r *Replay) RecordState(snapshot *Snapshot) {
	r.States = append(r.States, snapshot)
}

// Start rewinds to the first state.
func (r *Replay) Start() {
	r.CurrentIndex = 0
}

// Next returns the state at the cursor and advances it, or nil at the end.
func (r *Replay) Next() *Snapshot {
	if r.CurrentIndex >= len(r.States) {
		return nil
	}
	state := r.States[r.CurrentIndex]
	r.CurrentIndex++
	return state
}

// Skip moves the cursor by count, clamped to the recording.
func (r *Replay) Skip(count int) {
	r.CurrentIndex += count
	if r.CurrentIndex > len(r.States)-1 {
		r.CurrentIndex = len(r.States) - 1
	}
	if r.CurrentIndex < 0 {
		r.CurrentIndex = 0
	}
}

// Size returns how many states were recorded.
func (r *Replay) Size() int {
	return len(r.States)
}

// Checksums hashes every recorded state in order.
func (r *Replay) Checksums() ([]string, error) {
	sums := make([]string, 0, len(r.States))
	for i, state := range r.States {
		sum, err := state.ComputeChecksum()
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		sums = append(sums, sum.Hash)
	}
	return sums, nil
}

// Path is where SaveToFile writes the replay inside directory.
func (r *Replay) Path(directory string) string {
	return filepath.Join(directory, r.Name+".replay")
}

// SaveToFile writes the replay to <directory>/<name>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(r.Path(directory))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{
		Name:       r.Name,
		Timestamp:  time.Now(),
		Version:    ReplayVersion,
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	for i, state := range r.States {
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(path string) (*Replay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != ReplayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.Name)
	for i := 0; i < metadata.StateCount; i++ {
		var state Snapshot
		if err := decoder.Decode(&state); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		replay.States = append(replay.States, &state)
	}
	return replay, nil
}

type replayMetadata struct {
	Name       string
	Timestamp  time.Time
	Version    int
	StateCount int
}
