package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
)

// SerializationChecksum is a deterministic fingerprint of a Snapshot.
// Two runs with the same seed and script must produce the same hash.
type SerializationChecksum struct {
	Hash      string
	Timestamp string
	Version   int
}

// EntityState is the checksummed view of one live entity. Optional
// components are stored by value next to a presence flag; gob drops zero
// values, so pointers would not survive a roundtrip.
type EntityState struct {
	Handle      ecs.Entity
	Name        string
	Player      bool
	Position    grid.Point
	Health      component.Health
	HasHealth   bool
	Block       int
	CanAct      component.CanAct
	Acting      bool
	Schedulable component.Schedulable
	Scheduled   bool
	InProgress  bool
}

// ItemState is an item lying on the arena.
type ItemState struct {
	At      grid.Point
	Name    string
	Heal    int
	Choices []moves.MoveID
}

// Snapshot captures the world state relevant to a fight. Event IDs are
// random and left out; the stack is recorded by description only.
type Snapshot struct {
	Timestamp time.Time
	Entities  []EntityState
	Items     []ItemState
	Stack     []string
	Stashed   string
	Intents   IntentData
}

// Snapshot captures the current engine state.
func (e *EventEngine) Snapshot() *Snapshot {
	snap := &Snapshot{
		Timestamp: time.Now().UTC(),
		Intents:   e.Intents(),
	}

	for _, ent := range e.world.Query(component.CPosition) {
		snap.Entities = append(snap.Entities, e.entityState(ent))
	}

	for _, p := range e.arena.Items() {
		item, _ := e.arena.ItemAt(p)
		state := ItemState{At: p}
		if name, ok := ecs.GetAs[component.Name](e.world, item); ok {
			state.Name = name.Name
		}
		if heal, ok := ecs.GetAs[component.HealPickup](e.world, item); ok {
			state.Heal = heal.Amount
		}
		if skills, ok := ecs.GetAs[component.SkillChoice](e.world, item); ok {
			state.Choices = append([]moves.MoveID(nil), skills.Choices...)
		}
		snap.Items = append(snap.Items, state)
	}

	for _, ev := range e.stack.List() {
		snap.Stack = append(snap.Stack, ev.Describe())
	}
	if e.stash != nil {
		snap.Stashed = e.stash.Describe()
	}
	return snap
}

func (e *EventEngine) entityState(ent ecs.Entity) EntityState {
	state := EntityState{
		Handle:     ent,
		Player:     e.world.Has(ent, component.CPlayer),
		InProgress: e.world.Has(ent, component.CAttackInProgress),
	}
	if name, ok := ecs.GetAs[component.Name](e.world, ent); ok {
		state.Name = name.Name
	}
	if pos, ok := ecs.GetAs[component.Position](e.world, ent); ok {
		state.Position = pos.Point
	}
	state.Health, state.HasHealth = ecs.GetAs[component.Health](e.world, ent)
	if block, ok := ecs.GetAs[component.BlockAttack](e.world, ent); ok {
		state.Block = block.Amount
	}
	state.CanAct, state.Acting = ecs.GetAs[component.CanAct](e.world, ent)
	state.Schedulable, state.Scheduled = ecs.GetAs[component.Schedulable](e.world, ent)
	return state
}

// ComputeChecksum hashes the deterministic representation of the snapshot.
func (s *Snapshot) ComputeChecksum() (*SerializationChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.buildDeterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}

	return &SerializationChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: s.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		Version:   1,
	}, nil
}

// Entities and items are already ordered by handle and tile index, so the
// representation only has to avoid timestamps and event IDs.
func (s *Snapshot) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	for _, ent := range s.Entities {
		fmt.Fprintf(&buf, "ENTITY:%s|%s|%t|%t|%d\n", ent.Handle, ent.Name, ent.Player, ent.InProgress, ent.Block)
		fmt.Fprintf(&buf, "  POS:%s\n", ent.Position)
		if ent.HasHealth {
			fmt.Fprintf(&buf, "  HP:%d/%d\n", ent.Health.Current, ent.Health.Max)
		}
		if ent.Acting {
			fmt.Fprintf(&buf, "  ACT:%t|%s\n", ent.CanAct.IsReaction, ent.CanAct.ReactionTarget)
		}
		if ent.Scheduled {
			fmt.Fprintf(&buf, "  SCHED:%d|%d|%d\n", ent.Schedulable.Current, ent.Schedulable.Base, ent.Schedulable.Delta)
		}
	}

	for _, item := range s.Items {
		choices := make([]string, len(item.Choices))
		for i, c := range item.Choices {
			choices[i] = string(c)
		}
		fmt.Fprintf(&buf, "ITEM:%s|%s|%d|%s\n", item.At, item.Name, item.Heal, strings.Join(choices, ","))
	}

	// stack order matters, do not sort
	buf.WriteString("STACK:\n")
	for i, desc := range s.Stack {
		fmt.Fprintf(&buf, "  %d:%s\n", i, desc)
	}
	fmt.Fprintf(&buf, "STASHED:%s\n", s.Stashed)

	in := s.Intents
	fmt.Fprintf(&buf, "INTENTS:%t|%s|%s|%+v\n", in.Hidden, intentName(in.PrevIncoming), intentName(in.PrevOutgoing), in.LastContest)

	return buf.String()
}

func intentName(in *moves.Intent) string {
	if in == nil {
		return "-"
	}
	return in.Name() + "@" + in.Loc.String()
}

// VerifyChecksum reports whether the snapshot still hashes to expected.
func (s *Snapshot) VerifyChecksum(expected *SerializationChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// SerializeToBytes gob-encodes the snapshot.
func (s *Snapshot) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeFromBytes decodes a snapshot written by SerializeToBytes.
func DeserializeFromBytes(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// ValidateSerializationRoundtrip checks that a snapshot survives encoding
// with its checksum intact.
func ValidateSerializationRoundtrip(s *Snapshot) error {
	original, err := s.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}
	data, err := s.SerializeToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	decoded, err := DeserializeFromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}
	roundtrip, err := decoded.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute deserialized checksum: %w", err)
	}
	if original.Hash != roundtrip.Hash {
		return fmt.Errorf("checksum mismatch: original=%s, deserialized=%s", original.Hash, roundtrip.Hash)
	}
	return nil
}
