package rules

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
)

// NotificationType indicates what a published notification reports.
type NotificationType string

const (
	NoteEffectResolved NotificationType = "EFFECT_RESOLVED"
	NoteDamageDealt    NotificationType = "DAMAGE_DEALT"
	NoteBlockConsumed  NotificationType = "BLOCK_CONSUMED"
	NotePushed         NotificationType = "PUSHED"
	NoteMoved          NotificationType = "MOVED"
	NoteHealed         NotificationType = "HEALED"
	NoteCardsDrawn     NotificationType = "CARDS_DRAWN"
	NoteItemDropped    NotificationType = "ITEM_DROPPED"
	NoteReactionOpened NotificationType = "REACTION_OPENED"
	NoteReactionClosed NotificationType = "REACTION_CLOSED"
	NoteContest        NotificationType = "CONTEST"
	NoteInterrupted    NotificationType = "INTERRUPTED"
	NoteEntityDied     NotificationType = "ENTITY_DIED"
	NotePickupConsumed NotificationType = "PICKUP_CONSUMED"
	NoteTurnGranted    NotificationType = "TURN_GRANTED"
)

// Notification describes something that already happened. Notifications
// are informational only; listeners must not push events from them.
type Notification struct {
	Type    NotificationType
	EventID string
	Kind    EffectKind
	Source  ecs.Entity
	Target  ecs.Entity
	Amount  int
	From    grid.Point
	To      grid.Point
	Flag    bool
}

// Listener defines a callback that reacts to notifications.
type Listener func(Notification)

// EventBus is a synchronous publish/subscribe hub. Listeners are called
// in subscription order.
type EventBus struct {
	listeners []Listener
}

// NewEventBus constructs a fresh bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for every notification.
func (bus *EventBus) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	bus.listeners = append(bus.listeners, listener)
}

// Publish delivers the notification to every listener.
func (bus *EventBus) Publish(note Notification) {
	for _, l := range bus.listeners {
		l(note)
	}
}
