// Package shared holds building blocks common to all aggregates.
package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// AggregateRoot is the base type for aggregate roots. Every recorded event
// advances the generation, so the generation doubles as a change counter
// that readers can compare against an earlier observation.
type AggregateRoot struct {
	generation uint64
	events     []DomainEvent
}

// Record appends a domain event and advances the generation.
func (a *AggregateRoot) Record(event DomainEvent) {
	a.generation++
	a.events = append(a.events, event)
}

// Generation returns the number of changes recorded over the aggregate's lifetime.
func (a *AggregateRoot) Generation() uint64 {
	return a.generation
}

// RestoreGeneration sets the generation when rehydrating from storage.
func (a *AggregateRoot) RestoreGeneration(generation uint64) {
	a.generation = generation
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = []DomainEvent{}
	return events
}
