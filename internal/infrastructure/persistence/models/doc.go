// Package models contains the GORM persistence models of the registry and the
// mappers between them and the domain aggregates. Domain types stay free of
// ORM tags; repositories read and write these models only.
//
// Structure:
// - base.go: AggregateModel, the columns shared by aggregate tables
// - participant.go: organizations, actors and their market role grid areas, grid areas
// - consolidation.go: consolidations, consolidation audit log, reservations, delegations
// - outbox.go: outbox entries for event delivery
package models
