package cache

import (
	"context"
	"time"

	"github.com/hengyuan-pack/giftbox-site/internal/metrics"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
)

// Change describes one admin mutation.
type Change struct {
	Entity string   `json:"entity"`
	Action string   `json:"action"`
	ID     uint     `json:"id,omitempty"`
	Paths  []string `json:"paths"`
	At     int64    `json:"at"`
}

// Broadcaster fans change events out to connected admin clients.
type Broadcaster interface {
	Broadcast(message interface{}) error
}

// Revalidator drops stale renders after a mutation and announces it.
type Revalidator struct {
	cache PageCache
	hub   Broadcaster
}

// NewRevalidator accepts a nil hub when no admin push is wanted.
func NewRevalidator(cache PageCache, hub Broadcaster) *Revalidator {
	return &Revalidator{cache: cache, hub: hub}
}

// Changed never fails the caller: the write already committed.
func (r *Revalidator) Changed(ctx context.Context, change Change) {
	metrics.RecordMutation(change.Entity, change.Action)

	if len(change.Paths) > 0 {
		if err := r.cache.Invalidate(ctx, change.Paths...); err != nil {
			logger.Error("Failed to invalidate render cache", err, map[string]interface{}{
				"entity": change.Entity,
				"paths":  change.Paths,
			})
		} else {
			metrics.RecordInvalidation("mutation")
		}
	}

	if r.hub == nil {
		return
	}
	if change.At == 0 {
		change.At = time.Now().UnixMilli()
	}
	if err := r.hub.Broadcast(change); err != nil {
		logger.Warn("Failed to broadcast content change", map[string]interface{}{
			"entity": change.Entity,
			"error":  err.Error(),
		})
	}
}

// Purge drops every cached render.
func (r *Revalidator) Purge(ctx context.Context, trigger string) error {
	if err := r.cache.Purge(ctx); err != nil {
		return err
	}
	metrics.RecordInvalidation(trigger)
	return nil
}

// Paths a change to each entity makes stale. Pages feed the nav of every
// render, so a page change drops them all.
var (
	PagePaths    = []string{"/*"}
	SectionPaths = []string{"/"}
	ProductPaths = []string{"/", "/products", "/products/*", "/catalog/*"}
	CatalogPaths = []string{"/", "/products", "/catalog/*"}
	TagPaths     = []string{"/catalog/*", "/products/*"}
)
