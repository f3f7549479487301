package api

import (
	"context"

	"github.com/openlend/reportengine/internal/projection"
)

// EnvelopeStore is the slice of internal/envelope.Store the handlers need.
type EnvelopeStore interface {
	Get(ctx context.Context, envelopeID string) (projection.Document, error)
}

// RuleCatalog is the slice of internal/rulecatalog.Catalog the handlers need.
type RuleCatalog interface {
	Load(ctx context.Context, reportID string, version int) ([]projection.Rule, error)
}

// ReportStore is the slice of internal/reportstore.Store the handlers need.
type ReportStore interface {
	Put(ctx context.Context, reportID string, doc projection.Document) (string, error)
	Get(ctx context.Context, reportID, objectID string) (projection.Document, error)
	Location(objectKey string) string
}

// Deduper dedupes co-borrower addresses on an envelope payload before it
// reaches the engine. A function type rather than an interface, because
// internal/envelope.DedupeAddresses is already a pure function and this
// package should not have to wrap it in a struct just to satisfy a method set.
type Deduper func(doc projection.Document) projection.Document

// Handler bundles the collaborators the HTTP surface projects reports
// through: envelope → dedupe → rule catalog → projection engine → report store.
type Handler struct {
	Envelopes EnvelopeStore
	Rules     RuleCatalog
	Reports   ReportStore
	Dedupe    Deduper
}

// NewHandler builds a Handler from its collaborators. dedupe may be nil, in
// which case envelope payloads are projected as-is.
func NewHandler(envelopes EnvelopeStore, rules RuleCatalog, reports ReportStore, dedupe Deduper) *Handler {
	if dedupe == nil {
		dedupe = func(doc projection.Document) projection.Document { return doc }
	}
	return &Handler{Envelopes: envelopes, Rules: rules, Reports: reports, Dedupe: dedupe}
}
