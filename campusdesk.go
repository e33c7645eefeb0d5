// Package campusdesk provides a high-level façade over the orchestrator,
// agent registry and retrieval index making up a university support chat
// backend. Most applications interact with this package by:
//  1. Creating a CampusDesk via New() (optionally overriding the default
//     in-memory services and mock providers)
//  2. Handling user queries with HandleQuery, which routes each query to the
//     appropriate agent and persists the exchange
//  3. Resetting conversations with ClearSession
//
// The façade delegates routing to orchestrator.Orchestrator while keeping
// setup concise. All defaults are safe for local development and testing;
// production deployments supply a real model provider, a real embedder and a
// durable session store.
package campusdesk

import (
	"context"
	"fmt"
	"time"

	"github.com/campusdesk/campusdesk/agent"
	"github.com/campusdesk/campusdesk/core"
	"github.com/campusdesk/campusdesk/logging"
	"github.com/campusdesk/campusdesk/model"
	"github.com/campusdesk/campusdesk/orchestrator"
	"github.com/campusdesk/campusdesk/retrieval"
	"github.com/campusdesk/campusdesk/session"
)

// Options configures the CampusDesk instance.
type Options struct {
	// Model generates agent replies. Defaults to a deterministic MockModel,
	// which is only useful for tests and examples.
	Model model.Model

	// Embedder vectorizes the course catalog and incoming recommendation
	// queries. Defaults to the deterministic mock embedder.
	Embedder retrieval.Embedder

	// SessionStore persists conversations. Defaults to in-memory.
	SessionStore core.SessionStore

	// Logger receives structured routing events. Defaults to NoOp.
	Logger logging.Logger

	// Catalog is the course corpus indexed for recommendations. Defaults to
	// the built-in university catalog.
	Catalog []retrieval.CourseEntry

	// Campus is the location and tradition corpus indexed for the poet's
	// inspiration lookups. Defaults to the built-in campus corpus.
	Campus []retrieval.CampusEntry

	// RequestTimeout bounds one full query round trip.
	RequestTimeout time.Duration

	// MaxToolRounds limits tool-resolution loops per agent turn.
	MaxToolRounds int

	// FallbackMessage is shown to users when generation fails.
	FallbackMessage string
}

// CampusDesk is the high-level façade aggregating the router, the agent
// registry and the retrieval index.
type CampusDesk struct {
	opts     Options
	registry *agent.Registry
	index    *retrieval.Index[retrieval.CourseEntry]
	router   *orchestrator.Orchestrator
}

// New creates a CampusDesk instance with optional overrides. The course
// catalog and campus corpus are embedded and indexed up front, so ctx bounds
// the initial embedding pass when a remote embedder is supplied.
func New(ctx context.Context, optFns ...func(o *Options)) (*CampusDesk, error) {
	opts := Options{
		Model:           model.NewMockModel("mock-model", "mock"),
		Embedder:        retrieval.NewMockEmbedder(0),
		SessionStore:    session.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
		Catalog:         retrieval.DefaultCourseCatalog(),
		Campus:          retrieval.DefaultCampusCorpus(),
		RequestTimeout:  60 * time.Second,
		MaxToolRounds:   4,
		FallbackMessage: orchestrator.DefaultFallbackMessage,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	index, err := retrieval.Build(ctx, opts.Embedder, opts.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build course index: %w", err)
	}

	campusIndex, err := retrieval.Build(ctx, opts.Embedder, opts.Campus)
	if err != nil {
		return nil, fmt.Errorf("failed to build campus index: %w", err)
	}

	registry, err := agent.NewUniversityRegistry(index, opts.Catalog, campusIndex, opts.Campus)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent registry: %w", err)
	}

	router, err := orchestrator.New(registry, opts.Model, opts.SessionStore, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
		o.RequestTimeout = opts.RequestTimeout
		o.MaxToolRounds = opts.MaxToolRounds
		o.FallbackMessage = opts.FallbackMessage
	})
	if err != nil {
		return nil, err
	}

	return &CampusDesk{opts: opts, registry: registry, index: index, router: router}, nil
}

// HandleQuery routes one user query to the session's active agent and returns
// the reply. An empty sessionID starts a new conversation; the assigned id is
// carried on the Reply.
func (d *CampusDesk) HandleQuery(ctx context.Context, sessionID, text string) (*orchestrator.Reply, error) {
	return d.router.HandleQuery(ctx, sessionID, text)
}

// ClearSession wipes a conversation and hands it back to the triage agent.
func (d *CampusDesk) ClearSession(ctx context.Context, sessionID string) (string, error) {
	return d.router.ClearSession(ctx, sessionID)
}

// Registry exposes the agent registry, mainly so callers can enumerate agents
// for UI display.
func (d *CampusDesk) Registry() *agent.Registry { return d.registry }

// Index exposes the course retrieval index for direct semantic queries.
func (d *CampusDesk) Index() *retrieval.Index[retrieval.CourseEntry] { return d.index }
