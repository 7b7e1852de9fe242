// Package insight generates and persists the daily natural-language
// spending analysis. A generation is a strict fetch → compose → invoke →
// persist sequence; any step failing aborts the whole run with no partial
// insight written, and retries are the caller's decision.
package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// ErrAlreadyGenerated is returned by the opt-in daily guard when an insight
// already exists for the owner's current calendar day.
var ErrAlreadyGenerated = errors.New("insight already generated today")

// defaultRecentWindow is how many prior insights are chained into a new
// generation's context unless configured otherwise.
const defaultRecentWindow = 5

// RecentCache caches recent-insight reads. A nil cache disables caching.
type RecentCache interface {
	GetRecent(ctx context.Context, ownerID string) ([]domain.Insight, bool)
	SetRecent(ctx context.Context, ownerID string, insights []domain.Insight)
	Invalidate(ctx context.Context, ownerID string)
}

// Generator orchestrates daily insight generation for one store and one
// reasoning service.
type Generator struct {
	transactions store.TransactionRepository
	budgets      store.BudgetRepository
	insights     store.InsightRepository
	sessions     SessionFactory

	log          zerolog.Logger
	cache        RecentCache
	guardDaily   bool
	recentWindow int
	now          func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithDailyGuard enables the pre-check that refuses a second generation on
// the same calendar day. Without it two concurrent generations can both
// observe "no insight yet today" and both persist; the guard narrows that
// window but, being check-then-write over independent documents, does not
// fully close it.
func WithDailyGuard() Option {
	return func(g *Generator) { g.guardDaily = true }
}

// WithCache attaches a recent-insight cache.
func WithCache(c RecentCache) Option {
	return func(g *Generator) { g.cache = c }
}

// WithRecentWindow sets how many prior insights are chained into a new
// generation's context. Values below 1 keep the default.
func WithRecentWindow(n int) Option {
	return func(g *Generator) {
		if n >= 1 {
			g.recentWindow = n
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator wires a Generator over the given repositories and session
// factory.
func NewGenerator(
	transactions store.TransactionRepository,
	budgets store.BudgetRepository,
	insights store.InsightRepository,
	sessions SessionFactory,
	log zerolog.Logger,
	opts ...Option,
) *Generator {
	g := &Generator{
		transactions: transactions,
		budgets:      budgets,
		insights:     insights,
		sessions:     sessions,
		log:          log,
		recentWindow: defaultRecentWindow,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// generationState is the shared state threaded through the pipeline steps.
type generationState struct {
	ownerID string
	now     time.Time

	todays   []domain.Transaction
	settings domain.BudgetSettings
	recent   []domain.Insight

	contextText string
	insightText string
	saved       domain.Insight
}

type generationStep interface {
	execute(ctx context.Context, st *generationState) error
}

// GenerateDaily produces and persists one insight for the owner's current
// calendar day, chained against the most recent prior insights.
func (g *Generator) GenerateDaily(ctx context.Context, ownerID string) (domain.Insight, error) {
	if ownerID == "" {
		return domain.Insight{}, fmt.Errorf("GenerateDaily: %w", domain.ErrAuthRequired)
	}

	st := &generationState{ownerID: ownerID, now: g.now()}

	if g.guardDaily {
		if err := g.checkNotGeneratedToday(ctx, st); err != nil {
			return domain.Insight{}, err
		}
	}

	steps := []generationStep{
		&fetchStep{g},
		&composeStep{},
		&invokeStep{g},
		&persistStep{g},
	}
	for i, step := range steps {
		if err := step.execute(ctx, st); err != nil {
			return domain.Insight{}, fmt.Errorf("GenerateDaily: step %d failed: %w", i+1, err)
		}
	}

	if g.cache != nil {
		g.cache.Invalidate(ctx, ownerID)
	}
	g.log.Info().
		Str("owner_id", ownerID).
		Int("analyzed_transactions", len(st.todays)).
		Int("context_insights", len(st.recent)).
		Msg("daily insight generated")
	return st.saved, nil
}

// checkNotGeneratedToday is the opt-in day-level guard: a read-then-act
// pre-check, not a store constraint.
func (g *Generator) checkNotGeneratedToday(ctx context.Context, st *generationState) error {
	latest, failures, err := g.insights.Recent(ctx, st.ownerID, 1)
	if err != nil {
		return fmt.Errorf("GenerateDaily: checking today's insight: %w", err)
	}
	g.logDecodeFailures(st.ownerID, failures)
	if len(latest) > 0 && civil.DateOf(latest[0].Date) == civil.DateOf(st.now) {
		return ErrAlreadyGenerated
	}
	return nil
}

// fetchStep loads today's transactions, the current budget settings and the
// recent insights. The three reads are independent, so they run
// concurrently and join before the next step.
type fetchStep struct{ g *Generator }

func (s *fetchStep) execute(ctx context.Context, st *generationState) error {
	dayStart := time.Date(st.now.Year(), st.now.Month(), st.now.Day(), 0, 0, 0, 0, st.now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		txs, failures, err := s.g.transactions.ListByDateRange(egCtx, st.ownerID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("fetching today's transactions: %w", err)
		}
		s.g.logDecodeFailures(st.ownerID, failures)
		st.todays = txs
		return nil
	})
	eg.Go(func() error {
		settings, err := s.g.currentOrDefaultSettings(egCtx, st.ownerID, st.now)
		if err != nil {
			return err
		}
		st.settings = settings
		return nil
	})
	eg.Go(func() error {
		recent, failures, err := s.g.insights.Recent(egCtx, st.ownerID, s.g.recentWindow)
		if err != nil {
			return fmt.Errorf("fetching recent insights: %w", err)
		}
		s.g.logDecodeFailures(st.ownerID, failures)
		st.recent = recent
		return nil
	})
	return eg.Wait()
}

// currentOrDefaultSettings returns the owner's settings, lazily creating the
// zero-valued default when none exist yet.
func (g *Generator) currentOrDefaultSettings(ctx context.Context, ownerID string, now time.Time) (domain.BudgetSettings, error) {
	settings, err := g.budgets.Current(ctx, ownerID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.BudgetSettings{}, fmt.Errorf("fetching budget settings: %w", err)
	}

	settings = domain.DefaultBudgetSettings(ownerID, now)
	id, err := g.budgets.Save(ctx, settings)
	if err != nil {
		return domain.BudgetSettings{}, fmt.Errorf("creating default budget settings: %w", err)
	}
	settings.ID = id
	g.log.Info().Str("owner_id", ownerID).Msg("created default budget settings")
	return settings, nil
}

// composeStep chains the fetched prior insights into the context string.
type composeStep struct{}

func (s *composeStep) execute(_ context.Context, st *generationState) error {
	st.contextText = composeContext(st.recent)
	return nil
}

// invokeStep runs the reasoning session and assembles the streamed chunks.
type invokeStep struct{ g *Generator }

func (s *invokeStep) execute(ctx context.Context, st *generationState) error {
	session, err := s.g.sessions.StartSession(ctx, seedHistory(st.contextText))
	if err != nil {
		return fmt.Errorf("starting session: %w: %w", domain.ErrExternalService, err)
	}

	stream, err := session.SendMessage(ctx, analysisMessage(st.settings, st.todays))
	if err != nil {
		return fmt.Errorf("sending analysis request: %w: %w", domain.ErrExternalService, err)
	}
	text, err := collect(stream)
	if err != nil {
		return fmt.Errorf("streaming response: %w: %w", domain.ErrExternalService, err)
	}
	if text == "" {
		return fmt.Errorf("streaming response: %w: empty stream", domain.ErrExternalService)
	}
	st.insightText = text
	return nil
}

// persistStep writes the new insight. It runs only after the stream closed,
// so an abandoned generation persists nothing.
type persistStep struct{ g *Generator }

func (s *persistStep) execute(ctx context.Context, st *generationState) error {
	ids := make([]string, 0, len(st.todays))
	for _, tx := range st.todays {
		ids = append(ids, tx.ID)
	}
	in := domain.Insight{
		OwnerID:                st.ownerID,
		Date:                   st.now,
		Text:                   st.insightText,
		AnalyzedTransactionIDs: ids,
		PreviousContext:        st.contextText,
	}
	id, err := s.g.insights.Create(ctx, in)
	if err != nil {
		return fmt.Errorf("persisting insight: %w", err)
	}
	in.ID = id
	st.saved = in
	return nil
}

// FetchRecent returns the limit most recent insights of the owner, newest
// first. It has no side effects beyond cache fills.
func (g *Generator) FetchRecent(ctx context.Context, ownerID string, limit int) ([]domain.Insight, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("FetchRecent: %w", domain.ErrAuthRequired)
	}
	if g.cache != nil {
		if cached, ok := g.cache.GetRecent(ctx, ownerID); ok && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	insights, failures, err := g.insights.Recent(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("FetchRecent: %w", err)
	}
	g.logDecodeFailures(ownerID, failures)
	if g.cache != nil {
		g.cache.SetRecent(ctx, ownerID, insights)
	}
	return insights, nil
}

func (g *Generator) logDecodeFailures(ownerID string, failures []store.DecodeFailure) {
	for _, f := range failures {
		g.log.Warn().
			Str("owner_id", ownerID).
			Str("doc_id", f.DocID).
			Err(f.Err).
			Msg("skipping undecodable record")
	}
}
