package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=workflows_mocks_test.go -package=workflows_test

type docStore interface {
	Load(ctx context.Context) (*fitness.Document, error)
	Save(ctx context.Context, doc *fitness.Document) error
}

// Dispatcher runs named workflows against the stored document.
// The document is loaded fresh for every run and saved only when the workflow changed it.
type Dispatcher struct {
	store          docStore
	workflows      map[Name]Workflow
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewDispatcher(store docStore, metricsManager *metrics.Manager) *Dispatcher {
	return &Dispatcher{
		store:          store,
		workflows:      Registry(),
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// Dispatch checks the session before touching the store, then runs the named workflow.
func (d *Dispatcher) Dispatch(ctx context.Context, session auth.Session, name Name, in Input) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workflows.dispatch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		d.countRun(name, err)
	}()
	span.SetAttributes(attribute.String("workflow", string(name)))

	if !session.Authenticated {
		return nil, ErrNotAuthenticated
	}

	workflow, ok := d.workflows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflow, name)
	}

	if in.Today.IsZero() {
		in.Today = d.now()
	}

	doc, err := d.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	updated, result, err := workflow(doc, in)
	if err != nil {
		return nil, err
	}

	if result.Mutated {
		if err := d.store.Save(ctx, updated); err != nil {
			return nil, fmt.Errorf("save document: %w", err)
		}
		log.Debugf("workflow [%s] saved the document", name)
	}

	result.Streak = fitness.StreakFor(updated, in.Today)
	span.SetAttributes(
		attribute.Bool("mutated", result.Mutated),
		attribute.Int("new_prs", len(result.NewPRs)),
		attribute.Int("streak", result.Streak),
	)

	if d.metricsManager != nil {
		d.metricsManager.CounterNewPRs.Add(float64(len(result.NewPRs)))
		d.metricsManager.GaugeStreak.Set(float64(result.Streak))
	}

	return result, nil
}

// Document returns the stored document for read only views.
func (d *Dispatcher) Document(ctx context.Context, session auth.Session) (*fitness.Document, error) {
	if !session.Authenticated {
		return nil, ErrNotAuthenticated
	}
	doc, err := d.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (d *Dispatcher) Now() time.Time {
	return d.now()
}

func (d *Dispatcher) countRun(name Name, err error) {
	if d.metricsManager == nil {
		return
	}

	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotAuthenticated):
		result = "unauthenticated"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrRestDay), errors.Is(err, ErrUnknownWorkflow):
		result = "rejected"
	default:
		result = "error"
	}

	label := string(name)
	if _, known := d.workflows[name]; !known {
		label = "unknown"
	}
	d.metricsManager.CounterWorkflows.WithLabelValues(label, result).Inc()
}
