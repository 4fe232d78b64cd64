package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/datastore"
	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

var ErrUnavailable = errors.New("no backup target configured")

// Uploader stores one named file on a remote target, replacing the previous revision.
type Uploader interface {
	Name() string
	Upsert(ctx context.Context, name string, content []byte) (revision string, err error)
}

type TargetResult struct {
	Target   string `json:"target"`
	OK       bool   `json:"ok"`
	Revision string `json:"revision,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Report struct {
	FileName string         `json:"fileName"`
	Size     int            `json:"size"`
	Targets  []TargetResult `json:"targets"`
}

// Service pushes the serialized document to every configured target.
type Service struct {
	fileName       string
	uploaders      []Uploader
	metricsManager *metrics.Manager
}

func NewService(fileName string, metricsManager *metrics.Manager, uploaders ...Uploader) *Service {
	s := &Service{
		fileName:       fileName,
		metricsManager: metricsManager,
	}
	for _, u := range uploaders {
		if u != nil {
			s.uploaders = append(s.uploaders, u)
		}
	}
	return s
}

func (s *Service) Available() bool {
	return len(s.uploaders) > 0
}

func (s *Service) Targets() []string {
	names := make([]string, 0, len(s.uploaders))
	for _, u := range s.uploaders {
		names = append(names, u.Name())
	}
	return names
}

// Sync uploads the document to all targets. The report is returned even when
// some targets failed; their errors are combined in the returned error.
func (s *Service) Sync(ctx context.Context, doc *fitness.Document) (_ *Report, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !s.Available() {
		return nil, ErrUnavailable
	}

	content, err := datastore.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	report := &Report{
		FileName: s.fileName,
		Size:     len(content),
		Targets:  make([]TargetResult, 0, len(s.uploaders)),
	}
	span.SetAttributes(
		attribute.String("file_name", s.fileName),
		attribute.Int("size", len(content)),
	)

	var errs error
	for _, u := range s.uploaders {
		begin := time.Now()
		revision, upErr := u.Upsert(ctx, s.fileName, content)
		s.observe(u.Name(), time.Since(begin), upErr)

		result := TargetResult{Target: u.Name(), Revision: revision, OK: upErr == nil}
		if upErr != nil {
			log.Errorf("backup to [%s] failed: %s", u.Name(), upErr)
			result.Error = upErr.Error()
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", u.Name(), upErr))
		} else {
			log.Infof("backup to [%s] done, revision: %s", u.Name(), revision)
		}
		report.Targets = append(report.Targets, result)
	}

	return report, errs
}

func (s *Service) observe(target string, took time.Duration, err error) {
	if s.metricsManager == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	s.metricsManager.CounterBackups.WithLabelValues(target, result).Inc()
	s.metricsManager.HistBackupDuration.Observe(took.Seconds())
}
