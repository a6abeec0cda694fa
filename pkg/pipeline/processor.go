// pkg/pipeline/processor.go

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rainfeed/pkg/database"
	"rainfeed/pkg/models"
	"rainfeed/pkg/pdf"
	"rainfeed/pkg/report"
	sentryutil "rainfeed/pkg/sentry"
)

// ErrOutsideWindow is returned by Collect when the current time falls
// outside every configured collection window
var ErrOutsideWindow = errors.New("current time is outside allowed collection windows")

// DocumentSource fetches the raw report documents
type DocumentSource interface {
	DailyPDF(ctx context.Context) ([]byte, error)
	WeeklyPDF(ctx context.Context) ([]byte, error)
}

// MessageSender pushes rendered reports to subscribers
type MessageSender interface {
	Enabled() bool
	Send(ctx context.Context, text string) error
}

// Processor coordinates fetching, parsing, archiving and pushing reports
type Processor struct {
	config     *models.Config
	db         *database.Database
	source     DocumentSource
	sender     MessageSender
	logger     *slog.Logger
	workerPool *WorkerPool
}

// NewProcessor creates a new report processor
func NewProcessor(
	config *models.Config,
	db *database.Database,
	source DocumentSource,
	sender MessageSender,
	logger *slog.Logger,
) *Processor {
	// Room for every station in both report kinds
	queueSize := len(config.Stations) * 2
	if queueSize < 1 {
		queueSize = 1
	}

	return &Processor{
		config: config,
		db:     db,
		source: source,
		sender: sender,
		logger: logger,
		workerPool: NewWorkerPool(
			config.Processing.ConcurrentFetches,
			queueSize,
			logger,
		),
	}
}

// BuildReport fetches the current document of the given kind and renders the
// summary for one station.
func (p *Processor) BuildReport(ctx context.Context, kind report.Kind, station string) (string, error) {
	text, err := p.fetchText(ctx, kind)
	if err != nil {
		return "", err
	}

	parsed, err := parseReport(text, kind, station)
	if err != nil {
		return "", err
	}
	return parsed.message, nil
}

// Collect fetches each report kind once, then parses, archives and pushes
// every configured station from the shared text. One station failing never
// stops the others.
func (p *Processor) Collect(ctx context.Context, force bool) error {
	windows, err := WindowsFromConfig(p.config)
	if err != nil {
		return err
	}
	if !force && !windows.Contains(time.Now()) {
		return ErrOutsideWindow
	}

	p.logger.Info("starting collection", "stations", len(p.config.Stations))
	p.workerPool.Start(ctx)

	submitted := 0
	for _, kind := range []report.Kind{report.KindDaily, report.KindWeekly} {
		text, err := p.fetchText(ctx, kind)
		if err != nil {
			p.recordFailure(string(kind), err)
			continue
		}

		for _, station := range p.config.Stations {
			job := NewReportJob(fmt.Sprintf("%s/%s", kind, station), func(jobCtx context.Context) error {
				return p.processStation(jobCtx, kind, text, station)
			})
			p.workerPool.Submit(job)
			submitted++
		}
	}

	p.workerPool.Stop()

	failures := 0
	for err := range p.workerPool.Results() {
		if err != nil {
			failures++
		}
	}

	p.logger.Info("collection finished", "reports", submitted, "failures", failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d station reports failed", failures, submitted)
	}
	return nil
}

// processStation parses one station out of already-fetched report text,
// archives the snapshot and pushes the rendered message
func (p *Processor) processStation(ctx context.Context, kind report.Kind, text, station string) error {
	source := fmt.Sprintf("%s/%s", kind, station)

	parsed, err := parseReport(text, kind, station)
	if err != nil {
		p.recordFailure(source, err)
		return err
	}

	snapshot := &models.Snapshot{
		Station:   station,
		Kind:      string(kind),
		FetchedAt: time.Now(),
		Values:    parsed.values,
		Message:   parsed.message,
	}
	if parsed.stamp.Found {
		ts := parsed.stamp.Time
		snapshot.ReportTS = &ts
	}
	if err := p.db.SaveSnapshot(snapshot); err != nil {
		p.recordFailure(source, err)
		return err
	}
	p.logger.Debug("archived snapshot", "station", station, "kind", kind, "id", snapshot.ID)

	if p.config.Telegram.Enabled && p.sender != nil && p.sender.Enabled() {
		if err := p.sender.Send(ctx, parsed.message); err != nil {
			p.recordFailure(source, err)
			return err
		}
		p.logger.Debug("pushed report", "station", station, "kind", kind)
	}

	return nil
}

// fetchText downloads the document for a kind and extracts its page text
func (p *Processor) fetchText(ctx context.Context, kind report.Kind) (string, error) {
	var data []byte
	var err error

	switch kind {
	case report.KindDaily:
		data, err = p.source.DailyPDF(ctx)
	case report.KindWeekly:
		data, err = p.source.WeeklyPDF(ctx)
	default:
		return "", fmt.Errorf("unknown report kind %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("error fetching %s report: %w", kind, err)
	}

	text, err := pdf.ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("error extracting %s report text: %w", kind, err)
	}
	return text, nil
}

// parsed is one successfully extracted station report
type parsed struct {
	values  []float64
	stamp   report.Timestamp
	message string
}

// parseReport dispatches to the kind's parser
func parseReport(text string, kind report.Kind, station string) (*parsed, error) {
	switch kind {
	case report.KindDaily:
		rep, err := report.ParseDaily(text, station)
		if err != nil {
			return nil, err
		}
		return &parsed{values: rep.Values(), stamp: rep.Stamp, message: rep.Render()}, nil
	case report.KindWeekly:
		rep, err := report.ParseWeekly(text, station)
		if err != nil {
			return nil, err
		}
		return &parsed{values: rep.Values(), stamp: rep.Stamp, message: rep.Render()}, nil
	}
	return nil, fmt.Errorf("unknown report kind %q", kind)
}

// recordFailure logs one failed fetch or parse, archives it and reports it
// to error tracking
func (p *Processor) recordFailure(source string, err error) {
	p.logger.Error("report processing failed", "source", source, "error", err)
	if dbErr := p.db.LogFetchError(source, err.Error()); dbErr != nil {
		p.logger.Error("could not record fetch error", "error", dbErr)
	}
	sentryutil.CaptureError(err, map[string]string{"source": source})
}
