// Package analytics answers report queries by loading submission records
// from the store and handing them to the report assembler.
package analytics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/logging"
	"github.com/abhisek/quizmark/internal/report"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/store"
)

type Service struct {
	submissions store.SubmissionRepo
	tests       store.TestRepo
	assembler   *report.Assembler
	log         *slog.Logger
}

func NewService(s *store.Store, a *report.Assembler) *Service {
	return &Service{
		submissions: s.Submissions(),
		tests:       s.Tests(),
		assembler:   a,
		log:         logging.New("analytics"),
	}
}

// Overview returns the standards-over-time report for the filtered records.
func (svc *Service) Overview(ctx context.Context, f store.Filter, order aggregate.Order) (*report.Overview, error) {
	records, err := svc.submissions.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	ov := svc.assembler.StandardsOverview(records, order)
	svc.logRejected(ov.Rejected)
	return ov, nil
}

// TestReport returns the class report for one test, titled when the test's
// answer key is stored.
func (svc *Service) TestReport(ctx context.Context, testID string) (*report.TestReport, error) {
	records, err := svc.submissions.Query(ctx, store.Filter{TestID: testID})
	if err != nil {
		return nil, err
	}
	rep := svc.assembler.TestReport(testID, records)
	svc.logRejected(rep.Rejected)

	key, err := svc.tests.Get(ctx, testID)
	switch {
	case err == nil:
		rep.TestTitle = key.Title
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return rep, nil
}

// StudentReport returns one student's history.
func (svc *Service) StudentReport(ctx context.Context, studentID string) (*report.StudentReport, error) {
	records, err := svc.submissions.Query(ctx, store.Filter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	rep := svc.assembler.StudentReport(studentID, records)
	svc.logRejected(rep.Rejected)
	return rep, nil
}

// Prediction forecasts one standard over the filtered records.
func (svc *Service) Prediction(ctx context.Context, standard standards.StandardCode, f store.Filter) (*report.PredictionReport, error) {
	f.Standard = standard
	records, err := svc.submissions.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	pr, err := svc.assembler.Prediction(standard, records)
	if err != nil {
		return nil, err
	}
	svc.logRejected(pr.Rejected)
	return pr, nil
}

// Predictions forecasts every standard in the filtered records, in the
// overview's default order, over one fetched record set.
func (svc *Service) Predictions(ctx context.Context, f store.Filter) ([]*report.PredictionReport, error) {
	records, err := svc.submissions.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	prs, rejected, err := svc.assembler.Predictions(ctx, records)
	svc.logRejected(rejected)
	if err != nil {
		return nil, err
	}
	return prs, nil
}

func (svc *Service) logRejected(rejected []aggregate.Rejected) {
	for _, r := range rejected {
		svc.log.Warn("skipping record", "record_id", r.RecordID, "error", r.Err)
	}
}
