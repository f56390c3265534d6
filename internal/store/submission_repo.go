package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizmark/internal/standards"
)

// submissionRepo implements SubmissionRepo with the ent SQL builder.
type submissionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *submissionRepo) Append(ctx context.Context, records ...standards.SubmissionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	first, err := r.seq.Reserve(ctx, len(records))
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i, rec := range records {
		q, args := builder().Insert(tableSubmissions).
			Columns("id", "seq", "student_id", "test_id", "score", "submitted_at").
			Values(rec.ID, first+int64(i), rec.StudentID, rec.TestID, rec.Score, rec.SubmittedAt.UTC().UnixNano()).
			OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("insert submission %s: %w", rec.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}

		for _, code := range rec.Codes() {
			t := rec.Standards[code]
			q, args := builder().Insert(tableStandards).
				Columns("submission_id", "standard", "correct", "total").
				Values(rec.ID, string(code), t.Correct, t.Total).
				Query()
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return 0, fmt.Errorf("insert %s breakdown for %s: %w", code, rec.ID, err)
			}
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return inserted, nil
}

func (r *submissionRepo) Query(ctx context.Context, f Filter) ([]standards.SubmissionRecord, error) {
	b := builder()
	s := entsql.Table(tableSubmissions).As("s")
	ss := entsql.Table(tableStandards).As("ss")

	sel := b.Select(
		s.C("id"), s.C("student_id"), s.C("test_id"), s.C("score"), s.C("submitted_at"),
		ss.C("standard"), ss.C("correct"), ss.C("total"),
	).
		From(s).
		LeftJoin(ss).On(s.C("id"), ss.C("submission_id"))

	if f.StudentID != "" {
		sel.Where(entsql.EQ(s.C("student_id"), f.StudentID))
	}
	if f.TestID != "" {
		sel.Where(entsql.EQ(s.C("test_id"), f.TestID))
	}
	if f.ClassID != "" {
		cm := entsql.Table(tableClassMembers).As("cm")
		sel.Where(entsql.In(s.C("student_id"),
			b.Select(cm.C("student_id")).From(cm).Where(entsql.EQ(cm.C("class_id"), f.ClassID)),
		))
	}
	if f.Standard != "" {
		fs := entsql.Table(tableStandards).As("fs")
		sel.Where(entsql.In(s.C("id"),
			b.Select(fs.C("submission_id")).From(fs).Where(entsql.EQ(fs.C("standard"), string(f.Standard))),
		))
	}
	sel.OrderBy(s.C("submitted_at"), s.C("seq"), ss.C("standard"))

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []standards.SubmissionRecord
	for rows.Next() {
		var (
			id, studentID, testID string
			score                 int
			at                    int64
			code                  sql.NullString
			correct, total        sql.NullInt64
		)
		if err := rows.Scan(&id, &studentID, &testID, &score, &at, &code, &correct, &total); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}

		// Rows for one submission are adjacent.
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, standards.SubmissionRecord{
				ID:          id,
				StudentID:   studentID,
				TestID:      testID,
				Score:       score,
				SubmittedAt: time.Unix(0, at).UTC(),
				Standards:   make(map[standards.StandardCode]standards.Tally),
			})
		}
		if code.Valid {
			out[len(out)-1].Standards[standards.StandardCode(code.String)] = standards.Tally{
				Correct: int(correct.Int64),
				Total:   int(total.Int64),
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}
