package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizmark/internal/grading"
)

// testRepo implements TestRepo. Questions are stored as a JSON column.
type testRepo struct {
	db *sql.DB
}

func (r *testRepo) Save(ctx context.Context, key grading.AnswerKey) error {
	questions, err := json.Marshal(key.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	q, args := builder().Insert(tableTests).
		Columns("id", "title", "class_id", "questions").
		Values(key.TestID, key.Title, key.ClassID, string(questions)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save test %s: %w", key.TestID, err)
	}
	return nil
}

func (r *testRepo) Get(ctx context.Context, id string) (*grading.AnswerKey, error) {
	keys, err := r.list(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("test %s: %w", id, ErrNotFound)
	}
	return &keys[0], nil
}

func (r *testRepo) List(ctx context.Context) ([]grading.AnswerKey, error) {
	return r.list(ctx, "")
}

func (r *testRepo) list(ctx context.Context, id string) ([]grading.AnswerKey, error) {
	b := builder()
	t := entsql.Table(tableTests)
	sel := b.Select(t.C("id"), t.C("title"), t.C("class_id"), t.C("questions")).
		From(t).
		OrderBy(t.C("id"))
	if id != "" {
		sel.Where(entsql.EQ(t.C("id"), id))
	}

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer rows.Close()

	var out []grading.AnswerKey
	for rows.Next() {
		var (
			key       grading.AnswerKey
			questions string
		)
		if err := rows.Scan(&key.TestID, &key.Title, &key.ClassID, &questions); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		if err := json.Unmarshal([]byte(questions), &key.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions for %s: %w", key.TestID, err)
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

// classRepo implements ClassRepo.
type classRepo struct {
	db *sql.DB
}

func (r *classRepo) Enroll(ctx context.Context, classID string, studentIDs ...string) error {
	if classID == "" {
		return errors.New("enroll: empty class id")
	}
	if len(studentIDs) == 0 {
		return nil
	}

	ins := builder().Insert(tableClassMembers).Columns("class_id", "student_id")
	for _, sid := range studentIDs {
		ins.Values(classID, sid)
	}
	q, args := ins.OnConflict(entsql.ConflictColumns("class_id", "student_id"), entsql.DoNothing()).Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("enroll into %s: %w", classID, err)
	}
	return nil
}

func (r *classRepo) Members(ctx context.Context, classID string) ([]string, error) {
	b := builder()
	t := entsql.Table(tableClassMembers)
	q, args := b.Select(t.C("student_id")).
		From(t).
		Where(entsql.EQ(t.C("class_id"), classID)).
		OrderBy(t.C("student_id")).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query members of %s: %w", classID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, sid)
	}
	return out, rows.Err()
}
