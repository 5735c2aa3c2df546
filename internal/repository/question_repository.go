package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// QuestionRepository handles question data access. Choices and correct
// choices live in JSONB columns; every read goes through Sanitize so
// inconsistent rows self-heal.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func marshalChoices(q *model.Question) ([]byte, []byte, error) {
	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal choices: %w", err)
	}
	correct, err := json.Marshal(q.CorrectChoices)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal correct_choices: %w", err)
	}
	return choices, correct, nil
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	var choices, correct []byte
	if err := row.Scan(&q.ID, &q.TestID, &q.Text, &q.IsClosed, &q.Difficulty,
		&choices, &correct, &q.Position, &q.CreatedAt); err != nil {
		return nil, wrapNoRows(err)
	}
	if err := json.Unmarshal(choices, &q.Choices); err != nil {
		q.Choices = nil
	}
	if err := json.Unmarshal(correct, &q.CorrectChoices); err != nil {
		q.CorrectChoices = nil
	}
	q.Sanitize()
	return &q, nil
}

const questionColumns = `id, test_id, text, is_closed, difficulty, choices, correct_choices, position, created_at`

// ListByTest retrieves all questions of a test ordered by position.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE test_id = $1
		 ORDER BY position`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetByID retrieves one question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

// Create inserts a single question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	choices, correct, err := marshalChoices(q)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (test_id, text, is_closed, difficulty, choices, correct_choices, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		q.TestID, q.Text, q.IsClosed, q.Difficulty, choices, correct, q.Position,
	).Scan(&q.ID, &q.CreatedAt)
}

// CreateBatch inserts questions in one transaction, assigning positions
// in slice order.
func (r *QuestionRepository) CreateBatch(ctx context.Context, testID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range questions {
		q := &questions[i]
		q.TestID = testID
		q.Position = i
		choices, correct, err := marshalChoices(q)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO questions (test_id, text, is_closed, difficulty, choices, correct_choices, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			q.TestID, q.Text, q.IsClosed, q.Difficulty, choices, correct, q.Position,
		).Scan(&q.ID, &q.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Update replaces the mutable fields of one question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	choices, correct, err := marshalChoices(q)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, is_closed = $2, difficulty = $3, choices = $4, correct_choices = $5
		 WHERE id = $6`,
		q.Text, q.IsClosed, q.Difficulty, choices, correct, q.ID)
	return err
}

// UpdateBatch applies Update to each question in one transaction.
func (r *QuestionRepository) UpdateBatch(ctx context.Context, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range questions {
		q := &questions[i]
		choices, correct, err := marshalChoices(q)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE questions
			 SET text = $1, is_closed = $2, difficulty = $3, choices = $4, correct_choices = $5
			 WHERE id = $6`,
			q.Text, q.IsClosed, q.Difficulty, choices, correct, q.ID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// DeleteBatch removes questions by id within one test.
func (r *QuestionRepository) DeleteBatch(ctx context.Context, testID uuid.UUID, ids []uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM questions WHERE test_id = $1 AND id = ANY($2)`, testID, ids)
	return err
}

// UpdatePositions persists a new question ordering.
func (r *QuestionRepository) UpdatePositions(ctx context.Context, testID uuid.UUID, orderedIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for pos, id := range orderedIDs {
		if _, err := tx.Exec(ctx,
			`UPDATE questions SET position = $1 WHERE id = $2 AND test_id = $3`,
			pos, id, testID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
