package repo

import (
	"context"
	"time"

	dom "Planner/internal/domain"
	"Planner/internal/recurrence"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64) ([]dom.Task, error)
	// ListInWindow returns tasks that may occur between from and to inclusive.
	ListInWindow(ctx context.Context, userID int64, from, to time.Time) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	UpdateSkipDates(ctx context.Context, userID, id int64, skip recurrence.SkipList) (dom.Task, error)
	MarkDone(ctx context.Context, userID, id int64, done bool) (dom.Task, error)
	SoftDelete(ctx context.Context, userID, id int64) error
}

const taskColumns = `id, user_id, title, description, selected_day, start_time, end_time,
	repeat_option, repeat_end_day, skip_dates, is_done, created_at, updated_at, deleted_at`

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func scanTask(row rowScanner) (dom.Task, error) {
	var (
		t      dom.Task
		repeat string
		skip   []byte
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.SelectedDay, &t.StartTime, &t.EndTime,
		&repeat, &t.RepeatEndDay, &skip, &t.IsDone, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		return dom.Task{}, err
	}
	t.Repeat = recurrence.RepeatOption(repeat)
	t.SkipDates = recurrence.ParseSkipList(skip)
	return t, nil
}

func collectTasks(rows pgx.Rows) ([]dom.Task, error) {
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	skip, err := skipDatesParam(t.SkipDates)
	if err != nil {
		return dom.Task{}, err
	}
	query := `
		INSERT INTO tasks (user_id, title, description, selected_day, start_time, end_time,
			repeat_option, repeat_end_day, skip_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.UserID, t.Title, t.Description, t.SelectedDay,
		t.StartTime, t.EndTime, string(t.Repeat), t.RepeatEndDay, skip))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY selected_day, start_time`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) ListInWindow(ctx context.Context, userID int64, from, to time.Time) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND deleted_at IS NULL
		  AND selected_day <= $3
		  AND ((repeat_option = '' AND selected_day >= $2)
		    OR (repeat_option <> '' AND (repeat_end_day IS NULL OR repeat_end_day >= $2)))
		ORDER BY selected_day, start_time`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	skip, err := skipDatesParam(patch.SkipDates)
	if err != nil {
		return dom.Task{}, err
	}
	query := `
		UPDATE tasks SET title = $3, description = $4, selected_day = $5, start_time = $6, end_time = $7,
			repeat_option = $8, repeat_end_day = $9, skip_dates = $10, is_done = $11, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, patch.SelectedDay,
		patch.StartTime, patch.EndTime, string(patch.Repeat), patch.RepeatEndDay, skip, patch.IsDone))
}

func (r *PGTaskRepo) UpdateSkipDates(ctx context.Context, userID, id int64, s recurrence.SkipList) (dom.Task, error) {
	skip, err := skipDatesParam(s)
	if err != nil {
		return dom.Task{}, err
	}
	query := `
		UPDATE tasks SET skip_dates = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, skip))
}

func (r *PGTaskRepo) MarkDone(ctx context.Context, userID, id int64, done bool) (dom.Task, error) {
	query := `
		UPDATE tasks SET is_done = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, done))
}

func (r *PGTaskRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
