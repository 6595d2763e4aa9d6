package repo

import (
	"context"
	"time"

	dom "Planner/internal/domain"
	"Planner/internal/recurrence"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReminderRepo interface {
	Create(ctx context.Context, r dom.Reminder) (dom.Reminder, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Reminder, error)
	List(ctx context.Context, userID int64) ([]dom.Reminder, error)
	ListInWindow(ctx context.Context, userID int64, from, to time.Time) ([]dom.Reminder, error)
	// ListAllInWindow is ListInWindow across every user.
	ListAllInWindow(ctx context.Context, from, to time.Time) ([]dom.Reminder, error)
	Update(ctx context.Context, userID, id int64, patch dom.Reminder) (dom.Reminder, error)
	UpdateSkipDates(ctx context.Context, userID, id int64, skip recurrence.SkipList) (dom.Reminder, error)
	SoftDelete(ctx context.Context, userID, id int64) error
}

const reminderColumns = `id, user_id, title, description, selected_day, selected_time,
	repeat_option, repeat_end_day, skip_dates, created_at, updated_at, deleted_at`

const reminderWindow = `
	  AND selected_day <= $2
	  AND ((repeat_option = '' AND selected_day >= $1)
	    OR (repeat_option <> '' AND (repeat_end_day IS NULL OR repeat_end_day >= $1)))`

type PGReminderRepo struct {
	db *pgxpool.Pool
}

func NewPGReminderRepo(db *pgxpool.Pool) *PGReminderRepo {
	return &PGReminderRepo{db: db}
}

func scanReminder(row rowScanner) (dom.Reminder, error) {
	var (
		r      dom.Reminder
		repeat string
		skip   []byte
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.SelectedDay, &r.SelectedTime,
		&repeat, &r.RepeatEndDay, &skip, &r.CreatedAt, &r.UpdatedAt, &r.DeletedAt)
	if err != nil {
		return dom.Reminder{}, err
	}
	r.Repeat = recurrence.RepeatOption(repeat)
	r.SkipDates = recurrence.ParseSkipList(skip)
	return r, nil
}

func collectReminders(rows pgx.Rows) ([]dom.Reminder, error) {
	defer rows.Close()
	var list []dom.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (r *PGReminderRepo) Create(ctx context.Context, rem dom.Reminder) (dom.Reminder, error) {
	skip, err := skipDatesParam(rem.SkipDates)
	if err != nil {
		return dom.Reminder{}, err
	}
	query := `
		INSERT INTO reminders (user_id, title, description, selected_day, selected_time,
			repeat_option, repeat_end_day, skip_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + reminderColumns
	return scanReminder(r.db.QueryRow(ctx, query, rem.UserID, rem.Title, rem.Description, rem.SelectedDay,
		rem.SelectedTime, string(rem.Repeat), rem.RepeatEndDay, skip))
}

func (r *PGReminderRepo) GetByID(ctx context.Context, userID, id int64) (dom.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
		FROM reminders WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return scanReminder(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGReminderRepo) List(ctx context.Context, userID int64) ([]dom.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
		FROM reminders WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY selected_day, selected_time`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectReminders(rows)
}

func (r *PGReminderRepo) ListInWindow(ctx context.Context, userID int64, from, to time.Time) ([]dom.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
		FROM reminders
		WHERE deleted_at IS NULL AND user_id = $3` + reminderWindow + `
		ORDER BY selected_day, selected_time`
	rows, err := r.db.Query(ctx, query, from, to, userID)
	if err != nil {
		return nil, err
	}
	return collectReminders(rows)
}

func (r *PGReminderRepo) ListAllInWindow(ctx context.Context, from, to time.Time) ([]dom.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
		FROM reminders
		WHERE deleted_at IS NULL` + reminderWindow + `
		ORDER BY user_id, selected_time`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectReminders(rows)
}

func (r *PGReminderRepo) Update(ctx context.Context, userID, id int64, patch dom.Reminder) (dom.Reminder, error) {
	skip, err := skipDatesParam(patch.SkipDates)
	if err != nil {
		return dom.Reminder{}, err
	}
	query := `
		UPDATE reminders SET title = $3, description = $4, selected_day = $5, selected_time = $6,
			repeat_option = $7, repeat_end_day = $8, skip_dates = $9, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + reminderColumns
	return scanReminder(r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, patch.SelectedDay,
		patch.SelectedTime, string(patch.Repeat), patch.RepeatEndDay, skip))
}

func (r *PGReminderRepo) UpdateSkipDates(ctx context.Context, userID, id int64, s recurrence.SkipList) (dom.Reminder, error) {
	skip, err := skipDatesParam(s)
	if err != nil {
		return dom.Reminder{}, err
	}
	query := `
		UPDATE reminders SET skip_dates = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + reminderColumns
	return scanReminder(r.db.QueryRow(ctx, query, id, userID, skip))
}

func (r *PGReminderRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx, `UPDATE reminders SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
