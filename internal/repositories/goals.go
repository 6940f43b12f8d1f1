package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// GoalRepository implements [models.Repository] for [models.ReadingGoal] persistence.
type GoalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new [GoalRepository] with the given database connection
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a new goal with generated ID and sequence
func (r *GoalRepository) Create(goal *models.ReadingGoal) error {
	sequence, err := NextSequence(r.db, "reading_goals")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	goal.SetID(id)
	goal.SetSequence(sequence)

	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO reading_goals (id, sequence, goal_type, target, current, timeframe, start_date, end_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		string(goal.GoalType()),
		goal.Target(),
		goal.Current(),
		goal.Timeframe(),
		goal.StartDate(),
		goal.EndDate(),
		goal.Status(),
		goal.CreatedAt(),
		goal.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	return nil
}

// Get retrieves a goal by ID, excluding soft-deleted goals
func (r *GoalRepository) Get(id string) (*models.ReadingGoal, error) {
	query := goalSelect + " WHERE id = ? AND deleted_at IS NULL"

	goal, err := r.scanOne(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal not found: %s", id)
	}
	return goal, err
}

// Update modifies an existing goal
func (r *GoalRepository) Update(goal *models.ReadingGoal) error {
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	goal.SetUpdatedAt(now)

	query := `
		UPDATE reading_goals
		SET target = ?, current = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, goal.Target(), goal.Current(), goal.Status(), now, goal.ID())
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("goal not found or already deleted: %s", goal.ID())
	}

	return nil
}

// Delete soft-deletes a goal by ID
func (r *GoalRepository) Delete(id string) error {
	now := time.Now()

	result, err := r.db.Exec("UPDATE reading_goals SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("goal not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves goals matching the given criteria.
//
// Supported criteria: "status" and "goal_type".
func (r *GoalRepository) List(criteria map[string]any) ([]*models.ReadingGoal, error) {
	query := goalSelect + " WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if goalType, ok := criteria["goal_type"].(string); ok && goalType != "" {
		query += " AND goal_type = ?"
		args = append(args, goalType)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.ReadingGoal
	for rows.Next() {
		goal, err := r.scanRows(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return goals, nil
}

// AddProgress increments a goal's counter and completes it when the target is reached.
func (r *GoalRepository) AddProgress(id string, amount int) (*models.ReadingGoal, error) {
	goal, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	goal.SetCurrent(goal.Current() + amount)
	if goal.Current() >= goal.Target() {
		goal.SetStatus("completed")
	}

	if err := r.Update(goal); err != nil {
		return nil, err
	}

	return goal, nil
}

const goalSelect = `
	SELECT id, sequence, goal_type, target, current, timeframe, start_date, end_date, status, created_at, updated_at, deleted_at
	FROM reading_goals`

type goalColumns struct {
	id        string
	sequence  int
	goalType  string
	target    int
	current   int
	timeframe string
	startDate time.Time
	endDate   time.Time
	status    string
	createdAt time.Time
	updatedAt time.Time
	deletedAt sql.NullTime
}

func (c *goalColumns) fields() []any {
	return []any{
		&c.id, &c.sequence, &c.goalType, &c.target, &c.current, &c.timeframe,
		&c.startDate, &c.endDate, &c.status, &c.createdAt, &c.updatedAt, &c.deletedAt,
	}
}

func (c *goalColumns) build() *models.ReadingGoal {
	goal := models.NewReadingGoal(c.sequence, models.GoalType(c.goalType), c.target, c.timeframe, c.startDate, c.endDate)
	goal.SetID(c.id)
	goal.SetCurrent(c.current)
	goal.SetStatus(c.status)
	goal.SetCreatedAt(c.createdAt)
	goal.SetUpdatedAt(c.updatedAt)
	if c.deletedAt.Valid {
		goal.SetDeletedAt(&c.deletedAt.Time)
	}
	return goal
}

func (r *GoalRepository) scanOne(row *sql.Row) (*models.ReadingGoal, error) {
	var c goalColumns
	err := row.Scan(c.fields()...)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}
	return c.build(), nil
}

func (r *GoalRepository) scanRows(rows *sql.Rows) (*models.ReadingGoal, error) {
	var c goalColumns
	if err := rows.Scan(c.fields()...); err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	return c.build(), nil
}
