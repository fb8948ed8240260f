package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/mealsbot/internal/model"
)

type ResponseStore struct {
	db *sql.DB
}

func NewResponseStore(db *sql.DB) *ResponseStore {
	return &ResponseStore{db: db}
}

// Get returns the response row for one cell, or nil when the cell is unset.
func (s *ResponseStore) Get(memberID int64, weekStart string, day model.Day, meal model.MealType) (*model.Response, error) {
	var r model.Response
	err := s.db.QueryRow(
		`SELECT id, user_id, week_start, day, meal_type, response, updated_at
		 FROM responses
		 WHERE user_id = ? AND week_start = ? AND day = ? AND meal_type = ?`,
		memberID, weekStart, day, meal,
	).Scan(&r.ID, &r.MemberID, &r.WeekStart, &r.Day, &r.Meal, &r.Value, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query response: %w", err)
	}
	return &r, nil
}

// Toggle flips one cell and returns the new value. An unset cell becomes
// true; a set cell is negated in place. Read and write are two separate
// statements; contention on a member's own cell is not expected.
func (s *ResponseStore) Toggle(memberID int64, weekStart string, day model.Day, meal model.MealType) (bool, error) {
	current, err := s.Get(memberID, weekStart, day, meal)
	if err != nil {
		return false, err
	}

	if current == nil {
		_, err := s.db.Exec(
			"INSERT INTO responses (user_id, week_start, day, meal_type, response) VALUES (?, ?, ?, ?, 1)",
			memberID, weekStart, day, meal,
		)
		if err != nil {
			return false, fmt.Errorf("insert response: %w", err)
		}
		return true, nil
	}

	next := !current.Value
	_, err = s.db.Exec(
		"UPDATE responses SET response = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		next, current.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update response: %w", err)
	}
	return next, nil
}

// ListForWeek returns every row a member has for one week, in insertion
// order. Callers group by day using the model's canonical ordering.
func (s *ResponseStore) ListForWeek(memberID int64, weekStart string) ([]model.Response, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, week_start, day, meal_type, response, updated_at
		 FROM responses
		 WHERE user_id = ? AND week_start = ?
		 ORDER BY id`,
		memberID, weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var r model.Response
		if err := rows.Scan(&r.ID, &r.MemberID, &r.WeekStart, &r.Day, &r.Meal, &r.Value, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// CountSelected counts a member's true-valued cells for one week. Submission
// requires at least one.
func (s *ResponseStore) CountSelected(memberID int64, weekStart string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM responses WHERE user_id = ? AND week_start = ? AND response = 1",
		memberID, weekStart,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count selected: %w", err)
	}
	return count, nil
}

// CellCount holds the weekly aggregate for one (day, meal) cell.
type CellCount struct {
	Day   model.Day
	Meal  model.MealType
	Count int
}

// WeeklyCounts aggregates how many members answered true per (day, meal)
// cell for one week. Cells nobody selected are absent from the result.
func (s *ResponseStore) WeeklyCounts(weekStart string) ([]CellCount, error) {
	rows, err := s.db.Query(
		`SELECT day, meal_type, COUNT(DISTINCT user_id)
		 FROM responses
		 WHERE week_start = ? AND response = 1
		 GROUP BY day, meal_type`,
		weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("query weekly counts: %w", err)
	}
	defer rows.Close()

	var counts []CellCount
	for rows.Next() {
		var c CellCount
		if err := rows.Scan(&c.Day, &c.Meal, &c.Count); err != nil {
			return nil, fmt.Errorf("scan weekly count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
