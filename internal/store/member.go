package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/mealsbot/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

// Upsert records first contact with a user. A new row starts inactive so the
// admin can approve it later; repeat contacts refresh the name fields and
// never touch the active flag.
func (s *MemberStore) Upsert(id int64, username, firstName, lastName string) (*model.Member, error) {
	_, err := s.db.Exec(
		`INSERT INTO members (user_id, username, first_name, last_name)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     username = excluded.username,
		     first_name = excluded.first_name,
		     last_name = excluded.last_name,
		     updated_at = CURRENT_TIMESTAMP`,
		id, username, firstName, lastName,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	var m model.Member
	err := s.db.QueryRow(
		"SELECT user_id, username, first_name, last_name, active, created_at, updated_at FROM members WHERE user_id = ?",
		id,
	).Scan(&m.ID, &m.Username, &m.FirstName, &m.LastName, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return &m, nil
}

func (s *MemberStore) List() ([]model.Member, error) {
	return s.list("SELECT user_id, username, first_name, last_name, active, created_at, updated_at FROM members ORDER BY first_name, user_id")
}

// ListActive returns members eligible for surveys.
func (s *MemberStore) ListActive() ([]model.Member, error) {
	return s.list("SELECT user_id, username, first_name, last_name, active, created_at, updated_at FROM members WHERE active = 1 ORDER BY first_name, user_id")
}

// ListPending returns members awaiting admin approval.
func (s *MemberStore) ListPending() ([]model.Member, error) {
	return s.list("SELECT user_id, username, first_name, last_name, active, created_at, updated_at FROM members WHERE active = 0 ORDER BY first_name, user_id")
}

func (s *MemberStore) list(query string) ([]model.Member, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Username, &m.FirstName, &m.LastName, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// SetActive flips the membership flag. Rows are never deleted; deactivation
// is the only way out.
func (s *MemberStore) SetActive(id int64, active bool) error {
	_, err := s.db.Exec(
		"UPDATE members SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?",
		active, id,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}

// IsActive reports whether the user may use member-facing commands: a row
// must exist and carry active = 1.
func (s *MemberStore) IsActive(id int64) (bool, error) {
	var active bool
	err := s.db.QueryRow("SELECT active FROM members WHERE user_id = ?", id).Scan(&active)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query active: %w", err)
	}
	return active, nil
}
