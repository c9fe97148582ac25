package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

const goalColumns = "id, name, target_cents, current_cents, deadline, category"

func scanGoal(sc interface{ Scan(...any) error }) (model.Goal, error) {
	var (
		g        model.Goal
		target   int64
		current  int64
		deadline string
		category sql.NullString
	)
	if err := sc.Scan(&g.ID, &g.Name, &target, &current, &deadline, &category); err != nil {
		return g, err
	}
	d, err := time.Parse(dateLayout, deadline)
	if err != nil {
		return g, fmt.Errorf("goal %s: parsing deadline: %w", g.ID, err)
	}
	g.Target = money.FromCents(target)
	g.Current = money.FromCents(current)
	g.Deadline = d
	if category.Valid {
		g.Category = category.String
	}
	return g, nil
}

func listGoals(q queryer) ([]model.Goal, error) {
	rows, err := q.Query("SELECT " + goalColumns + " FROM goals ORDER BY deadline, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ListGoals returns every goal ordered by deadline.
func (s *Store) ListGoals() ([]model.Goal, error) {
	return listGoals(s.db)
}

// GetGoal returns one goal.
func (s *Store) GetGoal(id string) (model.Goal, error) {
	g, err := scanGoal(s.db.QueryRow("SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return g, notFound("goal", id)
	}
	return g, err
}

func putGoal(q queryer, g model.Goal) (model.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	ts := now()
	_, err := q.Exec(`INSERT INTO goals
		(id, name, target_cents, current_cents, deadline, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_cents = excluded.target_cents,
			current_cents = excluded.current_cents,
			deadline = excluded.deadline,
			category = excluded.category,
			updated_at = excluded.updated_at`,
		g.ID, g.Name, g.Target.Cents(), g.Current.Cents(), g.Deadline.Format(dateLayout), g.Category, ts, ts,
	)
	return g, err
}

// PutGoal inserts or updates a goal, assigning an id when it has none.
func (s *Store) PutGoal(g model.Goal) (model.Goal, error) {
	g, err := putGoal(s.db, g)
	if err != nil {
		return g, fmt.Errorf("saving goal: %w", err)
	}
	return g, nil
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("goal", id)
	}
	return nil
}

// Contribute adds amount to a goal's saved total. Over-funding is allowed.
func (s *Store) Contribute(id string, amount money.Money) (model.Goal, error) {
	if amount <= 0 {
		return model.Goal{}, fmt.Errorf("contribution %s must be positive", amount)
	}
	res, err := s.db.Exec("UPDATE goals SET current_cents = current_cents + ?, updated_at = ? WHERE id = ?",
		amount.Cents(), now(), id)
	if err != nil {
		return model.Goal{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Goal{}, notFound("goal", id)
	}
	g, err := s.GetGoal(id)
	if err != nil {
		return g, err
	}
	s.log.WithFields(logrus.Fields{"goal_id": id, "amount": amount.String(), "current": g.Current.String()}).Info("goal contribution")
	return g, nil
}
