package database

import (
	"context"
	"database/sql"
	"fmt"

	"presence_report_bot/internal/domain/member"

	"github.com/lib/pq"
)

// PostgresMemberRepository stores the member directory in the members(id, name) table.
type PostgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) *PostgresMemberRepository {
	return &PostgresMemberRepository{db: db}
}

// UpsertAll inserts or renames every member in a single statement.
func (r *PostgresMemberRepository) UpsertAll(ctx context.Context, members []member.Member) error {
	if len(members) == 0 {
		return nil
	}

	ids := make([]int64, len(members))
	names := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
		names[i] = m.Name
	}

	query := `INSERT INTO members (id, name)
               SELECT * FROM UNNEST($1::bigint[], $2::text[])
               ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids), pq.Array(names)); err != nil {
		return fmt.Errorf("error upserting members: %w", err)
	}
	return nil
}

func (r *PostgresMemberRepository) ListAll(ctx context.Context) ([]member.Member, error) {
	query := `SELECT id, name FROM members ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := make([]member.Member, 0)
	for rows.Next() {
		var m member.Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("error scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}
