package sqlite

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateGroup persists a group with its member list.
func (t *sqliteTx) CreateGroup(g *models.Group) error {
	_, err := t.q.ExecContext(t.ctx,
		"INSERT INTO groups (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		g.ID, g.Name, g.Description, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, member := range g.Members {
		_, err = t.q.ExecContext(t.ctx,
			"INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
			g.ID, member, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (t *sqliteTx) GetGroup(id string) (*models.Group, error) {
	groups, err := t.queryGroups(
		"SELECT id, name, description, created_at FROM groups WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	return &groups[0], nil
}

// ListGroupsForMember returns the groups userID belongs to, oldest first.
func (t *sqliteTx) ListGroupsForMember(userID string) ([]models.Group, error) {
	return t.queryGroups(
		`SELECT g.id, g.name, g.description, g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at, g.id`,
		userID,
	)
}

func (t *sqliteTx) queryGroups(query string, args ...any) ([]models.Group, error) {
	rows, err := t.q.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	for i := range groups {
		members, err := t.groupMembers(groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (t *sqliteTx) groupMembers(groupID string) ([]string, error) {
	rows, err := t.q.QueryContext(t.ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}
