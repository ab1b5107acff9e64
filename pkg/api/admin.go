package api

import (
	"context"
	"fmt"
	"net/http"

	"booklib/pkg/models"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalBooks  int64 `json:"totalBooks"`
	TotalUsers  int64 `json:"totalUsers"`
	ActiveLoans int64 `json:"activeLoans"`
}

func (c *Client) AdminStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &stats)
	return stats, err
}

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, nil, &users)
	return users, err
}

func (c *Client) AdminDeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), nil, nil, nil)
}
