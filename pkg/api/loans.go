package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"booklib/pkg/models"
)

// MyLoans lists the caller's active loans.
func (c *Client) MyLoans(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := c.do(ctx, http.MethodGet, "/api/loans/my-books", nil, nil, &loans)
	return loans, err
}

// CheckRented reports whether the caller currently holds an active loan on
// the book. The server is the sole authority here; the answer must be
// consulted before offering the rent action.
func (c *Client) CheckRented(ctx context.Context, bookID uint) (bool, error) {
	var rented bool
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/loans/check/%d", bookID), nil, nil, &rented)
	return rented, err
}

// Rent requests a new loan on the book. A business-rule rejection (the
// one-active-book limit) comes back as *RentalError with the server's
// message.
func (c *Client) Rent(ctx context.Context, bookID uint) (models.Loan, error) {
	var loan models.Loan
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/loans/rent/%d", bookID), nil, nil, &loan)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return models.Loan{}, &RentalError{Message: apiErr.Message}
		}
		return models.Loan{}, err
	}
	return loan, nil
}

// AdminActiveLoans lists every active loan in the system (admin only).
func (c *Client) AdminActiveLoans(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := c.do(ctx, http.MethodGet, "/api/loans/admin/active", nil, nil, &loans)
	return loans, err
}

const day = 24 * time.Hour

// DaysLeft computes the countdown shown next to a loan: zero once the
// expiry has passed, otherwise the number of started days until it.
func DaysLeft(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int((diff + day - time.Nanosecond) / day)
}
