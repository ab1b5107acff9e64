package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"booklib/pkg/models"
)

func fakeServer(t *testing.T, setup func(r *gin.Engine)) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginSuccess(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.POST("/auth/login", func(c *gin.Context) {
			var req map[string]string
			assert.NoError(t, c.ShouldBindJSON(&req))
			assert.Equal(t, "alice", req["username"])
			c.JSON(http.StatusOK, gin.H{"token": "jwt-token", "role": "USER"})
		})
	})

	client := NewClient(srv.URL, nil)
	sess, err := client.Login(context.Background(), "alice", "secret")
	assert.NoError(t, err)
	assert.Equal(t, models.Session{Token: "jwt-token", Role: "USER", Username: "alice"}, sess)
}

func TestLoginRejected(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.POST("/auth/login", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "bad credentials"})
		})
	})

	client := NewClient(srv.URL, nil)
	_, err := client.Login(context.Background(), "alice", "wrong")
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestRegisterStructuredCode(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.POST("/auth/register", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{
				"message": "Username is already taken",
				"code":    "USERNAME_TAKEN",
			})
		})
	})

	client := NewClient(srv.URL, nil)
	err := client.Register(context.Background(), "alice", "a@example.com", "longenoughpassword1")
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, CodeDuplicateUsername, valErr.Code)
	assert.Equal(t, "Username is already taken", valErr.Message)
}

func TestRegisterMessageFallback(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected ValidationCode
	}{
		{"duplicate email", "Email is already in use", CodeDuplicateEmail},
		{"duplicate username", "Username is already taken", CodeDuplicateUsername},
		{"weak password", "Password must be at least 12 characters", CodeWeakPassword},
		{"unknown wording", "Something went sideways", CodeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeServer(t, func(r *gin.Engine) {
				r.POST("/auth/register", func(c *gin.Context) {
					c.JSON(http.StatusBadRequest, gin.H{"message": tt.message})
				})
			})

			client := NewClient(srv.URL, nil)
			err := client.Register(context.Background(), "u", "e@example.com", "p")
			var valErr *ValidationError
			assert.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.expected, valErr.Code)
		})
	}
}

func TestBearerTokenSent(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.GET("/api/loans/my-books", func(c *gin.Context) {
			assert.Equal(t, "Bearer tok-123", c.GetHeader("Authorization"))
			assert.NotEmpty(t, c.GetHeader("X-Request-Id"))
			c.JSON(http.StatusOK, []models.Loan{})
		})
	})

	client := NewClient(srv.URL, func() string { return "tok-123" })
	loans, err := client.MyLoans(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, loans)
}

func TestCheckRented(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.GET("/api/loans/check/:bookId", func(c *gin.Context) {
			c.JSON(http.StatusOK, c.Param("bookId") == "7")
		})
	})

	client := NewClient(srv.URL, func() string { return "tok" })

	rented, err := client.CheckRented(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, rented)

	rented, err = client.CheckRented(context.Background(), 8)
	assert.NoError(t, err)
	assert.False(t, rented)
}

func TestRentRejection(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.POST("/api/loans/rent/:bookId", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Limit Reached: You can only have 1 active book at a time.",
			})
		})
	})

	client := NewClient(srv.URL, func() string { return "tok" })
	_, err := client.Rent(context.Background(), 3)
	var rentalErr *RentalError
	assert.ErrorAs(t, err, &rentalErr)
	assert.Contains(t, rentalErr.Message, "Limit Reached")
}

func TestRentSuccess(t *testing.T) {
	expiry := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	srv := fakeServer(t, func(r *gin.Engine) {
		r.POST("/api/loans/rent/:bookId", func(c *gin.Context) {
			c.JSON(http.StatusOK, models.Loan{
				ID:         1,
				LoanUid:    "0d3a1fb8-4d0e-4b39-9e34-1bb1f0d0a111",
				ExpiryDate: expiry,
				Price:      5.00,
				Book:       models.Book{ID: 3, Title: "1984"},
			})
		})
	})

	client := NewClient(srv.URL, func() string { return "tok" })
	loan, err := client.Rent(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 5.00, loan.Price)
	assert.Equal(t, "1984", loan.Book.Title)
	assert.True(t, loan.ExpiryDate.Equal(expiry))
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		expiry   time.Time
		expected int
	}{
		{"already expired", now.Add(-time.Hour), 0},
		{"expires exactly now", now, 0},
		{"under a day left", now.Add(6 * time.Hour), 1},
		{"exactly one day", now.Add(24 * time.Hour), 1},
		{"just over a day", now.Add(24*time.Hour + time.Second), 2},
		{"full three day loan", now.Add(72 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysLeft(tt.expiry, now))
		})
	}
}

func TestServerErrorSurfacesAsAPIError(t *testing.T) {
	srv := fakeServer(t, func(r *gin.Engine) {
		r.GET("/api/books", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		})
	})

	client := NewClient(srv.URL, nil)
	_, err := client.ListBooks(context.Background())
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
}
