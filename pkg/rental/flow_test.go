package rental

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"booklib/pkg/api"
	"booklib/pkg/credstore"
	"booklib/pkg/models"
	"booklib/pkg/notify"
	"booklib/pkg/session"
)

type fixture struct {
	client   *api.Client
	sessions *session.Manager
	stores   *credstore.Stores
	center   *notify.Center
}

func setup(t *testing.T, handlers func(r *gin.Engine)) *fixture {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	stores := credstore.New(
		credstore.NewFileStore(filepath.Join(dir, "credentials.json")),
		credstore.NewFileStore(filepath.Join(dir, "session.json")),
	)
	sessions := session.NewManager(stores)
	client := api.NewClient(srv.URL, sessions.Token)

	return &fixture{client: client, sessions: sessions, stores: stores, center: notify.NewCenter()}
}

func (f *fixture) login(t *testing.T) {
	err := f.stores.Write(models.Session{Token: "tok", Role: models.RoleUser, Username: "alice"}, false)
	assert.NoError(t, err)
}

func notRented(r *gin.Engine) {
	r.GET("/api/loans/check/:bookId", func(c *gin.Context) {
		c.JSON(http.StatusOK, false)
	})
}

func TestRentUnavailableWhenLoggedOut(t *testing.T) {
	f := setup(t, notRented)

	flow := NewFlow(f.client, f.sessions, f.center, 1)
	assert.NoError(t, flow.Load(context.Background()))

	assert.False(t, flow.CanRent())
	assert.ErrorIs(t, flow.Begin(), ErrNotLoggedIn)
	assert.Equal(t, StateViewing, flow.State())
}

func TestRentUnavailableWhenOwned(t *testing.T) {
	f := setup(t, func(r *gin.Engine) {
		r.GET("/api/loans/check/:bookId", func(c *gin.Context) {
			c.JSON(http.StatusOK, true)
		})
	})
	f.login(t)

	flow := NewFlow(f.client, f.sessions, f.center, 1)
	assert.NoError(t, flow.Load(context.Background()))

	assert.True(t, flow.Owned())
	assert.False(t, flow.CanRent())
	assert.ErrorIs(t, flow.Begin(), ErrAlreadyOwned)
}

func TestCancelReturnsToViewing(t *testing.T) {
	f := setup(t, notRented)
	f.login(t)

	flow := NewFlow(f.client, f.sessions, f.center, 1)
	assert.NoError(t, flow.Load(context.Background()))
	assert.True(t, flow.CanRent())

	assert.NoError(t, flow.Begin())
	assert.Equal(t, StateConfirmingRental, flow.State())

	assert.NoError(t, flow.Cancel())
	assert.Equal(t, StateViewing, flow.State())

	// confirm is not reachable outside the confirmation step
	_, err := flow.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrBadState)
}

func TestConfirmSuccessRedirects(t *testing.T) {
	f := setup(t, func(r *gin.Engine) {
		notRented(r)
		r.POST("/api/loans/rent/:bookId", func(c *gin.Context) {
			c.JSON(http.StatusOK, models.Loan{
				ID:         9,
				ExpiryDate: time.Now().Add(72 * time.Hour),
				Price:      5.00,
			})
		})
	})
	f.login(t)

	flow := NewFlow(f.client, f.sessions, f.center, 1)
	assert.NoError(t, flow.Load(context.Background()))
	assert.NoError(t, flow.Begin())

	loan, err := flow.Confirm(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint(9), loan.ID)
	assert.Equal(t, StateRedirected, flow.State())
	assert.True(t, flow.Owned())
}

func TestConfirmRejectionShowsToastAndReturnsToViewing(t *testing.T) {
	f := setup(t, func(r *gin.Engine) {
		notRented(r)
		r.POST("/api/loans/rent/:bookId", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Limit Reached: You can only have 1 active book at a time.",
			})
		})
	})
	f.login(t)

	flow := NewFlow(f.client, f.sessions, f.center, 1)
	assert.NoError(t, flow.Load(context.Background()))
	assert.NoError(t, flow.Begin())

	_, err := flow.Confirm(context.Background())
	var rentalErr *api.RentalError
	assert.ErrorAs(t, err, &rentalErr)

	assert.Equal(t, StateViewing, flow.State())
	assert.False(t, flow.Owned())

	toasts := f.center.Active()
	assert.Len(t, toasts, 1)
	assert.Contains(t, toasts[0].Message, "Limit Reached")
	assert.Equal(t, notify.LevelError, toasts[0].Level)
}
