package rental

import (
	"context"
	"errors"
	"time"

	"booklib/pkg/api"
	"booklib/pkg/models"
	"booklib/pkg/notify"
	"booklib/pkg/session"
)

type State int

const (
	StateViewing State = iota
	StateConfirmingRental
	StateSubmitting
	StateRedirected
	StateFailed
)

// DefaultToastTTL is how long a rejection notification stays visible.
const DefaultToastTTL = 5 * time.Second

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrAlreadyOwned = errors.New("book is already rented by this user")
	ErrBadState     = errors.New("action not available in the current state")
)

// Flow drives the rental of a single book:
// Viewing -> ConfirmingRental -> Submitting -> Redirected or Failed.
// A failed submission surfaces the server message as a timed notification
// and the flow settles back in Viewing; nothing retries automatically.
type Flow struct {
	client   *api.Client
	sessions *session.Manager
	center   *notify.Center
	toastTTL time.Duration

	bookID  uint
	state   State
	owned   bool
	checked bool
}

func NewFlow(client *api.Client, sessions *session.Manager, center *notify.Center, bookID uint) *Flow {
	return &Flow{
		client:   client,
		sessions: sessions,
		center:   center,
		toastTTL: DefaultToastTTL,
		bookID:   bookID,
		state:    StateViewing,
	}
}

func (f *Flow) State() State {
	return f.state
}

// Load asks the server whether the viewer already holds this book. The
// server is the sole authority on prior loans, so this must complete
// before the rent action is offered. Logged-out viewers are never owners.
func (f *Flow) Load(ctx context.Context) error {
	if !f.sessions.Current().LoggedIn {
		f.owned = false
		f.checked = true
		return nil
	}
	owned, err := f.client.CheckRented(ctx, f.bookID)
	if err != nil {
		return err
	}
	f.owned = owned
	f.checked = true
	return nil
}

// Owned reports the result of Load.
func (f *Flow) Owned() bool {
	return f.owned
}

// CanRent is the guard on the rent action: only in Viewing, only after the
// ownership check, only for non-owners holding a token.
func (f *Flow) CanRent() bool {
	return f.state == StateViewing && f.checked && !f.owned && f.sessions.Current().LoggedIn
}

// Begin enters the confirmation step.
func (f *Flow) Begin() error {
	if f.state != StateViewing {
		return ErrBadState
	}
	if !f.sessions.Current().LoggedIn {
		return ErrNotLoggedIn
	}
	if !f.checked || f.owned {
		return ErrAlreadyOwned
	}
	f.state = StateConfirmingRental
	return nil
}

// Cancel leaves the confirmation step without renting.
func (f *Flow) Cancel() error {
	if f.state != StateConfirmingRental {
		return ErrBadState
	}
	f.state = StateViewing
	return nil
}

// Confirm submits the rental. On success the flow is Redirected (the caller
// navigates to the loan list). On a server rejection the message is pushed
// as an auto-dismissing notification and the flow returns to Viewing.
func (f *Flow) Confirm(ctx context.Context) (models.Loan, error) {
	if f.state != StateConfirmingRental {
		return models.Loan{}, ErrBadState
	}
	f.state = StateSubmitting

	loan, err := f.client.Rent(ctx, f.bookID)
	if err != nil {
		f.state = StateFailed
		var rentalErr *api.RentalError
		if errors.As(err, &rentalErr) {
			f.center.Push(notify.LevelError, rentalErr.Message, f.toastTTL)
		}
		f.state = StateViewing
		return models.Loan{}, err
	}

	f.state = StateRedirected
	f.owned = true
	return loan, nil
}
