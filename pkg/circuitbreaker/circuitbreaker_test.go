package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errRemote = errors.New("remote failed")

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(2, time.Minute)
	fail := func() error { return errRemote }

	assert.Error(t, cb.Execute(fail, nil))
	assert.Equal(t, StateClosed, cb.State())

	assert.Error(t, cb.Execute(fail, nil))
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(func() error { return nil }, nil)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestFallbackWhileOpen(t *testing.T) {
	cb := New(1, time.Minute)
	assert.Error(t, cb.Execute(func() error { return errRemote }, nil))

	called := false
	err := cb.Execute(func() error { return nil }, func() error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestHalfOpenProbe(t *testing.T) {
	cb := New(1, 10*time.Millisecond)
	assert.Error(t, cb.Execute(func() error { return errRemote }, nil))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// probe failure re-opens immediately
	assert.Error(t, cb.Execute(func() error { return errRemote }, nil))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// probe success closes
	assert.NoError(t, cb.Execute(func() error { return nil }, nil))
	assert.Equal(t, StateClosed, cb.State())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(2, time.Minute)

	assert.Error(t, cb.Execute(func() error { return errRemote }, nil))
	assert.NoError(t, cb.Execute(func() error { return nil }, nil))
	assert.Error(t, cb.Execute(func() error { return errRemote }, nil))
	assert.Equal(t, StateClosed, cb.State())
}
