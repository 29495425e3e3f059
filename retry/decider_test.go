// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
)

func TestTransientErr(t *testing.T) {
	a := Attempt{}
	for i, te := range transientErrs {
		t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
			a.Err = te
			assert.True(t, TransientErr(&a))
			a.Err = fmt.Errorf("wrapped: %w", te)
			assert.True(t, TransientErr(&a))
		})
	}
	for j, nte := range nonTransientErrs {
		t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", j, nte), func(t *testing.T) {
			a.Err = nte
			assert.False(t, TransientErr(&a))
		})
	}
}

func TestDeciderAnd(t *testing.T) {
	true_ := DeciderFunc(func(_ *Attempt) bool { return true })
	false_ := DeciderFunc(func(_ *Attempt) bool { return false })
	tt := true_.And(true_)
	tf := true_.And(false_)
	ft := false_.And(true_)
	ff := false_.And(false_)
	assert.True(t, tt(&Attempt{}))
	assert.False(t, tf(&Attempt{}))
	assert.False(t, ft(&Attempt{}))
	assert.False(t, ff(&Attempt{}))
}

func TestDeciderOr(t *testing.T) {
	true_ := DeciderFunc(func(_ *Attempt) bool { return true })
	false_ := DeciderFunc(func(_ *Attempt) bool { return false })
	tt := true_.Or(true_)
	tf := true_.Or(false_)
	ft := false_.Or(true_)
	ff := false_.Or(false_)
	assert.True(t, tt(&Attempt{}))
	assert.True(t, tf(&Attempt{}))
	assert.True(t, ft(&Attempt{}))
	assert.False(t, ff(&Attempt{}))
}

func TestTimes(t *testing.T) {
	zero := Times(0)
	assert.False(t, zero(&Attempt{}))
	one := Times(1)
	assert.True(t, one(&Attempt{}))
	assert.False(t, one(&Attempt{Count: 1}))
	two := Times(2)
	assert.True(t, two(&Attempt{Count: 1}))
	assert.False(t, two(&Attempt{Count: 2}))
}

func TestBefore(t *testing.T) {
	before := Before(time.Minute)
	a := Attempt{Start: time.Now()}
	for i := 0; i < 20; i++ {
		a.Count = i
		assert.True(t, before(&a))
	}
	a.Start = time.Now().Add(-2 * time.Minute)
	assert.False(t, before(&a))
}

func TestAttempt(t *testing.T) {
	t.Run("Elapsed", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), (&Attempt{}).Elapsed())
		a := Attempt{Start: time.Now().Add(-time.Second)}
		assert.GreaterOrEqual(t, a.Elapsed(), time.Second)
	})
	t.Run("Timeout", func(t *testing.T) {
		assert.False(t, (&Attempt{}).Timeout())
		assert.False(t, (&Attempt{Err: zk.ErrNoServer}).Timeout())
		assert.True(t, (&Attempt{Err: syscall.ETIMEDOUT}).Timeout())
	})
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
		zk.ErrConnectionClosed,
		zk.ErrNoServer,
		zk.ErrSessionMoved,
		zk.ErrSessionExpired,
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		zk.ErrNoNode,
		zk.ErrNodeExists,
		zk.ErrNoAuth,
	}
)
