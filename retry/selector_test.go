// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"testing"

	"github.com/gogama/zkx/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	assert.Equal(t, []string{
		"bounded-exponential-backoff",
		"exponential-backoff",
		"retry-n-times",
		"retry-one-time",
		"retry-until-elapsed",
	}, Types())
}

func TestResolve(t *testing.T) {
	t.Run("bounded-exponential-backoff", func(t *testing.T) {
		p, err := Resolve("bounded-exponential-backoff", Spec{BaseSleepTimeMs: intp(100), MaxSleepTimeMs: intp(2000), MaxRetries: intp(3)})
		require.NoError(t, err)
		require.IsType(t, &BoundedExponentialBackoff{}, p)
		b := p.(*BoundedExponentialBackoff)
		assert.Equal(t, 100, b.BaseSleepTimeMs())
		assert.Equal(t, 2000, b.MaxSleepTimeMs())
		assert.Equal(t, 3, b.MaxRetries())
	})
	t.Run("exponential-backoff", func(t *testing.T) {
		p, err := Resolve("exponential-backoff", Spec{BaseSleepTimeMs: intp(50), MaxRetries: intp(10), MaxSleepTimeMs: intp(5000)})
		require.NoError(t, err)
		require.IsType(t, &ExponentialBackoff{}, p)
		e := p.(*ExponentialBackoff)
		assert.Equal(t, 50, e.BaseSleepTimeMs())
		assert.Equal(t, 10, e.MaxRetries())
		assert.Equal(t, 5000, e.MaxSleepTimeMs())
	})
	t.Run("retry-n-times", func(t *testing.T) {
		p, err := Resolve("retry-n-times", Spec{MaxRetries: intp(3), SleepBetweenRetriesMs: intp(500)})
		require.NoError(t, err)
		require.IsType(t, &NTimes{}, p)
		n := p.(*NTimes)
		assert.Equal(t, 3, n.MaxRetries())
		assert.Equal(t, 500, n.SleepBetweenRetriesMs())
	})
	t.Run("retry-one-time", func(t *testing.T) {
		p, err := Resolve("retry-one-time", Spec{SleepBetweenRetriesMs: intp(250), MaxRetries: intp(99)})
		require.NoError(t, err)
		require.IsType(t, &OneTime{}, p)
		assert.Equal(t, 250, p.(*OneTime).SleepBetweenRetriesMs())
	})
	t.Run("retry-until-elapsed", func(t *testing.T) {
		p, err := Resolve("retry-until-elapsed", Spec{MaxElapsedTimeMs: intp(10000), SleepBetweenRetriesMs: intp(1000)})
		require.NoError(t, err)
		require.IsType(t, &UntilElapsed{}, p)
		u := p.(*UntilElapsed)
		assert.Equal(t, 10000, u.MaxElapsedTimeMs())
		assert.Equal(t, 1000, u.SleepBetweenRetriesMs())
	})
	t.Run("unknown", func(t *testing.T) {
		for _, id := range []string{"retry-forever", "", "Retry-N-Times", "RETRY-ONE-TIME"} {
			p, err := Resolve(id, Spec{MaxRetries: intp(1)})
			assert.Nil(t, p, id)
			require.Error(t, err, id)
			assert.True(t, errors.Is(err, fault.ErrUnknownRetryPolicy), id)
			var ce *fault.ConfigurationError
			require.True(t, errors.As(err, &ce), id)
			assert.Equal(t, id, ce.Value)
		}
	})
	t.Run("missing parameter", func(t *testing.T) {
		full := Spec{
			BaseSleepTimeMs:       intp(100),
			MaxSleepTimeMs:        intp(2000),
			MaxRetries:            intp(3),
			SleepBetweenRetriesMs: intp(500),
			MaxElapsedTimeMs:      intp(10000),
		}
		testCases := []struct {
			typeID string
			param  string
			unset  func(*Spec)
		}{
			{TypeBoundedExponentialBackoff, "base-sleep-time", func(s *Spec) { s.BaseSleepTimeMs = nil }},
			{TypeBoundedExponentialBackoff, "max-sleep-time", func(s *Spec) { s.MaxSleepTimeMs = nil }},
			{TypeBoundedExponentialBackoff, "max-retries", func(s *Spec) { s.MaxRetries = nil }},
			{TypeExponentialBackoff, "base-sleep-time", func(s *Spec) { s.BaseSleepTimeMs = nil }},
			{TypeExponentialBackoff, "max-sleep-time", func(s *Spec) { s.MaxSleepTimeMs = nil }},
			{TypeExponentialBackoff, "max-retries", func(s *Spec) { s.MaxRetries = nil }},
			{TypeNTimes, "max-retries", func(s *Spec) { s.MaxRetries = nil }},
			{TypeNTimes, "sleep-between-retries", func(s *Spec) { s.SleepBetweenRetriesMs = nil }},
			{TypeOneTime, "sleep-between-retries", func(s *Spec) { s.SleepBetweenRetriesMs = nil }},
			{TypeUntilElapsed, "max-elapsed-time", func(s *Spec) { s.MaxElapsedTimeMs = nil }},
			{TypeUntilElapsed, "sleep-between-retries", func(s *Spec) { s.SleepBetweenRetriesMs = nil }},
		}
		for _, testCase := range testCases {
			t.Run(testCase.typeID+"/"+testCase.param, func(t *testing.T) {
				s := full
				testCase.unset(&s)
				p, err := Resolve(testCase.typeID, s)
				assert.Nil(t, p)
				require.Error(t, err)
				assert.True(t, errors.Is(err, fault.ErrInvalidAttribute))
				var ce *fault.ConfigurationError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, testCase.param, ce.Value)
				assert.Contains(t, err.Error(), testCase.typeID)
			})
		}
	})
	t.Run("unused parameters ignored", func(t *testing.T) {
		p, err := Resolve(TypeOneTime, Spec{SleepBetweenRetriesMs: intp(0)})
		require.NoError(t, err)
		assert.Equal(t, 0, p.(*OneTime).SleepBetweenRetriesMs())
	})
	t.Run("Spec.Resolve", func(t *testing.T) {
		p, err := Spec{Type: TypeOneTime, SleepBetweenRetriesMs: intp(5)}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 5, p.(*OneTime).SleepBetweenRetriesMs())
	})
}

func intp(n int) *int {
	return &n
}
