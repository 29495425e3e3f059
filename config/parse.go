// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gogama/zkx"
	"github.com/gogama/zkx/ensemble"
	"github.com/gogama/zkx/fault"
)

// Attribute and element names of a client document.
const (
	AttrConnectionString    = "connection-string"
	AttrEnsembleProviderRef = "ensemble-provider-ref"
	AttrConnectionTimeout   = "connection-timeout"
	AttrSessionTimeout      = "session-timeout"
	AttrReadOnly            = "read-only"
	AttrNamespace           = "namespace"
	AttrDefaultData         = "default-data"
	AttrACLProviderRef      = "acl-provider-ref"
	AttrCompressionRef      = "compression-provider-ref"
	AttrThreadFactoryRef    = "thread-factory-ref"
	AttrZooKeeperFactoryRef = "zookeeper-factory-ref"

	ElemAuthorization = "authorization"
	AttrScheme        = "scheme"
	AttrCredentials   = "credentials"

	ElemRetryPolicy         = "retry-policy"
	AttrBaseSleepTime       = "base-sleep-time"
	AttrMaxSleepTime        = "max-sleep-time"
	AttrMaxRetries          = "max-retries"
	AttrSleepBetweenRetries = "sleep-between-retries"
	AttrMaxElapsedTime      = "max-elapsed-time"
)

type clientAttrs struct {
	ConnectionTimeout string `attr:"connection-timeout" validate:"omitempty,number"`
	SessionTimeout    string `attr:"session-timeout" validate:"omitempty,number"`
	ReadOnly          string `attr:"read-only" validate:"omitempty,boolean"`
}

type retryAttrs struct {
	BaseSleepTime       string `attr:"base-sleep-time" validate:"omitempty,number"`
	MaxSleepTime        string `attr:"max-sleep-time" validate:"omitempty,number"`
	MaxRetries          string `attr:"max-retries" validate:"omitempty,number"`
	SleepBetweenRetries string `attr:"sleep-between-retries" validate:"omitempty,number"`
	MaxElapsedTime      string `attr:"max-elapsed-time" validate:"omitempty,number"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("attr")
	})
	return v
}

// Parse converts a client element into a zkx.Config.
//
// Attributes that are absent or blank leave the corresponding Config
// field unset. Reference attributes are looked up in refs and must
// denote an object of the expected interface type. The retry-policy
// element must contain exactly one element, whose name is the retry
// policy type identifier; an unknown identifier, or a parameter the
// policy type requires but the element omits, is reported when the
// Config is built.
func Parse(el Element, refs Refs) (*zkx.Config, error) {
	trim := func(name string) string {
		return strings.TrimSpace(el.Attrs[name])
	}
	attrs := clientAttrs{
		ConnectionTimeout: trim(AttrConnectionTimeout),
		SessionTimeout:    trim(AttrSessionTimeout),
		ReadOnly:          trim(AttrReadOnly),
	}
	if err := check(attrs); err != nil {
		return nil, err
	}

	cfg := &zkx.Config{}
	var err error

	if v, ok := el.Attr(AttrConnectionString); ok {
		cfg.ConnectString = zkx.String(v)
	}
	if cfg.EnsembleProvider, err = resolve[ensemble.Provider](el, refs, AttrEnsembleProviderRef); err != nil {
		return nil, err
	}
	if cfg.ConnectionTimeoutMs, err = optionalInt(AttrConnectionTimeout, attrs.ConnectionTimeout); err != nil {
		return nil, err
	}
	if cfg.SessionTimeoutMs, err = optionalInt(AttrSessionTimeout, attrs.SessionTimeout); err != nil {
		return nil, err
	}
	if attrs.ReadOnly != "" {
		b, _ := strconv.ParseBool(attrs.ReadOnly)
		cfg.CanBeReadOnly = zkx.Bool(b)
	}
	if v, ok := el.Attrs[AttrNamespace]; ok {
		cfg.Namespace = zkx.String(strings.TrimSpace(v))
	}
	if v, ok := el.Attr(AttrDefaultData); ok {
		cfg.DefaultData = []byte(v)
	}
	if cfg.ACLProvider, err = resolve[zkx.ACLProvider](el, refs, AttrACLProviderRef); err != nil {
		return nil, err
	}
	if cfg.CompressionProvider, err = resolve[zkx.CompressionProvider](el, refs, AttrCompressionRef); err != nil {
		return nil, err
	}
	if cfg.Launcher, err = resolve[zkx.Launcher](el, refs, AttrThreadFactoryRef); err != nil {
		return nil, err
	}
	if cfg.ConnFactory, err = resolve[zkx.ConnFactory](el, refs, AttrZooKeeperFactoryRef); err != nil {
		return nil, err
	}

	var seenAuth, seenRetry bool
	for _, child := range el.Children {
		switch child.LocalName() {
		case ElemAuthorization:
			if seenAuth {
				return nil, fault.New(fault.DuplicateElement, ElemAuthorization)
			}
			seenAuth = true
			parseAuthorization(child, cfg)
		case ElemRetryPolicy:
			if seenRetry {
				return nil, fault.New(fault.DuplicateElement, ElemRetryPolicy)
			}
			seenRetry = true
			if err = parseRetryPolicy(child, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

func parseAuthorization(el Element, cfg *zkx.Config) {
	if v, ok := el.Attr(AttrScheme); ok {
		cfg.AuthScheme = zkx.String(v)
	}
	if v, ok := el.Attrs[AttrCredentials]; ok {
		cfg.AuthCredentials = []byte(v)
	}
}

func parseRetryPolicy(el Element, cfg *zkx.Config) error {
	if len(el.Children) == 0 {
		return nil
	} else if len(el.Children) > 1 {
		return &fault.ConfigurationError{
			Kind:  fault.DuplicateElement,
			Value: ElemRetryPolicy,
			Err:   fmt.Errorf("%d policy elements, want one", len(el.Children)),
		}
	}

	variant := el.Children[0]
	trim := func(name string) string {
		return strings.TrimSpace(variant.Attrs[name])
	}
	attrs := retryAttrs{
		BaseSleepTime:       trim(AttrBaseSleepTime),
		MaxSleepTime:        trim(AttrMaxSleepTime),
		MaxRetries:          trim(AttrMaxRetries),
		SleepBetweenRetries: trim(AttrSleepBetweenRetries),
		MaxElapsedTime:      trim(AttrMaxElapsedTime),
	}
	if err := check(attrs); err != nil {
		return err
	}

	spec := &cfg.RetryPolicy
	spec.Type = variant.LocalName()
	fields := []struct {
		name  string
		value string
		dst   **int
	}{
		{AttrBaseSleepTime, attrs.BaseSleepTime, &spec.BaseSleepTimeMs},
		{AttrMaxSleepTime, attrs.MaxSleepTime, &spec.MaxSleepTimeMs},
		{AttrMaxRetries, attrs.MaxRetries, &spec.MaxRetries},
		{AttrSleepBetweenRetries, attrs.SleepBetweenRetries, &spec.SleepBetweenRetriesMs},
		{AttrMaxElapsedTime, attrs.MaxElapsedTime, &spec.MaxElapsedTimeMs},
	}
	for _, f := range fields {
		n, err := optionalInt(f.name, f.value)
		if err != nil {
			return err
		}
		*f.dst = n
	}
	return nil
}

func check(attrs interface{}) error {
	err := validate.Struct(attrs)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &fault.ConfigurationError{
			Kind:  fault.InvalidAttribute,
			Value: fe.Field(),
			Err:   fmt.Errorf("%q is not a valid %s", fe.Value(), fe.Tag()),
		}
	}
	return err
}

func optionalInt(name, v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, &fault.ConfigurationError{Kind: fault.InvalidAttribute, Value: name, Err: err}
	}
	return zkx.Int(int(n)), nil
}

func resolve[T any](el Element, refs Refs, attr string) (T, error) {
	var zero T
	name, ok := el.Attr(attr)
	if !ok {
		return zero, nil
	}

	obj, ok := refs[name]
	if !ok || obj == nil {
		return zero, &fault.ConfigurationError{
			Kind:  fault.UnresolvedReference,
			Value: name,
			Err:   fmt.Errorf("no object named by %s", attr),
		}
	}

	t, ok := obj.(T)
	if !ok {
		return zero, &fault.ConfigurationError{
			Kind:  fault.UnresolvedReference,
			Value: name,
			Err:   fmt.Errorf("%s needs a %s, got %T", attr, reflect.TypeOf(&zero).Elem(), obj),
		}
	}
	return t, nil
}
