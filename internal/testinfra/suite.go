//go:build integration
// +build integration

package testinfra

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type TestSuite struct {
	Kafka    *KafkaContainer
	Wiremock *WiremockContainer
}

type SuiteOptions struct {
	WithKafka    bool
	WithWiremock bool
	MappingsPath string // for Wiremock
}

// NewTestSuite starts the requested containers in parallel.
func NewTestSuite(ctx context.Context, opts SuiteOptions) (*TestSuite, error) {
	if !opts.WithKafka && !opts.WithWiremock {
		return nil, errors.New("no containers requested")
	}

	suite := &TestSuite{}
	var g errgroup.Group

	if opts.WithKafka {
		g.Go(func() error {
			k, err := NewKafka(ctx)
			if err != nil {
				return fmt.Errorf("kafka: %w", err)
			}
			suite.Kafka = k
			return nil
		})
	}

	if opts.WithWiremock {
		g.Go(func() error {
			w, err := NewWiremock(ctx, opts.MappingsPath)
			if err != nil {
				return fmt.Errorf("wiremock: %w", err)
			}
			suite.Wiremock = w
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		suite.Cleanup(ctx)
		return nil, fmt.Errorf("failed to start containers: %w", err)
	}
	return suite, nil
}

func (s *TestSuite) Cleanup(ctx context.Context) {
	if s.Wiremock != nil {
		s.Wiremock.Cleanup(ctx)
	}
	if s.Kafka != nil {
		s.Kafka.Cleanup(ctx)
	}
}
