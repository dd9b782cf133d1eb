package encode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// Session owns one codec for the duration of an encode. Close stops and releases the codec
// at most once, whichever path ends the session.
type Session struct {
	codec  ports.Codec
	config ports.SessionConfig
	logger ports.Logger

	started   bool
	closeOnce sync.Once
	closeErr  error
}

// NewSession wraps a codec that has not been configured yet.
func NewSession(codec ports.Codec, config ports.SessionConfig, logger ports.Logger) *Session {
	return &Session{
		codec:  codec,
		config: config,
		logger: logger.WithComponent("session"),
	}
}

// Open configures and starts the codec.
func (s *Session) Open() error {
	if err := Validate(s.config); err != nil {
		return err
	}
	if err := s.codec.Configure(s.config); err != nil {
		return fmt.Errorf("configure %s: %w", s.codec.Name(), err)
	}
	if err := s.codec.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.codec.Name(), err)
	}
	s.started = true
	s.logger.Debug("Codec %s started (%dx%d @ %d fps, %d bps)",
		s.codec.Name(), s.config.Width, s.config.Height, s.config.FrameRate, s.config.EffectiveBitRate())
	return nil
}

// Close stops the codec if it was started and always releases it. Calls after the first
// return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.started {
			if err := s.codec.Stop(); err != nil {
				s.closeErr = fmt.Errorf("stop %s: %w", s.codec.Name(), err)
			}
		}
		s.codec.Release()
		s.logger.Debug("Codec %s released", s.codec.Name())
	})
	return s.closeErr
}

// Run opens the session, drives it to end of stream and tears it down on every path.
// A teardown failure is joined with the run error.
func (s *Session) Run(ctx context.Context, source ports.FrameSource, sink io.Writer, opts ...Option) (result Result, err error) {
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := s.Open(); err != nil {
		return Result{}, err
	}

	driver := NewDriver(s.codec, source, sink, s.config, s.logger, opts...)
	return driver.Run(ctx)
}
