package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/jsbridge/internal/application/port"
	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/logging"
)

// RunPageUseCase attaches a native surface to a page host and loads a page.
type RunPageUseCase struct {
	registry *bridge.Registry
}

// NewRunPageUseCase creates a new RunPageUseCase.
func NewRunPageUseCase(registry *bridge.Registry) *RunPageUseCase {
	return &RunPageUseCase{
		registry: registry,
	}
}

// RunPageInput contains the page and the bridge settings.
type RunPageInput struct {
	Host        port.PageHost
	URL         string
	Source      string
	ExposedName string
	Options     []bridge.Option
}

// RunPageOutput describes the bridge that served the page.
type RunPageOutput struct {
	Mode           entity.BridgeMode
	Transport      string // empty in direct mode
	RuntimeVersion string
	ProxyScript    string
	Elapsed        time.Duration
}

// Execute attaches the bridge, loads the page and closes the bridge once
// every accepted call has been dispatched. Failures escalated by one-way
// calls are returned as well.
func (uc *RunPageUseCase) Execute(ctx context.Context, input RunPageInput) (*RunPageOutput, error) {
	if input.Host == nil {
		return nil, fmt.Errorf("page host is required")
	}
	log := logging.FromContext(ctx)
	start := time.Now()

	c, err := bridge.Attach(ctx, input.Host, uc.registry, input.ExposedName, input.Options...)
	if err != nil {
		return nil, fmt.Errorf("attach bridge: %w", err)
	}

	out := &RunPageOutput{
		Mode:           c.Mode(),
		RuntimeVersion: c.RuntimeVersion(),
		ProxyScript:    c.ProxyScript(),
	}
	if t := c.Transport(); t != nil {
		out.Transport = t.Kind().String()
	}

	loadErr := input.Host.LoadPage(ctx, input.URL, input.Source)
	_ = c.Close()
	out.Elapsed = time.Since(start)

	if loadErr != nil {
		return out, loadErr
	}
	if err := c.Err(); err != nil && !errors.Is(err, entity.ErrBridgeClosed) {
		return out, err
	}

	log.Debug().
		Str("url", input.URL).
		Str("mode", out.Mode.String()).
		Dur("elapsed", out.Elapsed).
		Msg("page run complete")
	return out, nil
}
