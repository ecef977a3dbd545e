package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

// ProbeBridgeUseCase predicts how a bridge would attach to a runtime.
type ProbeBridgeUseCase struct{}

// NewProbeBridgeUseCase creates a new ProbeBridgeUseCase.
func NewProbeBridgeUseCase() *ProbeBridgeUseCase {
	return &ProbeBridgeUseCase{}
}

// ProbeBridgeInput contains the runtime version and the bridge settings.
type ProbeBridgeInput struct {
	RuntimeVersion  string
	Mode            string // auto, direct or shimmed
	BrokenRange     entity.VersionRange
	SignaturePrefix string
}

// ProbeBridgeOutput describes the decision.
type ProbeBridgeOutput struct {
	Mode entity.BridgeMode
	// Forced is true when the mode was configured rather than probed.
	Forced bool
	// InBrokenRange reports whether the version needs the shim.
	InBrokenRange bool
	// Transport is only meaningful in shimmed mode.
	Transport entity.TransportKind
}

// Execute applies the same decision Attach makes.
func (uc *ProbeBridgeUseCase) Execute(_ context.Context, input ProbeBridgeInput) (*ProbeBridgeOutput, error) {
	if err := input.BrokenRange.Validate(); err != nil {
		return nil, err
	}
	forcedMode, forced, err := entity.ParseBridgeMode(input.Mode)
	if err != nil {
		return nil, err
	}

	out := &ProbeBridgeOutput{
		Mode:          bridge.ProbeMode(input.RuntimeVersion, input.BrokenRange),
		Forced:        forced,
		InBrokenRange: input.BrokenRange.Contains(input.RuntimeVersion),
		Transport:     entity.TransportNavigation,
	}
	if forced {
		out.Mode = forcedMode
	}
	if input.SignaturePrefix != "" {
		out.Transport = entity.TransportPrompt
	}
	return out, nil
}

// String renders the decision on one line.
func (o *ProbeBridgeOutput) String() string {
	if o.Mode == entity.ModeDirect {
		return o.Mode.String()
	}
	return fmt.Sprintf("%s (%s transport)", o.Mode, o.Transport)
}
