package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/build"
	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/infrastructure/config"
	"github.com/bnema/jsbridge/internal/logging"
)

// BridgeOptions translates the bridge section of cfg into Attach options.
func BridgeOptions(cfg config.BridgeConfig, metrics *bridge.Metrics) ([]bridge.Option, error) {
	mode, forced, err := entity.ParseBridgeMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	policy, err := bridge.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return nil, err
	}

	opts := []bridge.Option{
		bridge.WithBrokenRange(entity.VersionRange{Min: cfg.BrokenMin, Max: cfg.BrokenMax}),
		bridge.WithFailurePolicy(policy),
		bridge.WithInitFunction(cfg.InitFunction),
	}
	if forced {
		opts = append(opts, bridge.WithMode(mode))
	}
	if cfg.SignaturePrefix != "" {
		opts = append(opts, bridge.WithSignaturePrefix(cfg.SignaturePrefix))
	}
	if cfg.ReservedURL != "" {
		opts = append(opts, bridge.WithReservedURL(cfg.ReservedURL))
	}
	if metrics != nil {
		opts = append(opts, bridge.WithMetrics(metrics))
	}
	return opts, nil
}

// Demo is the native surface exposed by `jsbridge run`. Events logged by the
// page are written to out, one per line.
type Demo struct {
	info build.Info
	now  func() time.Time

	mu  sync.Mutex
	out io.Writer
}

// NewDemo creates the demo surface.
func NewDemo(info build.Info, out io.Writer) *Demo {
	return &Demo{info: info, out: out, now: time.Now}
}

// Registry returns a fresh registry holding the demo methods.
func (d *Demo) Registry(ctx context.Context) *bridge.Registry {
	log := logging.FromContext(ctx)

	return bridge.NewRegistry().
		MustRegister("greet", bridge.Fn1(func(name string) (string, error) {
			return "Hello, " + name, nil
		})).
		MustRegister("logEvent", bridge.Proc1(func(event string) error {
			log.Info().Str("event", event).Msg("page event")
			d.mu.Lock()
			defer d.mu.Unlock()
			_, err := fmt.Fprintln(d.out, event)
			return err
		})).
		MustRegister("echo", bridge.FnN(func(args ...string) (string, error) {
			return strings.Join(args, " "), nil
		})).
		MustRegister("now", bridge.Fn0(func() (string, error) {
			return d.now().UTC().Format(time.RFC3339), nil
		})).
		MustRegister("version", bridge.Fn0(func() (string, error) {
			return d.info.Version, nil
		}))
}
