package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/logging"
)

// FailureHandler observes failed dispatches. It is the only error channel
// for one-way calls, which have no reply path.
type FailureHandler func(ctx context.Context, out Outcome)

type exchangeRequest struct {
	ctx     context.Context
	payload string
	// reply is a single-slot rendezvous; nil for one-way posts.
	reply chan exchangeReply
}

// exchangeReply carries the outcome and the error left after the failure
// policy was applied.
type exchangeReply struct {
	out Outcome
	err error
}

// Exchange serializes invocations through one worker. The submission
// channel is unbuffered, so a message is accepted only once the previous one
// has been fully dispatched. Synchronous callers then block on a one-shot
// reply channel that the worker fills after invocation.
type Exchange struct {
	dispatcher *Dispatcher
	policy     FailurePolicy
	onFailure  FailureHandler
	log        zerolog.Logger

	requests chan exchangeRequest
	done     chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu    sync.Mutex
	fatal error
}

// NewExchange creates an exchange. Call Start before submitting.
func NewExchange(ctx context.Context, dispatcher *Dispatcher, policy FailurePolicy, onFailure FailureHandler) *Exchange {
	return &Exchange{
		dispatcher: dispatcher,
		policy:     policy,
		onFailure:  onFailure,
		log:        logging.FromContext(ctx).With().Str("component", "exchange").Logger(),
		requests:   make(chan exchangeRequest),
		done:       make(chan struct{}),
	}
}

// Start launches the worker. It stops when ctx is done or Close is called.
func (x *Exchange) Start(ctx context.Context) {
	x.startOnce.Do(func() {
		x.wg.Add(1)
		go x.run(ctx)
	})
}

func (x *Exchange) run(ctx context.Context) {
	defer x.wg.Done()
	for {
		select {
		case <-ctx.Done():
			x.shutdown()
			return
		case <-x.done:
			return
		case req := <-x.requests:
			x.handle(req)
		}
	}
}

// handle dispatches one accepted request. A request that was waiting on the
// submission channel while an earlier call escalated is refused unrun.
func (x *Exchange) handle(req exchangeRequest) {
	if err := x.Err(); err != nil {
		if req.reply != nil {
			req.reply <- exchangeReply{err: err}
			return
		}
		x.log.Warn().Err(err).Msg("dropping one-way call after bridge halted")
		return
	}

	out := x.dispatcher.Dispatch(req.ctx, req.payload)
	var err error
	if !out.OK() {
		err = x.settleFailure(req.ctx, out)
	}
	if req.reply != nil {
		req.reply <- exchangeReply{out: out, err: err}
	}
}

// Call dispatches payload and waits for its outcome. There is no timeout:
// once accepted, the call cannot be abandoned by the caller.
func (x *Exchange) Call(ctx context.Context, payload string) (entity.ResultMessage, error) {
	reply := make(chan exchangeReply, 1)
	if err := x.submit(ctx, exchangeRequest{ctx: ctx, payload: payload, reply: reply}); err != nil {
		return entity.NullResult(), err
	}

	r := <-reply
	if r.err != nil || !r.out.OK() {
		return entity.NullResult(), r.err
	}
	return r.out.Result, nil
}

// Post hands payload to the worker and returns without waiting for it to run.
// Failures are reported to the FailureHandler.
func (x *Exchange) Post(ctx context.Context, payload string) error {
	return x.submit(ctx, exchangeRequest{ctx: ctx, payload: payload})
}

func (x *Exchange) submit(ctx context.Context, req exchangeRequest) error {
	if err := x.Err(); err != nil {
		return err
	}
	select {
	case x.requests <- req:
		return nil
	case <-x.done:
		return entity.ErrBridgeClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reject applies the failure policy to a payload that failed before dispatch.
func (x *Exchange) reject(ctx context.Context, err error) error {
	return x.settleFailure(ctx, Outcome{Kind: entity.OutcomeOf(err), Err: err})
}

// settleFailure notifies the failure handler, then escalates or swallows the
// failure according to the policy. Escalated failures halt the exchange.
func (x *Exchange) settleFailure(ctx context.Context, out Outcome) error {
	if x.onFailure != nil {
		x.onFailure(ctx, out)
	}

	if x.policy == PolicyIgnore {
		x.log.Warn().
			Err(out.Err).
			Str("method", out.Message.Name).
			Str("outcome", out.Kind.String()).
			Msg("ignoring failed bridge call")
		return nil
	}

	x.mu.Lock()
	if x.fatal == nil {
		x.fatal = out.Err
	}
	x.mu.Unlock()
	return out.Err
}

// Err returns the first escalated failure, or ErrBridgeClosed after Close.
func (x *Exchange) Err() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.fatal != nil {
		return fmt.Errorf("bridge halted: %w", x.fatal)
	}
	select {
	case <-x.done:
		return entity.ErrBridgeClosed
	default:
		return nil
	}
}

func (x *Exchange) shutdown() {
	x.closeOnce.Do(func() { close(x.done) })
}

// Close stops the worker and waits for the in-flight dispatch to finish.
func (x *Exchange) Close() error {
	x.shutdown()
	x.wg.Wait()
	return nil
}
