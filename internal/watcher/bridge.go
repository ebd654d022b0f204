package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"mfek/internal/logging"
	mfekotel "mfek/internal/otel"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/metric"
)

const launchFailHint = "won't receive important events"

// Options configures a Bridge.
type Options struct {
	Logger *logging.Logger
	// Context is the consumer's lifetime. Once it is done the bridge treats
	// the consumer as gone and terminates. nil means the process lifetime.
	Context context.Context
	// MeterProvider receives the delivered-notification count. nil means the
	// global provider.
	MeterProvider metric.MeterProvider
}

// Bridge owns one background watch. The zero value is not usable; create
// one with Start.
type Bridge struct {
	root     string
	out      chan<- string
	logger   *logging.Logger
	consumer context.Context
	meter    metric.MeterProvider

	pairs pairing

	state    atomic.Int32
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	err      error
}

// Launch watches root and sends written paths on out until the watch fails
// or the consumer goes away. No handle is returned; use Start for one.
func Launch(root string, out chan<- string, opts Options) {
	Start(root, out, opts)
}

// Start is Launch with an owned handle that can stop the watch.
func Start(root string, out chan<- string, opts Options) *Bridge {
	bridge := newBridge(root, out, opts)
	bridge.logger.Debug("spawning filesystem watch", map[string]string{"path": root})
	go bridge.run()
	return bridge
}

func newBridge(root string, out chan<- string, opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	consumer := opts.Context
	if consumer == nil {
		consumer = context.Background()
	}
	return &Bridge{
		root:     root,
		out:      out,
		logger:   logger.Named("watcher"),
		consumer: consumer,
		meter:    opts.MeterProvider,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Stop ends the watch. It is safe to call more than once and does not wait;
// use Done for that.
func (b *Bridge) Stop() {
	if b == nil {
		return
	}
	b.stopOnce.Do(func() {
		close(b.stop)
	})
}

// Done is closed once the bridge reaches Terminated.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

func (b *Bridge) State() State {
	return State(b.state.Load())
}

// Err reports why the bridge terminated. It is nil while the bridge runs
// and after a Stop.
func (b *Bridge) Err() error {
	select {
	case <-b.done:
		return b.err
	default:
		return nil
	}
}

func (b *Bridge) run() {
	defer close(b.done)
	defer b.state.Store(int32(Terminated))

	fsw, err := b.setup()
	if err != nil {
		b.err = err
		return
	}
	defer func() {
		if closeErr := fsw.Close(); closeErr != nil {
			b.logger.Warn("close fsnotify failed", map[string]string{"error": closeErr.Error()})
		}
	}()

	b.state.Store(int32(Watching))
	b.logger.Debug("watching directory tree", map[string]string{"path": b.root})
	b.err = b.loop(fsw.Events, fsw.Errors, fsw)
}

func (b *Bridge) setup() (*fsnotify.Watcher, error) {
	root, err := filepath.Abs(b.root)
	if err != nil {
		return nil, b.setupFailed(err)
	}
	b.root = root
	if _, err := os.Stat(root); err != nil {
		return nil, b.setupFailed(err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, b.setupFailed(err)
	}
	if err := addTree(fsw, root, b.logger); err != nil {
		_ = fsw.Close()
		return nil, b.setupFailed(err)
	}
	return fsw, nil
}

func (b *Bridge) setupFailed(err error) error {
	classified := classifySetupError(b.root, err)
	b.logger.Error("cannot launch filesystem watch", map[string]string{
		"path":   b.root,
		"reason": classified.reason,
		"hint":   launchFailHint,
	})
	return classified
}

func (b *Bridge) loop(events <-chan fsnotify.Event, errs <-chan error, adder dirAdder) error {
	for {
		select {
		case <-b.stop:
			b.logger.Debug("filesystem watch stopped", map[string]string{"path": b.root})
			return nil
		case <-b.consumer.Done():
			b.logger.Error("notification consumer gone", map[string]string{"path": b.root})
			return ErrConsumerGone
		case event, ok := <-events:
			if !ok {
				b.logger.Error("filesystem event receive failed", map[string]string{"path": b.root})
				return ErrWatchClosed
			}
			if err := b.handle(event, adder); err != nil {
				if errors.Is(err, errStopped) {
					return nil
				}
				return err
			}
		case err, ok := <-errs:
			if !ok {
				b.logger.Error("filesystem event receive failed", map[string]string{"path": b.root})
				return ErrWatchClosed
			}
			if isFatalWatchError(err) {
				b.logger.Error("fatal watcher error", map[string]string{"error": err.Error()})
				return fmt.Errorf("%w: %w", ErrWatchFailed, err)
			}
			b.logger.Error("watcher error", map[string]string{"error": err.Error()})
		}
	}
}

// handle forwards create and write events and drops everything else.
func (b *Bridge) handle(event fsnotify.Event, adder dirAdder) error {
	forward, folded := b.pairs.admit(event)
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		b.logger.Debug("filesystem event", map[string]string{
			"path": event.Name,
			"op":   event.Op.String(),
		})
		return nil
	}
	if event.Name == "" {
		b.logger.Error("filesystem write without a path", map[string]string{"op": event.Op.String()})
		return nil
	}
	if event.Has(fsnotify.Create) && adder != nil {
		watchNewDir(adder, event.Name, b.logger)
	}
	if !forward {
		b.logger.Debug("filesystem event folded", map[string]string{
			"path":   event.Name,
			"op":     event.Op.String(),
			"reason": folded,
		})
		return nil
	}
	b.logger.Info("filesystem write event", map[string]string{
		"path": event.Name,
		"op":   event.Op.String(),
	})
	return b.send(event.Name)
}

// send blocks until the consumer takes path. A closed out channel means the
// embedding application tore down its receiver, which ends the watch.
func (b *Bridge) send(path string) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("notification consumer gone", map[string]string{
				"path":  path,
				"error": fmt.Sprint(recovered),
			})
			err = ErrConsumerGone
		}
	}()
	select {
	case b.out <- path:
		mfekotel.RecordNotification(b.consumer, b.meter)
		return nil
	case <-b.stop:
		return errStopped
	case <-b.consumer.Done():
		b.logger.Error("notification consumer gone", map[string]string{"path": path})
		return ErrConsumerGone
	}
}
