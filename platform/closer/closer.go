package closer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/you-humble/stockledger/platform/logger"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type namedFunc struct {
	name string
	fn   func(context.Context) error
}

// Closer runs registered shutdown functions in reverse registration order.
type Closer struct {
	mu     sync.Mutex
	once   sync.Once
	funcs  []namedFunc
	logger Logger
	err    error
}

var globalCloser = New(&logger.NoopLogger{})

func New(l Logger) *Closer {
	return &Closer{logger: l}
}

func AddNamed(name string, f func(context.Context) error) { globalCloser.AddNamed(name, f) }
func Add(f ...func(context.Context) error)               { globalCloser.Add(f...) }
func CloseAll(ctx context.Context) error                 { return globalCloser.CloseAll(ctx) }
func SetLogger(l Logger)                                 { globalCloser.SetLogger(l) }

func (c *Closer) SetLogger(l Logger) {
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

func (c *Closer) Add(f ...func(context.Context) error) {
	for _, fn := range f {
		c.AddNamed("func", fn)
	}
}

func (c *Closer) AddNamed(name string, f func(context.Context) error) {
	c.mu.Lock()
	c.funcs = append(c.funcs, namedFunc{name: name, fn: f})
	c.mu.Unlock()
}

// CloseAll is idempotent: the second call returns the result of the first.
func (c *Closer) CloseAll(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.funcs = nil
		log := c.logger
		c.mu.Unlock()

		var errs []error
		for i := len(funcs) - 1; i >= 0; i-- {
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				break
			}

			f := funcs[i]
			if err := f.fn(ctx); err != nil {
				log.Error(ctx, "failed to close", zap.String("name", f.name), zap.Error(err))
				errs = append(errs, err)
				continue
			}
			log.Info(ctx, "closed", zap.String("name", f.name))
		}

		c.err = errors.Join(errs...)
	})

	return c.err
}
