package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
	"github.com/zzzuuusurp/faux-cart-copy/pkg/schema"
)

var _ port.CartActivityProcessor = (*CartActivityProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A cartEventCodec used for serde [schema.CartEventV1]
type cartEventCodec struct {
	serde Serde
}

func newCartEventCodec(s Serde) cartEventCodec {
	return cartEventCodec{s}
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// An addCount is the number of times a product was added to the cart.
type addCount int64

// An addCountCodec used for serde [addCount]
type addCountCodec struct{}

func (addCountCodec) Encode(v any) ([]byte, error) {
	const op = "addCountCodec.Encode"
	n, ok := v.(addCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), int64(n), 10), nil
}

func (addCountCodec) Decode(data []byte) (any, error) {
	const op = "addCountCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return addCount(n), nil
}

// A CartActivityProcessor counts add events per product name
// from the activity stream into a group table.
type CartActivityProcessor struct {
	opPrefix string
	proc     processor
}

func NewCartActivityProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	eventSerde Serde,
) (*CartActivityProcessor, error) {
	const op = "NewCartActivityProc"

	var p CartActivityProcessor
	p.opPrefix = "CartActivityProcessor"

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newCartEventCodec(eventSerde),
			p.processFn,
		),
		goka.Persist(addCountCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *CartActivityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *CartActivityProcessor) Close() {
	p.proc.close()
}

func (p *CartActivityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	event, _ := msg.(schema.CartEventV1)
	if event.Op != string(domain.CartOpAdd) {
		return
	}

	n, _ := ctx.Value().(addCount)
	n++
	ctx.SetValue(n)
	log.Info("counted addition", "productName", event.ProductName, "n", n)
}
