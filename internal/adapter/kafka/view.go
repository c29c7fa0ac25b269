package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
)

var _ port.CartActivityView = (*CartActivityView)(nil)

// A CartActivityView serves per-product add counts
// from the activity group table.
type CartActivityView struct {
	opPrefix string
	gv       *goka.View
}

func NewCartActivityView(
	seedBrokers []string, groupTable string,
) (*CartActivityView, error) {
	const op = "NewCartActivityView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(groupTable)),
		addCountCodec{},
		withNonlogViewOpt(),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &CartActivityView{
		opPrefix: "CartActivityView",
		gv:       gv,
	}, nil
}

func (v *CartActivityView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "Run"
	log := slog.With("op", makeOp(v.opPrefix, op))

	defer wg.Done()
	go v.runView(ctx, stopFn)
	log.Info("running")
}

func (v *CartActivityView) runView(
	ctx context.Context, stopFn context.CancelFunc,
) {
	const op = "runView"
	log := slog.With("op", makeOp(v.opPrefix, op))

	defer stopFn()

	if err := v.gv.Run(ctx); err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (v *CartActivityView) Additions(productName string) (int64, error) {
	const op = "Additions"

	value, err := v.gv.Get(productName)
	if err != nil {
		return 0, opErr(err, v.opPrefix, op)
	}

	if value == nil {
		return 0, opErr(port.ErrActivityNotFound, v.opPrefix, op)
	}

	n, ok := value.(addCount)
	if !ok {
		err := fmt.Errorf("%w: %T", ErrInvalidValueType, value)
		return 0, opErr(err, v.opPrefix, op)
	}
	return int64(n), nil
}
