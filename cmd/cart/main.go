package main

import (
	"context"
	"time"

	"github.com/zzzuuusurp/faux-cart-copy/config"
	"github.com/zzzuuusurp/faux-cart-copy/internal/app"
	"github.com/zzzuuusurp/faux-cart-copy/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	cartService := app.New(sigCtx, cfg)

	cartService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	cartService.Close(ctx)
}
