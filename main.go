package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/gosso/internal/app"
)

func main() {
	application := app.New()

	// Block until a termination signal arrives, then allow ten seconds
	// for in-flight work to drain.
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
