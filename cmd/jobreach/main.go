package main

import (
	"context"
	"jobreach/cmd/jobreach/commands"
	"jobreach/lib/telemetry"
	"jobreach/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "jobreach")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
