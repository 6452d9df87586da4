package utils

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/gridfeed/gridfeed/utils/flag"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// StartTracer starts the Datadog tracer.
func StartTracer() {
	env := "development"
	if !flag.IsDevelopment {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(flag.ServiceName),
		tracer.WithEnv(env),
	)

	Logger.Log.WithFields(
		logrus.Fields{"service": flag.ServiceName, "is_development": flag.IsDevelopment},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
