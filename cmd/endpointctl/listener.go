package main

import (
	"fmt"
	"log/slog"

	"github.com/arcuswire/endpoint"
)

// cliListener logs lifecycle and error notifications and prints a summary
// line for every arrival, exactly the shape of notifications a real
// embedding application would act on.
type cliListener struct {
	ep *endpoint.Endpoint
}

func (l *cliListener) StateChanged(s endpoint.State) {
	slog.Info("state changed", "state", s.String())
}

func (l *cliListener) MessageReceived() {
	msg, ok := l.ep.TakeReceived()
	if !ok {
		return
	}
	tm, ok := msg.(*textMessage)
	if !ok {
		return
	}
	fmt.Printf("< %s\n", tm.text)
}

func (l *cliListener) Error(err endpoint.Error) {
	slog.Warn("endpoint error", "kind", err.Kind.String(), "description", err.Description, "fatal", err.Fatal)
}
