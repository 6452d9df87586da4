package engine

import (
	"context"
	"encoding/json"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

const (
	DDOG_WRITE_SETTLED = "gridfeed.engine.write_settled"
	DDOG_REFRESH_CYCLE = "gridfeed.engine.refresh_cycle"
	DDOG_TAB_ERRORS    = "gridfeed.engine.tab_errors"
	DDOG_STATE_CHANGE  = "gridfeed.engine.state_change"
)

type ReporterConfig struct {
	Name string
}

// Reporter listens on the bus and aggregates what the other modules
// publish into Datadog counters. A nil statsd client turns it into a
// no-op consumer, which is what tests and agent-less dev runs want.
type Reporter struct {
	Config ReporterConfig

	Statsd *statsd.Client

	EventBus *gochannel.GoChannel
}

func NewReporter(config ReporterConfig, statsd *statsd.Client, e *gochannel.GoChannel) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsd,
		EventBus: e,
	}
}

func (r *Reporter) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writes, err := r.EventBus.Subscribe(ctx, TOPIC_WRITE_SETTLED)
	if err != nil {
		return err
	}
	refreshes, err := r.EventBus.Subscribe(ctx, TOPIC_REFRESH_DONE)
	if err != nil {
		return err
	}
	states, err := r.EventBus.Subscribe(ctx, TOPIC_STATUS_CHANGED)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-writes:
			if !ok {
				return nil
			}
			msg.Ack()
			r.reportWrite(msg.Payload)
		case msg, ok := <-refreshes:
			if !ok {
				return nil
			}
			msg.Ack()
			r.reportRefresh(msg.Payload)
		case msg, ok := <-states:
			if !ok {
				return nil
			}
			msg.Ack()
			r.incr(DDOG_STATE_CHANGE, []string{"state:" + string(msg.Payload)})
		}
	}
}

func (r *Reporter) reportWrite(payload []byte) {
	outcome := writeOutcome{}
	if err := json.Unmarshal(payload, &outcome); err != nil {
		Logger.Log.Infoln("cannot report write outcome")
		return
	}
	r.incr(DDOG_WRITE_SETTLED, []string{"action:" + outcome.Action, "outcome:" + outcome.Outcome})
}

func (r *Reporter) reportRefresh(payload []byte) {
	outcome := refreshOutcome{}
	if err := json.Unmarshal(payload, &outcome); err != nil {
		Logger.Log.Infoln("cannot report refresh outcome")
		return
	}
	tags := []string{"scope:" + outcome.Scope, "outcome:" + outcome.Outcome}
	r.incr(DDOG_REFRESH_CYCLE, tags)
	if outcome.TabErrors > 0 {
		r.count(DDOG_TAB_ERRORS, int64(outcome.TabErrors), tags)
	}
}

func (r *Reporter) incr(name string, tags []string) {
	if r.Statsd == nil {
		return
	}
	if err := r.Statsd.Incr(name, tags, 1); err != nil {
		Logger.Log.Infoln("cannot report ", name)
	}
}

func (r *Reporter) count(name string, value int64, tags []string) {
	if r.Statsd == nil {
		return
	}
	if err := r.Statsd.Count(name, value, tags, 1); err != nil {
		Logger.Log.Infoln("cannot report ", name)
	}
}

func (r *Reporter) Name() string {
	return r.Config.Name
}

func (r *Reporter) Shutdown() {
	Logger.Log.Infoln("module ", r.Config.Name, " gracefully shutdown")
}
