package ingest

import (
	"github.com/rs/zerolog/log"

	"smartbook/internal/engine"
)

// Dispatch feeds a timestamp-ordered event sequence into eng, one event
// at a time, in order — the engine itself is single-threaded and makes
// no concurrency guarantees of its own. A line that fails to parse is
// logged and skipped; dispatch continues with the next event.
func Dispatch(events []Event, eng *engine.Engine) {
	for _, ev := range events {
		switch ev.Kind {
		case KindL2Snapshot:
			snap, err := ParseL2Snapshot(ev.Line)
			if err != nil {
				log.Warn().Err(err).Str("source", ev.Source).Msg("skipping unparseable L2 snapshot")
				continue
			}
			eng.ProcessL2Snapshot(snap.Bids, snap.Asks, ev.Timestamp)

		case KindL3Update:
			upd, err := ParseL3Update(ev.Line)
			if err != nil {
				log.Warn().Err(err).Str("source", ev.Source).Msg("skipping unparseable L3 update")
				continue
			}
			eng.ProcessL3Update(upd.Action, upd.Order, upd.Side, upd.Price, upd.Size, ev.Timestamp)

		case KindTrade:
			trade, err := ParseTrade(ev.Line)
			if err != nil {
				log.Warn().Err(err).Str("source", ev.Source).Msg("skipping unparseable trade print")
				continue
			}
			eng.ProcessTrade(trade.Price, trade.Quantity, ev.Timestamp)
		}
	}
}
