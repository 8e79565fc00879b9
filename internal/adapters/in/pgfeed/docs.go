// Package pgfeed implements ports.ChangeFeed on PostgreSQL LISTEN/NOTIFY.
//
// One lib/pq Listener per process listens on a single channel; the
// database triggers installed by postgres.Migrate publish a JSON payload for
// every row change of the watched tables. The Feed decodes each payload and
// routes it to the subscriptions registered for its tenant and table.
//
// Every subscription owns a mailbox drained by its own goroutine, so a slow
// handler of one tenant never holds back the others and the events of one
// subscription are handled strictly in arrival order.
//
// Usage:
//
//	listener := pgfeed.NewListener(dsn, logger)
//	feed := pgfeed.New(listener, "table_changes", logger, pgfeed.WithReconnectHandler(func() {
//	    _ = hub.ResyncAll(context.Background())
//	}))
//	if err := feed.Start(ctx); err != nil {
//	    return err
//	}
//	defer feed.Close()
package pgfeed
