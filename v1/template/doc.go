// Package template is the high-level entry point of the module: it owns
// connection acquisition, runs values through a serializer, and exposes
// the command surface as typed views.
//
// A Template wraps a driver.Factory, so the same application code runs
// against either backend. Callbacks receive a live driver.Conn; the
// template acquires it, hands it to the callback, and releases it:
//
//	tpl := template.New(factory, template.WithSerializer(serializer.NewJSON()))
//
//	err := tpl.Execute(ctx, func(conn driver.Conn) error {
//		_, err := conn.Incr(ctx, "visits")
//		return err
//	})
//
// # Batching
//
// Pipelined and Transactional wrap the connection's batching modes. The
// callback issues commands that return zero values; the converted results
// come back from the wrapping call in issue order:
//
//	results, err := tpl.Pipelined(ctx, func(conn driver.Conn) error {
//		conn.Incr(ctx, "visits")
//		conn.Get(ctx, "greeting")
//		return nil
//	})
//
// # Typed views
//
// The views bind the serializer to one data type each, mirroring the
// command groups: Strings, Hashes, Lists, Sets, SortedSets, and Keys.
//
//	var sess Session
//	err := tpl.Strings().Get(ctx, "session:42", &sess)
//
// # Optimistic transactions
//
// Watch runs the callback under WATCH with automatic retries when the
// transaction aborts. It requires a backend whose factory implements
// driver.WatchSupport and reports driver.ErrNotSupported otherwise.
package template
