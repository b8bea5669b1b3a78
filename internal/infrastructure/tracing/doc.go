/*
Package tracing tags every HTTP request with a trace and span ID.

IDs are ULIDs with a type prefix (trc_, spn_) so they sort by time and read
well in logs. A caller may supply X-Trace-ID to stitch its own requests
together; the span ID of the caller becomes the parent.

	tracer := tracing.New("browser", logger)
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "load")
	defer tracer.Finish(span)

Completed spans are written to the logger at debug level, errors at warn.
*/
package tracing
