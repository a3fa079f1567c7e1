// Package requestid propagates request correlation identifiers.
//
// Middleware attaches an ID to every request: a valid client-supplied
// X-Request-ID header is reused, otherwise a fresh UUIDv4 is generated.
// The ID travels in the request context, comes back in the response
// header, and LoggerExtractor injects it into structured log records, so
// every log line of one request carries the same identifier.
//
//	mux := http.NewServeMux()
//	mux.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//		id := requestid.FromContext(r.Context())
//		w.Write([]byte("request " + id))
//	}))
//
//	http.ListenAndServe(":8080", requestid.Middleware(mux))
package requestid
