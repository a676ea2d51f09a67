// Package http provides an HTTP client configured for GDC API requests.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Catalog queries with JSON decoding
//   - Streaming file downloads with progress tracking
//   - Per-request timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	// Query the catalog
//	var resp filesResponse
//	err := client.GetJSON(ctx, endpoint+"/files", params, &resp)
//
//	// Download file with progress callback
//	written, err := client.DownloadFile(ctx, dataURL, "/slides/file.svs", func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
//
// # Error Classification
//
// Non-success statuses surface as *StatusError. IsTransient separates
// network-class failures (retryable) from everything else:
//
//	if http.IsTransient(err) {
//	    // retry with backoff
//	}
package http
