// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package services adapts AnimeRec components to suture.Service.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine and
context cancellation triggers a bounded graceful Shutdown.

CorpusService drives the recommendation engine's corpus lifecycle: an optional
warmup at startup (retried until it succeeds) and an optional periodic forced
refresh. With neither enabled it idles and the engine loads lazily.

Every service returns ctx.Err() on shutdown and implements fmt.Stringer so
supervisor logs name it.
*/
package services
