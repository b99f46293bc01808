// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package main is the entry point for the AnimeRec server.

AnimeRec recommends anime that are similar in content to a title the user
names. The corpus is the top-ranked titles from the Jikan (MyAnimeList) API,
cached on disk, vectorized from synopsis and genres, and ranked by cosine
similarity. Misspelled titles are resolved by fuzzy matching; when no title is
close enough the API answers with a "did you mean" suggestion.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("animerec")
	├── CorpusSupervisor ("corpus-layer")
	│   └── Corpus Service (warmup + optional periodic refresh)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API + /metrics)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with level, format and caller from configuration
 3. Corpus store: JSON cache file or BadgerDB (CORPUS_BACKEND)
 4. Catalog client: Jikan API behind a rate limiter and circuit breaker
 5. Vectorizer: TF-IDF or an HTTP embedding service (RECOMMEND_VECTORIZER)
 6. Engine: snapshot of corpus, vectors and title index
 7. Supervisor tree: corpus service and HTTP server

A corpus failure never takes the API down. Until the first snapshot is built
the engine loads lazily on the first request, and /api/v1/health reports
"degraded".

# Configuration

Common environment variables:

	CORPUS_BACKEND=file|badger       corpus cache backend (default file)
	CORPUS_PATH=anime_cache.json     cache file for the file backend
	CORPUS_TTL=24h                   cache freshness window
	CORPUS_TOP_N=500                 titles fetched from Jikan
	RECOMMEND_VECTORIZER=tfidf       tfidf or embedding
	EMBEDDING_URL=http://host/embed  required for the embedding vectorizer
	HTTP_PORT=8501                   listen port
	LOG_LEVEL=info                   trace, debug, info, warn, error

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the corpus service abandons any refresh in progress, and the Badger
store (if used) is closed.

# Example Usage

	export CORPUS_PATH=/data/anime_cache.json
	./animerec

	curl 'http://localhost:8501/api/v1/recommend?q=naruto&k=5'
*/
package main
