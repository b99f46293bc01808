// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package api provides the HTTP REST API for AnimeRec.

Endpoints (all JSON, wrapped in models.APIResponse):

	GET  /api/v1/recommend?q=&k=           resolve a title and rank similar titles
	GET  /api/v1/suggest?q=&limit=         "did you mean" candidates
	GET  /api/v1/complete?prefix=&limit=   title autocomplete
	GET  /api/v1/corpus/status             corpus age, size and vectorizer
	POST /api/v1/corpus/refresh            force a catalog refetch and rebuild
	GET  /api/v1/health                    liveness plus corpus readiness
	GET  /metrics                          Prometheus metrics

Middleware stack (outermost first): request ID, real IP, panic recovery,
CORS (go-chi/cors), security headers, Prometheus request metrics and
per-IP rate limiting (go-chi/httprate).

Error codes:

	VALIDATION_ERROR    400  bad or missing parameters
	NO_CONFIDENT_MATCH  404  query did not resolve; details carry the best guess
	EMPTY_CORPUS        503  no titles available
	FETCH_FAILED        503  catalog unreachable and no cached corpus
	INTERNAL_ERROR      500  anything else

Usage:

	handler := api.NewHandler(engine, cfg)
	mw := api.NewChiMiddlewareFromConfig(&cfg.Security)
	router := api.NewRouter(handler, mw)
	srv := &http.Server{Addr: addr, Handler: router.SetupChi()}
*/
package api
