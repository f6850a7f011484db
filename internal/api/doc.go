// Package api exposes the study session over JSON/HTTP for a rendering
// layer. Handlers translate requests into session coordinator calls and map
// domain errors to status codes and safe messages.
package api
