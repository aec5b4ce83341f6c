/*
Package handler provides HTTP handler functions for room listing and status checks.
*/
package handler

import (
	"net/http"

	"vaporchat/internal/pkg/resp"
)

// HandleListRooms returns the live room-list snapshot. The snapshot is computed
// inside the gateway event loop, so each call reflects wall-clock time at the
// moment of the request.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"rooms": deps.Gateway.Summaries(),
		})
	}
}
