package followings

import "net/http"

// Register wires the followings routes onto the mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /followings/platforms/{platform}/users/{username}", GetHandler{Svc: svc})
}
