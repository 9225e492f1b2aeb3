package contents

import "net/http"

// Register wires the contents routes onto the mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /contents/platforms/{platform}/users/{username}", GetHandler{Svc: svc})
}
