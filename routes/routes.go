package routes

import (
	"net/http"

	"github.com/testgcahm/gis/auth"
	"github.com/testgcahm/gis/events"
	"github.com/testgcahm/gis/live"
	"github.com/testgcahm/gis/middleware"
	"github.com/testgcahm/gis/publish"
	"github.com/testgcahm/gis/ratelim"
	"github.com/testgcahm/gis/sitemap"
	"github.com/testgcahm/gis/upload"

	"github.com/julienschmidt/httprouter"
)

// AddEventRoutes wires the public reads and the gated mutations. GET is
// always public; POST/PUT/DELETE go through the gate.
func AddEventRoutes(router *httprouter.Router, h *events.Handler, gate *middleware.Gate) {
	router.GET("/api/events", h.GetEvents)
	router.POST("/api/events", gate.Authenticate(h.CreateEvent))
	router.PUT("/api/events", gate.Authenticate(h.UpdateEvent))
	router.DELETE("/api/events", gate.Authenticate(h.DeleteEvent))

	router.GET("/api/events/:slug", h.GetEventBySlug)
	router.GET("/api/events/:slug/qr", h.EventQR)
	router.GET("/api/events/:slug/programme", h.EventProgramme)
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
}

func AddUploadRoutes(router *httprouter.Router, h *upload.Handler, gate *middleware.Gate, rl *ratelim.RateLimiter) {
	router.POST("/api/image-upload", rl.Limit(gate.Authenticate(h.ImageUpload)))
	router.GET("/api/image-library", gate.Authenticate(h.ImageLibrary))
}

func AddPublishRoutes(router *httprouter.Router, h *publish.Handler, gate *middleware.Gate) {
	router.POST("/api/publish", gate.Authenticate(h.Publish))
	// The admin panel fires publish through a plain link, so GET works too.
	router.GET("/api/publish", gate.Authenticate(h.Publish))
}

func AddSitemapRoutes(router *httprouter.Router, h *sitemap.Handler) {
	router.GET("/sitemap.xml", h.Serve)
	router.GET("/api/sitemap.xml", h.Serve)
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub, gate *middleware.Gate) {
	router.GET("/api/admin/live", hub.ServeWS(gate))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/library/*filepath", http.Dir("static/library"))
}
