package gateway

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var shellTmpl = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1, viewport-fit=cover">
<meta name="theme-color" content="#16a34a">
<link rel="manifest" href="/manifest.webmanifest">
<title>{{.Title}}</title>
</head>
<body>
<div id="app" data-page="{{.Title}}"></div>
<script>
if ("serviceWorker" in navigator) {
  navigator.serviceWorker.register("/sw.js");
}
</script>
</body>
</html>
`))

// page renders the application shell for a route. The shell is identical
// for every page; the client takes over from data-page.
func (s *Server) page(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := shellTmpl.Execute(c.Writer, gin.H{"Title": title}); err != nil {
			s.log.Error(c.Request.Context(), "render shell", "error", err)
		}
	}
}

func (s *Server) manifest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":             "NutriScan",
		"short_name":       "NutriScan",
		"description":      "Scan meals and barcodes, track your nutrition",
		"start_url":        "/dashboard",
		"scope":            "/",
		"display":          "standalone",
		"orientation":      "portrait",
		"background_color": "#ffffff",
		"theme_color":      "#16a34a",
		"icons": []gin.H{
			{"src": "/icons/icon-192.png", "sizes": "192x192", "type": "image/png"},
			{"src": "/icons/icon-512.png", "sizes": "512x512", "type": "image/png"},
		},
	})
}

const serviceWorkerJS = `const CACHE = "nutriscan-shell-v1";
const SHELL = ["/", "/dashboard", "/manifest.webmanifest"];

self.addEventListener("install", (event) => {
  event.waitUntil(caches.open(CACHE).then((c) => c.addAll(SHELL)));
});

self.addEventListener("activate", (event) => {
  event.waitUntil(
    caches.keys().then((keys) =>
      Promise.all(keys.filter((k) => k !== CACHE).map((k) => caches.delete(k)))
    )
  );
});

self.addEventListener("fetch", (event) => {
  const url = new URL(event.request.url);
  if (event.request.method !== "GET" || url.pathname.startsWith("/api/")) {
    return;
  }
  event.respondWith(
    fetch(event.request).catch(() => caches.match(event.request))
  );
});
`

func (s *Server) serviceWorker(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(serviceWorkerJS))
}
