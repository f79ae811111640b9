package handler

import (
	"io/fs"
	"net/http"
	"strings"
)

// NewStaticHandler serves the embedded site as the fallback route: "/" maps
// to index.html, existing files are served as-is, and anything else gets the
// JSON 404 envelope instead of the file server's plain-text one.
func NewStaticHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" {
			name = "index.html"
		}

		if _, err := fs.Stat(fsys, name); err != nil {
			RespondAppError(w, ErrRouteNotFound)
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}
