package server

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

//go:embed web
var webFiles embed.FS

// defaultDocuments are tried in order when a directory is requested.
var defaultDocuments = []string{"default.htm", "default.html", "index.htm", "index.html"}

// staticRoot picks the configured static directory, falling back to the
// embedded viewer when it does not exist.
func staticRoot(dir string) (fs.FS, bool, error) {
	if strings.TrimSpace(dir) != "" {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return os.DirFS(dir), false, nil
		case err == nil:
			return nil, false, errors.New("static_dir is not a directory: " + dir)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, false, err
		}
	}
	sub, err := fs.Sub(webFiles, "web")
	if err != nil {
		return nil, false, err
	}
	return sub, true, nil
}

// staticHandler serves fsys with default documents for directory requests.
func staticHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServerFS(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || !info.IsDir() || !strings.HasSuffix(r.URL.Path, "/") {
			fileServer.ServeHTTP(w, r)
			return
		}
		for _, doc := range defaultDocuments {
			candidate := path.Join(name, doc)
			if _, err := fs.Stat(fsys, candidate); err != nil {
				continue
			}
			if doc == "index.html" {
				break
			}
			http.ServeFileFS(w, r, fsys, candidate)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
