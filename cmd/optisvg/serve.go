package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/optisvg/optisvg"
	"github.com/optisvg/optisvg/config"
	"github.com/spf13/cobra"
)

// wsUpgrader performs no extra handshake checks and uses the default
// buffer sizes.
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveFlags holds the serve subcommand's flag values.
type serveFlags struct {
	addr       string
	configPath string
	debounce   time.Duration
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Watch SVG files and push freshly optimised output to connected browser tabs.",
		Long: `serve starts an HTTP+WebSocket server over the given files (or the
current directory): loading /path/to/file.svg serves that file already
optimised, and a live WebSocket connection on the same path receives a
fresh copy every time the underlying file changes on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f, args)
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", ":7700", "address to listen on")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a JSON or TOML preset config file")
	cmd.Flags().DurationVar(&f.debounce, "debounce", 150*time.Millisecond, "quiet period after a file change before re-optimising")
	return cmd
}

func runServe(cmd *cobra.Command, f *serveFlags, args []string) error {
	preset, err := loadPreset(f.configPath)
	if err != nil {
		return &argError{err}
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	h := newDevServer(preset, f.debounce)
	if err := h.watch(args); err != nil {
		return err
	}
	defer h.watcher.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.serveHTTP)
	cmd.Printf("optisvg serve listening on %s\n", f.addr)
	return http.ListenAndServe(f.addr, mux)
}

// devServer watches a set of files/directories and serves optimised SVG
// over HTTP, broadcasting a fresh copy to every open WebSocket connection
// on a given path when the source file changes. A mutex guards the map of
// live connections, which is read and broadcast to from the watcher
// goroutine and mutated from each connection's own handler goroutine.
type devServer struct {
	preset   config.Preset
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *slog.Logger

	mu    sync.Mutex
	conns map[string][]*websocket.Conn // path -> live sockets
}

func newDevServer(preset config.Preset, debounce time.Duration) *devServer {
	return &devServer{
		preset:   preset,
		debounce: debounce,
		log:      slog.Default(),
		conns:    make(map[string][]*websocket.Conn),
	}
}

func (h *devServer) watch(roots []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	h.watcher = w
	for _, root := range roots {
		if err := w.Add(root); err != nil {
			return err
		}
	}
	go h.watchLoop()
	return nil
}

// watchLoop debounces bursts of fsnotify events for the same file into a
// single broadcast, so a rapid string of editor saves triggers one
// re-optimise instead of one per write event.
func (h *devServer) watchLoop() {
	pending := make(map[string]*time.Timer)
	var mu sync.Mutex

	for {
		select {
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".svg") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path := ev.Name
			mu.Lock()
			if t, ok := pending[path]; ok {
				t.Stop()
			}
			pending[path] = time.AfterFunc(h.debounce, func() {
				h.broadcast(path)
				mu.Lock()
				delete(pending, path)
				mu.Unlock()
			})
			mu.Unlock()
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Error("optisvg serve: watcher error", "error", err)
		}
	}
}

func (h *devServer) broadcast(path string) {
	out, err := h.optimiseFile(path)
	if err != nil {
		h.log.Warn("optisvg serve: re-optimise failed", "path", path, "error", err)
		return
	}
	h.mu.Lock()
	conns := append([]*websocket.Conn(nil), h.conns[path]...)
	h.mu.Unlock()
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte(out)); err != nil {
			h.log.Debug("optisvg serve: dropping connection", "path", path, "error", err)
			h.removeConn(path, c)
			c.Close()
		}
	}
}

func (h *devServer) optimiseFile(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	res, err := optisvg.Optimise(string(src), optisvg.WithPreset(h.preset), optisvg.WithOrigin(path))
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

func (h *devServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	if websocket.IsWebSocketUpgrade(r) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Error("optisvg serve: upgrade failed", "error", err)
			return
		}
		h.addConn(path, conn)
		go h.readUntilClose(path, conn)
		return
	}

	out, err := h.optimiseFile(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(out))
}

// readUntilClose drains (and discards) client frames so gorilla's read
// pump keeps running, removing the connection once the client goes away.
func (h *devServer) readUntilClose(path string, conn *websocket.Conn) {
	defer func() {
		h.removeConn(path, conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *devServer) addConn(path string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[path] = append(h.conns[path], conn)
}

func (h *devServer) removeConn(path string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.conns[path]
	for i, c := range list {
		if c == conn {
			h.conns[path] = append(list[:i], list[i+1:]...)
			break
		}
	}
}
