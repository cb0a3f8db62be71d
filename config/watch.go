package config

import (
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the file has to stay quiet before it is reloaded.
const settle = 100 * time.Millisecond

// Watcher reloads a definition file whenever it changes on disk.
type Watcher struct {
	path     string
	w        *fsnotify.Watcher
	log      *log.Logger
	onChange func(*File)

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	wg    sync.WaitGroup
}

// Watch calls onChange with every valid new version of the file at path.
// Invalid versions are logged and skipped. The directory is watched
// rather than the file so editors that replace the file are handled.
func Watch(path string, logger *log.Logger, onChange func(*File)) (*Watcher, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		path:     path,
		w:        fw,
		log:      logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Printf("config: watch %s: %s", w.path, err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(settle, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	f, err := Load(w.path)
	if err != nil {
		w.log.Printf("config: reload: %s", err)
		return
	}
	w.log.Printf("config: reloaded %s, %d holograms", w.path, len(f.Holograms))
	w.onChange(f)
}

func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.w.Close()
	w.wg.Wait()
	return err
}
