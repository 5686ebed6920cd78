package game

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const profileReloadDebounce = 100 * time.Millisecond

// ProfileReload is the outcome of re-reading a watched profiles file.
type ProfileReload struct {
	Profiles map[string]Profile
	Err      error
}

// ProfileWatcher re-reads a profiles file whenever it changes on disk.
type ProfileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	Reloads chan ProfileReload
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchProfiles watches the directory holding path. Editors often replace
// files instead of writing them, so the file itself is not watched.
func WatchProfiles(path string) (*ProfileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	pw := &ProfileWatcher{
		path:    abs,
		watcher: w,
		Reloads: make(chan ProfileReload, 4),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go pw.run()
	return pw, nil
}

// Close stops watching. Reloads is closed once the loop exits.
func (pw *ProfileWatcher) Close() error {
	var err error
	pw.once.Do(func() {
		close(pw.closeCh)
		err = pw.watcher.Close()
		<-pw.done
	})
	return err
}

func (pw *ProfileWatcher) run() {
	defer close(pw.done)
	defer close(pw.Reloads)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			// Trailing debounce: editors emit bursts of events per save.
			if timer == nil {
				timer = time.NewTimer(profileReloadDebounce)
			} else {
				timer.Reset(profileReloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			ps, err := LoadProfiles(pw.path)
			select {
			case pw.Reloads <- ProfileReload{Profiles: ps, Err: err}:
			case <-pw.closeCh:
				return
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case pw.Reloads <- ProfileReload{Err: err}:
			case <-pw.closeCh:
				return
			}
		case <-pw.closeCh:
			return
		}
	}
}
