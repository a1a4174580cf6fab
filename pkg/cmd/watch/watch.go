package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/cmd/util"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/pipeline"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/utils"
)

const (
	defaultCooldown = 10 * time.Second
	probeInterval   = 500 * time.Millisecond
	stableTimeout   = 30 * time.Second
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch dir",
		Short: "watch a directory and analyze new recordings as they appear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0])
		},
	}
	cmd.Flags().StringVar(&config.WatchCooldown,
		"cooldown",
		"10s",
		"minimum delay before the same file is picked up again")
	return cmd
}

func runWatch(dir string) error {
	logger := util.SetupLogger()
	defer logger.Sync() //nolint:errcheck // ok on exit

	cooldown, err := time.ParseDuration(config.WatchCooldown)
	if err != nil {
		log.Warn("invalid cooldown, using default",
			log.String("arg", config.WatchCooldown),
			log.ErrorField(err))
		cooldown = defaultCooldown
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	st := store.New()
	dw := &dirWatcher{
		proc:     util.NewProcessor(st),
		cooldown: cooldown,
		seen:     map[string]time.Time{},
		l:        log.Default().Named("watch"),
	}
	go dw.loop(ctx, watcher)

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	log.Info("watching for new recordings", log.String("dir", dir))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	v := <-sigChan
	log.Debug("got signal", log.Any("signal", v))
	cancel()
	log.Info("watch finished",
		log.Int("processed", st.Len()),
		log.String("dir", dir))
	return nil
}

type dirWatcher struct {
	proc     *pipeline.Processor
	cooldown time.Duration
	seen     map[string]time.Time
	l        *log.Logger
}

func (w *dirWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.l.Info("context done, stopping watch")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				w.l.Info("watcher events channel closed, stopping watch")
				return
			}
			w.l.Debug("change detected",
				log.String("file", event.Name), log.Any("event", event))
			if event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Write == fsnotify.Write {

				w.handle(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				w.l.Info("watcher errors channel closed, stopping watch")
				return
			}
			w.l.Error("watcher error", log.ErrorField(err))
		}
	}
}

func (w *dirWatcher) handle(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".ibt") {
		return
	}
	if last, ok := w.seen[path]; ok && time.Since(last) < w.cooldown {
		w.l.Debug("still in cooldown", log.String("file", path))
		return
	}
	w.seen[path] = time.Now()
	// the simulator writes recordings over several seconds
	if err := utils.WaitForStableFile(ctx, path, probeInterval, stableTimeout); err != nil {
		w.l.Warn("file did not stabilize",
			log.String("file", path), log.ErrorField(err))
		return
	}
	res, err := w.proc.Process(ctx, path)
	switch {
	case errors.Is(err, pipeline.ErrAlreadyProcessed):
		w.l.Debug("file already processed", log.String("file", path))
	case err != nil:
		w.l.Error("could not process file",
			log.String("file", path), log.ErrorField(err))
	default:
		w.l.Info("session analyzed",
			log.String("file", filepath.Base(path)),
			log.String("track", res.Identity.Track),
			log.String("car", res.Identity.Car),
			log.String("source", string(res.Source)))
	}
}
