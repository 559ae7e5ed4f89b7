package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/binzume/tbmscene/bridge"
	"github.com/binzume/tbmscene/gltfutil"
	"github.com/binzume/tbmscene/identity"
	"github.com/binzume/tbmscene/interact"
	"github.com/binzume/tbmscene/telemetry"
	"github.com/binzume/tbmscene/viewer"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

type viewFlags struct {
	config    string
	model     string
	root      string
	naming    string
	telemetry string
	listen    string
	watch     bool
	frames    int
}

func newViewCommand() *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "view [model.glb]",
		Short: "Load a model and run the scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				f.model = args[0]
			}
			return runView(cmd, &f)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "options file (yaml)")
	cmd.Flags().StringVar(&f.model, "model", "", "model path or URL")
	cmd.Flags().StringVar(&f.root, "root", "", "model root node name")
	cmd.Flags().StringVar(&f.naming, "naming", "", "naming convention prefixes, comma separated")
	cmd.Flags().StringVar(&f.telemetry, "telemetry", "", "telemetry series file (yaml)")
	cmd.Flags().StringVar(&f.listen, "listen", "", "serve the websocket bridge on this address")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "reload when the options file changes")
	cmd.Flags().IntVar(&f.frames, "frames", 0, "render n frames and exit (0: run until interrupted)")
	return cmd
}

func loadOptions(cmd *cobra.Command, f *viewFlags) (*viewer.Options, error) {
	opts := viewer.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = viewer.LoadOptions(f.config); err != nil {
			return nil, err
		}
	}
	if f.model != "" {
		opts.ModelPath = f.model
	}
	if cmd.Flags().Changed("root") {
		opts.RootName = f.root
	}
	if cmd.Flags().Changed("naming") {
		opts.NamingConvention = f.naming
	}
	if f.telemetry != "" {
		opts.Telemetry = f.telemetry
	}
	return opts, opts.Validate()
}

func runView(cmd *cobra.Command, f *viewFlags) error {
	opts, err := loadOptions(cmd, f)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fps := opts.FPS
	if fps <= 0 {
		fps = viewer.DefaultFPS
	}
	m := viewer.NewManager(gltfutil.NewLoader(), opts)
	m.Attach(&logRenderer{every: fps * 5})
	defer func() {
		m.DisposeAnimation()
		m.Wait()
	}()

	var srv *bridge.Server
	if f.listen != "" {
		srv = bridge.NewServer(m)
		mux := http.NewServeMux()
		mux.Handle("/ws", srv)
		hs := &http.Server{Addr: f.listen, Handler: mux}
		go func() {
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("listen: %v", err)
			}
		}()
		defer hs.Close()
		log.Printf("bridge listening on %s/ws", f.listen)
	} else {
		m.SetPopupHandlers(func(name string, pos interact.Point) {
			log.Printf("hover %s (%.0f, %.0f)", name, pos.X, pos.Y)
		}, func() {
			log.Print("unhover")
		})
		m.SetInfoHandlers(func(p *identity.Part) {
			if p == nil {
				return
			}
			log.Printf("click %s %v%s", p.ID, p.Value, p.Unit)
		})
	}

	load := func(opts *viewer.Options) error {
		start := time.Now()
		_, parts, err := m.LoadModel(ctx, opts.ModelPath, opts.RootName, opts.Convention(), func(pct float64) {
			if srv != nil {
				srv.Broadcast(bridge.Message{Type: bridge.TypeProgress, Value: pct})
			}
		})
		if err != nil {
			return err
		}
		log.Printf("%s: %d parts (%v)", opts.ModelPath, parts.Len(), time.Since(start))
		if opts.Telemetry == "" {
			return nil
		}
		series, err := telemetry.LoadFile(opts.Telemetry)
		if err != nil {
			return err
		}
		return m.BindTelemetry(telemetry.NewSet(series), opts.Rotors)
	}
	if err := load(opts); err != nil {
		return err
	}

	if f.frames > 0 {
		for i := 0; i < f.frames; i++ {
			m.Frame(1 / float64(fps))
		}
		return nil
	}

	if f.watch && f.config != "" {
		err := watchFile(ctx, f.config, func() {
			opts, err := loadOptions(cmd, f)
			if err != nil {
				log.Printf("reload %s: %v", f.config, err)
				return
			}
			if err := load(opts); err != nil {
				log.Printf("reload %s: %v", f.config, err)
			}
		})
		if err != nil {
			return err
		}
	}
	<-ctx.Done()
	return nil
}

// watchFile calls reload when path is written, until ctx is done.
func watchFile(ctx context.Context, path string, reload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == target && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watch: %v", err)
			}
		}
	}()
	return nil
}
