package app

import (
	"context"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"richdoc/internal/config"
	"richdoc/internal/editor"
	"richdoc/internal/storage"
	"richdoc/pkg/richdoc"
)

// App is the command-line shell around the editor core. It owns
// configuration, logging and the storage adapter for one invocation.
type App struct {
	ConfigPath string
	StoreDir   string
	Password   string
	Verbose    bool

	cfg       config.Config
	log       *zap.Logger
	store     *storage.Adapter
	clipboard func(string) error
	root      *cobra.Command
}

func New() *App {
	a := &App{
		log:       zap.NewNop(),
		clipboard: clipboard.WriteAll,
	}
	a.root = newRootCmd(a)
	return a
}

func (a *App) Command() *cobra.Command { return a.root }

func (a *App) Run() error {
	err := a.root.ExecuteContext(context.Background())
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "richdoc",
		Short:        "Styled document editor core",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a document and format its first word
  richdoc new notes --title "Notes"
  printf 'insert Hello world\nselect 0 5\nbold\n' | richdoc edit notes

  # Show it on a page with word and character counts
  richdoc show notes
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.open(cmd.Context())
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("RICHDOC_CONFIG", config.DefaultPath()), "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&a.StoreDir, "store", envOr("RICHDOC_STORE", ""), "Storage path (overrides storage.path)")
	cmd.PersistentFlags().StringVar(&a.Password, "password", envOr("RICHDOC_PASSWORD", ""), "Password for encrypted documents")
	cmd.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newNewCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newTextCmd(a))
	cmd.AddCommand(newJSONCmd(a))
	cmd.AddCommand(newMetricsCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newCopyCmd(a))
	cmd.AddCommand(newEditCmd(a))

	return cmd
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (a *App) open(ctx context.Context) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.StoreDir != "" {
		cfg.Storage.Path = a.StoreDir
	}
	a.cfg = cfg

	log, err := newLogger(cfg, a.Verbose)
	if err != nil {
		return err
	}
	a.log = log

	slots, err := storage.OpenSlots(ctx, cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return err
	}
	a.store = storage.NewAdapter(slots,
		storage.WithSaveOptions(cfg.SaveOptions(a.Password)),
		storage.WithPassword(a.Password),
		storage.WithLogger(log.Named("storage")))
	a.log.Debug("opened store", zap.String("driver", cfg.Storage.Driver), zap.String("path", cfg.Storage.Path))
	return nil
}

// close releases the store. It runs after the command whether or not it
// succeeded.
func (a *App) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	_ = a.log.Sync()
	return err
}

func newLogger(cfg config.Config, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Sampling = nil
	return zc.Build()
}

func (a *App) session(doc *richdoc.Document) *editor.Session {
	return editor.NewSession(doc,
		editor.WithHistoryLimit(a.cfg.HistoryLimit),
		editor.WithLogger(a.log.Named("editor")))
}

func (a *App) load(ctx context.Context, key string) (*editor.Session, error) {
	doc, err := a.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return a.session(doc), nil
}
