package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/danmuck/handlectl/internal/app"
	"github.com/danmuck/handlectl/internal/catalog"
	"github.com/danmuck/handlectl/internal/config"
	"github.com/danmuck/handlectl/internal/console"
	"github.com/danmuck/handlectl/internal/observability"
	"github.com/danmuck/handlectl/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var errSearchMode = errors.New("exactly one of --guid, --name or --index is required")

// loadConfig resolves the config file and applies flag overrides. A missing
// file at the default path falls back to defaults; an explicit path must exist.
func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !c.IsSet("config") {
			log.Debug().Str("path", path).Msg("no config file; using defaults")
			cfg = config.Default()
		} else {
			return config.Config{}, err
		}
	}
	if c.IsSet("dump") {
		cfg.DumpPath = c.String("dump")
	}
	if c.IsSet("log") {
		cfg.LogPath = c.String("log")
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openSession(cfg config.Config, out io.Writer) *session.Session {
	return session.Open(session.Options{
		Console:  out,
		LogPath:  cfg.LogPath,
		Registry: cfg.Registry(),
	})
}

func closeSession(cfg config.Config, sess *session.Session) {
	if err := sess.Close(); err != nil {
		log.Warn().Err(err).Msg("session close failed")
	}
	if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
		log.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("metrics textfile export failed")
	}
}

// dumpSource reloads the dump for every action so a recaptured file is
// picked up between searches.
func dumpSource(path string) app.SourceFunc {
	return func() (catalog.Source, error) {
		return catalog.LoadDump(path)
	}
}

func runInteractive(c *cli.Context, stdin *os.File) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	in, err := console.OpenInput(stdin)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			log.Warn().Err(err).Msg("terminal restore failed")
		}
	}()

	out := c.App.Writer
	color := cfg.Color
	if in.Raw {
		out = console.NewCRLFWriter(out)
	} else {
		color = false
	}

	sess := openSession(cfg, out)
	defer closeSession(cfg, sess)

	con := console.New(console.Options{
		Out:              out,
		Keys:             in.Keys,
		Clipboard:        &console.SystemClipboard{},
		Color:            color,
		ClearScreen:      cfg.ClearScreen && in.Raw,
		BellOnIncomplete: cfg.BellOnIncomplete,
	})
	log.Info().Str("dump", cfg.DumpPath).Str("log", cfg.LogPath).Bool("raw", in.Raw).Msg("handlectl interactive")
	return app.New(app.Options{Session: sess, Console: con, Source: dumpSource(cfg.DumpPath)}).Run()
}

// oneshot loads the dump once up front so a bad dump fails the command,
// then runs action inside one result block.
func oneshot(c *cli.Context, action func(*app.App)) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	src, err := catalog.LoadDump(cfg.DumpPath)
	if err != nil {
		return err
	}
	sess := openSession(cfg, c.App.Writer)
	defer closeSession(cfg, sess)

	a := app.New(app.Options{
		Session: sess,
		Source:  func() (catalog.Source, error) { return src, nil },
	})
	return a.Oneshot(action)
}

func runDump(c *cli.Context) error {
	return oneshot(c, func(a *app.App) { a.DumpAll() })
}

func runSearch(c *cli.Context) error {
	set := 0
	for _, name := range []string{"guid", "name", "index"} {
		if c.IsSet(name) {
			set++
		}
	}
	if set != 1 {
		return errSearchMode
	}

	switch {
	case c.IsSet("guid"):
		text := c.String("guid")
		return oneshot(c, func(a *app.App) { a.SearchGUID(text, true) })
	case c.IsSet("name"):
		name, detail := c.String("name"), c.Bool("detail")
		return oneshot(c, func(a *app.App) { a.SearchName(name, detail) })
	default:
		raw := c.String("index")
		return oneshot(c, func(a *app.App) { a.SearchIndex(raw) })
	}
}

func runConfigInit(c *cli.Context) error {
	kind := c.String("kind")
	target := c.String("output")
	if target == "" {
		switch kind {
		case "dump", "handles":
			target = config.DefaultDumpPath
			if c.IsSet("dump") {
				target = c.String("dump")
			}
		default:
			target = c.String("config")
		}
	}
	if err := config.WriteTemplate(target, kind, c.Bool("force")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s template to %s\n", kind, target)
	return nil
}

func runConfigValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	src, err := catalog.LoadDump(cfg.DumpPath)
	if err != nil {
		return err
	}
	reg := cfg.Registry()
	fmt.Fprintf(c.App.Writer, "Validated config %s: %d protocols, dump %s: %d handles\n",
		c.String("config"), reg.Len(), cfg.DumpPath, src.Len())
	return nil
}
