package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/billingcat/clinvoice/model"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "0.1.0"

type controller struct {
	cfg      *model.Config
	cfgPath  string
	model    *model.Store
	logger   *slog.Logger
	prompt   *prompter
	out      io.Writer
	errOut   io.Writer
	exporter model.PDFExporter
	now      func() time.Time
}

func newController(cfg *model.Config, cfgPath string, in io.Reader, out, errOut io.Writer) *controller {
	return &controller{
		cfg:     cfg,
		cfgPath: cfgPath,
		prompt:  &prompter{in: bufio.NewReader(in), out: out},
		out:     out,
		errOut:  errOut,
		logger:  newLogger(cfg, errOut),
		now:     time.Now,
	}
}

// newLogger picks the log format by mode.
// Prod: JSON, Info+; Dev: Text, Debug
func newLogger(cfg *model.Config, w io.Writer) *slog.Logger {
	if cfg.Mode == "development" {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Run executes one command given by args (os.Args style).
func Run(ctx context.Context, cfg *model.Config, cfgPath string, args []string) error {
	ctrl := newController(cfg, cfgPath, os.Stdin, os.Stdout, os.Stderr)
	return ctrl.app().RunContext(ctx, args)
}

func (ctrl *controller) app() *cli.App {
	return &cli.App{
		Name:      "clinvoice",
		Usage:     "Store clients and generate invoices",
		Version:   Version,
		Writer:    ctrl.out,
		ErrWriter: ctrl.errOut,
		Before:    ctrl.before,
		After:     ctrl.after,

		// main reports the error and sets the exit code
		ExitErrHandler: func(*cli.Context, error) {},

		// --item values are JSON and contain commas
		DisableSliceFlagSeparator: true,

		Commands: []*cli.Command{
			{
				Name:   "setup",
				Usage:  "Manage configuration",
				Action: ctrl.setupAction,
			},
			ctrl.companyCommand(),
			ctrl.clientCommand(),
			ctrl.invoiceCommand(),
		},
	}
}

func (ctrl *controller) before(c *cli.Context) error {
	ctrl.logger = ctrl.logger.With("run_id", uuid.NewString())
	cmd := c.Args().First()
	switch cmd {
	case "", "help", "h", "setup":
		return nil
	}
	if !ctrl.cfg.Complete() {
		fmt.Fprintln(ctrl.out, "Setup not done")
		if err := ctrl.runSetup(); err != nil {
			return err
		}
	}
	return ctrl.openStore()
}

func (ctrl *controller) after(_ *cli.Context) error {
	if ctrl.model == nil {
		return nil
	}
	err := ctrl.model.Close()
	ctrl.model = nil
	return err
}

func (ctrl *controller) openStore() error {
	if ctrl.model != nil {
		return nil
	}
	store, err := model.InitDatabase(ctrl.cfg)
	if err != nil {
		return err
	}
	ctrl.model = store
	return nil
}

func (ctrl *controller) pdfExporter() model.PDFExporter {
	if ctrl.exporter == nil {
		ctrl.exporter = model.NewChromeExporter(ctrl.cfg, ctrl.logger)
	}
	return ctrl.exporter
}

// userMessage turns an error into the text shown on the terminal.
func userMessage(err error) string {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, model.ErrNotFound):
		return err.Error()
	case errors.Is(err, model.ErrExport):
		return fmt.Sprintf("could not create the PDF: %v", err)
	case errors.Is(err, model.ErrStore):
		return fmt.Sprintf("database failure: %v", err)
	}
	return err.Error()
}

// exitError reports err and makes the command exit non-zero. A failed
// lookup is reported but ends the command cleanly.
func (ctrl *controller) exitError(err error) error {
	if err == nil {
		return nil
	}
	ctrl.logger.Debug("command failed", "error", err)
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintln(ctrl.out, "Error: "+userMessage(err))
		return nil
	}
	return cli.Exit("Error: "+userMessage(err), 1)
}
