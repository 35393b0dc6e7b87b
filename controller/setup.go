package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/billingcat/clinvoice/model"
	"github.com/urfave/cli/v2"
)

const databaseFile = "cli_invoice.sqlite3"

func (ctrl *controller) setupAction(_ *cli.Context) error {
	return ctrl.exitError(ctrl.runSetup())
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clinvoice"
	}
	return filepath.Join(home, "clinvoice")
}

// existingDir accepts an existing directory or a PostgreSQL URL.
func existingDir(path string) error {
	if model.IsPostgresURL(path) {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return &model.ValidationError{Err: model.ErrValidation, Input: path, Details: "the directory does not exist"}
	}
	return nil
}

// runSetup asks for storage locations, the default company and the logo and
// writes the configuration.
func (ctrl *controller) runSetup() error {
	defaultDir := defaultDataDir()
	if err := os.MkdirAll(defaultDir, 0755); err != nil {
		ctrl.logger.Warn("cannot create default directory", "dir", defaultDir, "error", err)
	}
	withDefault := func(answer string) string {
		if answer == "" {
			return defaultDir
		}
		return answer
	}

	dbLocation, err := ctrl.prompt.askUntil(
		fmt.Sprintf("Database store path or postgres:// URL (default - %s): ", defaultDir),
		func(s string) error { return existingDir(withDefault(s)) })
	if err != nil {
		return err
	}
	dbLocation = withDefault(dbLocation)

	cfg := *ctrl.cfg
	cfg.SetupDone = false
	cfg.DatabaseURL = dbLocation
	invoiceDefault := dbLocation
	if model.IsPostgresURL(dbLocation) {
		invoiceDefault = defaultDir
	} else {
		cfg.DatabaseURL = filepath.Join(dbLocation, databaseFile)
	}

	invoiceDir, err := ctrl.prompt.ask(fmt.Sprintf("Invoice save path (default - %s): ", invoiceDefault))
	if err != nil {
		return err
	}
	if invoiceDir == "" {
		invoiceDir = invoiceDefault
	}
	if err = os.MkdirAll(invoiceDir, 0755); err != nil {
		return fmt.Errorf("%w: create invoice directory: %w", model.ErrIO, err)
	}
	cfg.InvoicePath = invoiceDir

	if err = model.SaveConfig(ctrl.cfgPath, &cfg); err != nil {
		return err
	}
	*ctrl.cfg = cfg

	if ctrl.model != nil {
		ctrl.model.Close()
		ctrl.model = nil
	}
	if err = ctrl.openStore(); err != nil {
		return err
	}

	company, err := ctrl.addCompany(nil)
	if err != nil {
		return err
	}

	logo, err := ctrl.prompt.askUntil("Path to your logo (png/jpeg/svg): ", model.ValidLogoPath)
	if err != nil {
		return err
	}

	cfg.SetupDone = true
	cfg.DefaultCompany = company.ID
	cfg.LogoPath = logo
	if err = model.SaveConfig(ctrl.cfgPath, &cfg); err != nil {
		return err
	}
	*ctrl.cfg = cfg
	ctrl.logger.Info("setup done", "database", cfg.DatabaseURL, "invoices", cfg.InvoicePath)
	fmt.Fprintln(ctrl.out, "Setup done")
	return nil
}
