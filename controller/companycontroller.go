package controller

import (
	"fmt"

	"github.com/billingcat/clinvoice/model"
	"github.com/urfave/cli/v2"
)

func (ctrl *controller) companyCommand() *cli.Command {
	return &cli.Command{
		Name:  "company",
		Usage: "Manage companies",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a company",
				ArgsUsage: "[name] [address] [email] [phone]",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(ctrl.out, "Add Company")
					_, err := ctrl.addCompany(c.Args().Slice())
					return ctrl.exitError(err)
				},
			},
			{
				Name:  "list",
				Usage: "List companies",
				Action: func(c *cli.Context) error {
					companies, err := ctrl.model.LoadAllCompanies()
					if err != nil {
						return ctrl.exitError(err)
					}
					companyTable(ctrl.out, companies, ctrl.cfg.DefaultCompany)
					return nil
				},
			},
		},
	}
}

// collectParty takes name, address, email and phone from args in that order
// and asks for whatever is missing.
func (ctrl *controller) collectParty(what string, args []string) (model.Party, error) {
	var p model.Party
	fields := []struct {
		dst      *string
		label    string
		required bool
	}{
		{&p.Name, "Enter " + what + " name: ", true},
		{&p.Address, "Enter " + what + " address", false},
		{&p.Email, "Enter " + what + " email", false},
		{&p.Phone, "Enter " + what + " phone", false},
	}
	for i, f := range fields {
		if i < len(args) {
			*f.dst = args[i]
			continue
		}
		var (
			answer string
			err    error
		)
		if f.required {
			answer, err = ctrl.prompt.askUntil(f.label, func(s string) error { return model.RequireName(what, s) })
		} else {
			answer, err = ctrl.prompt.askOptional(f.label)
		}
		if err != nil {
			return p, err
		}
		*f.dst = answer
	}
	return p, model.RequireName(what, p.Name)
}

func (ctrl *controller) addCompany(args []string) (*model.Company, error) {
	p, err := ctrl.collectParty("company", args)
	if err != nil {
		return nil, err
	}
	company, err := ctrl.model.CreateCompany(p)
	if err != nil {
		return nil, err
	}
	ctrl.logger.Info("company added", "company_id", company.ID)
	fmt.Fprintf(ctrl.out, "Company %s added\n", company.Name)
	return company, nil
}

// resolveCompany picks the company for a non-custom invoice: the default
// company when name is empty, otherwise the single match or the user's
// selection among several.
func (ctrl *controller) resolveCompany(name string) (*model.Company, error) {
	if name == "" {
		return ctrl.model.DefaultCompany()
	}
	companies, err := ctrl.model.FindCompanies(model.CompanyByName, name)
	if err != nil {
		return nil, err
	}
	switch len(companies) {
	case 0:
		return nil, fmt.Errorf("company %q: %w", name, model.ErrNotFound)
	case 1:
		return companies[0], nil
	}
	options := make([]string, len(companies))
	for i, co := range companies {
		options[i] = fmt.Sprintf("%s - %s", co.Name, co.Address)
	}
	idx, err := ctrl.prompt.choose("Multiple companies found.\nSelect a company:", options)
	if err != nil {
		return nil, err
	}
	return companies[idx], nil
}
