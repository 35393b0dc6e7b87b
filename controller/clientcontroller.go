package controller

import (
	"fmt"
	"strconv"

	"github.com/billingcat/clinvoice/model"
	"github.com/urfave/cli/v2"
)

func (ctrl *controller) clientCommand() *cli.Command {
	return &cli.Command{
		Name:  "client",
		Usage: "Manage clients",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a client",
				ArgsUsage: "[name] [address] [email] [phone]",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(ctrl.out, "Add Client")
					_, err := ctrl.addClient(c.Args().Slice())
					return ctrl.exitError(err)
				},
			},
			{
				Name:  "list",
				Usage: "List clients, optionally filtered by one of name, address or company",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "client name contains"},
					&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "client address contains"},
					&cli.StringFlag{Name: "company", Aliases: []string{"c"}, Usage: "company name contains"},
				},
				Action: ctrl.clientList,
			},
			{
				Name:      "link",
				Usage:     "Associate a client with a company",
				ArgsUsage: "<client-id>",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "company-id", Usage: "company to link to (default: the default company)"},
				},
				Action: ctrl.clientLink,
			},
		},
	}
}

func (ctrl *controller) addClient(args []string) (*model.Client, error) {
	p, err := ctrl.collectParty("client", args)
	if err != nil {
		return nil, err
	}
	client, err := ctrl.model.CreateClient(p, ctrl.cfg.DefaultCompany)
	if err != nil {
		return nil, err
	}
	ctrl.logger.Info("client added", "client_id", client.ID, "company_id", ctrl.cfg.DefaultCompany)
	fmt.Fprintf(ctrl.out, "Client %s added\n", client.Name)
	return client, nil
}

func (ctrl *controller) clientList(c *cli.Context) error {
	var (
		field model.ClientSearchField
		value string
		set   int
	)
	for _, f := range []model.ClientSearchField{model.ClientByName, model.ClientByAddress, model.ClientByCompany} {
		if c.IsSet(string(f)) {
			field, value = f, c.String(string(f))
			set++
		}
	}
	if set > 1 {
		return ctrl.exitError(&model.ValidationError{Err: model.ErrValidation, Details: "please provide only one of name, address, or company"})
	}

	var (
		clients []model.ClientWithCompanies
		err     error
	)
	if set == 0 {
		fmt.Fprintln(ctrl.out, "Full list of clients")
		clients, err = ctrl.model.ListClients()
	} else {
		fmt.Fprintf(ctrl.out, "Clients with %s containing %s\n\n", field, value)
		clients, err = ctrl.model.SearchClients(field, value)
	}
	if err != nil {
		return ctrl.exitError(err)
	}
	if len(clients) == 0 {
		fmt.Fprintln(ctrl.out, "No clients found")
		return nil
	}
	clientTable(ctrl.out, clients)
	return nil
}

func (ctrl *controller) clientLink(c *cli.Context) error {
	arg := c.Args().First()
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return ctrl.exitError(&model.ValidationError{Err: model.ErrValidation, Input: arg, Details: "client id must be a positive integer"})
	}
	client, err := ctrl.model.LoadClient(uint(id))
	if err != nil {
		return ctrl.exitError(err)
	}
	companyID := ctrl.cfg.DefaultCompany
	if c.IsSet("company-id") {
		companyID = c.Uint("company-id")
	}
	company, err := ctrl.model.LoadCompany(companyID)
	if err != nil {
		return ctrl.exitError(err)
	}
	if err = ctrl.model.LinkClient(company.ID, client.ID); err != nil {
		return ctrl.exitError(err)
	}
	fmt.Fprintf(ctrl.out, "Client %s linked to %s\n", client.Name, company.Name)
	return nil
}

// resolveClient looks a client up by name. No match is an error, several
// matches let the user choose.
func (ctrl *controller) resolveClient(name string) (*model.Client, error) {
	clients, err := ctrl.model.SearchClients(model.ClientByName, name)
	if err != nil {
		return nil, err
	}
	switch len(clients) {
	case 0:
		return nil, fmt.Errorf("client %q: %w", name, model.ErrNotFound)
	case 1:
		return &clients[0].Client, nil
	}
	options := make([]string, len(clients))
	for i, cl := range clients {
		options[i] = fmt.Sprintf("%s - %s", cl.Client.Name, cl.Client.Address)
	}
	idx, err := ctrl.prompt.choose("Multiple clients found.\nSelect a client:", options)
	if err != nil {
		return nil, err
	}
	return &clients[idx].Client, nil
}
