package controller

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/billingcat/clinvoice/model"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func (ctrl *controller) invoiceCommand() *cli.Command {
	return &cli.Command{
		Name:  "invoice",
		Usage: "Generate and manage invoices",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate an invoice PDF and store it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company-name", Usage: "company name"},
					&cli.StringFlag{Name: "company-address", Usage: "company address (custom mode)"},
					&cli.StringFlag{Name: "company-email", Usage: "company email (custom mode)"},
					&cli.StringFlag{Name: "company-phone", Usage: "company phone (custom mode)"},
					&cli.StringFlag{Name: "client-name", Usage: "client name"},
					&cli.StringFlag{Name: "client-address", Usage: "client address (custom mode)"},
					&cli.StringFlag{Name: "client-email", Usage: "client email (custom mode)"},
					&cli.StringFlag{Name: "client-phone", Usage: "client phone (custom mode)"},
					&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Usage: `item as JSON, e.g. {"description": "Widget", "quantity": 3, "price": 9.99}`},
					&cli.StringFlag{Name: "notes", Usage: "notes printed on the invoice"},
					&cli.StringFlag{Name: "tax", Value: "0.00", Usage: "tax amount printed on the invoice"},
					&cli.BoolFlag{Name: "custom", Usage: "use the given company and client details instead of stored records"},
					&cli.BoolFlag{Name: "preview", Usage: "render the first page of the PDF to PNG"},
				},
				Action: ctrl.invoiceGenerate,
			},
			{
				Name:  "list",
				Usage: "List invoices, optionally filtered by id or client name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "invoice number"},
					&cli.StringFlag{Name: "client", Aliases: []string{"c"}, Usage: "client name contains"},
				},
				Action: ctrl.invoiceList,
			},
			{
				Name:      "regen",
				Usage:     "Issue a stored invoice again under a new number",
				ArgsUsage: "<id>",
				Action:    ctrl.invoiceRegen,
			},
			{
				Name:      "export",
				Usage:     "Write all invoices and items to an xlsx file",
				ArgsUsage: "<file.xlsx>",
				Action:    ctrl.invoiceExport,
			},
			{
				Name:      "send",
				Usage:     "Mail the invoice PDF to the client",
				ArgsUsage: "<id>",
				Action:    ctrl.invoiceSend,
			},
		},
	}
}

// generateInput holds the raw answers of the generate command before the
// company and client are resolved.
type generateInput struct {
	Company model.Party
	Client  model.Party
	Items   []string
	Notes   string
	Tax     string
	Custom  bool
}

func generateInputFromFlags(c *cli.Context) generateInput {
	return generateInput{
		Company: model.Party{
			Name:    c.String("company-name"),
			Address: c.String("company-address"),
			Email:   c.String("company-email"),
			Phone:   c.String("company-phone"),
		},
		Client: model.Party{
			Name:    c.String("client-name"),
			Address: c.String("client-address"),
			Email:   c.String("client-email"),
			Phone:   c.String("client-phone"),
		},
		Items:  c.StringSlice("item"),
		Notes:  c.String("notes"),
		Tax:    c.String("tax"),
		Custom: c.Bool("custom"),
	}
}

func (ctrl *controller) invoiceGenerate(c *cli.Context) error {
	in := generateInputFromFlags(c)
	usedArgs := c.NumFlags() > 0
	if err := ctrl.completeGenerateInput(&in, usedArgs); err != nil {
		return ctrl.exitError(err)
	}
	req, err := ctrl.buildRequest(in)
	if err != nil {
		return ctrl.exitError(err)
	}
	gen, err := ctrl.newGenerator()
	if err != nil {
		return ctrl.exitError(err)
	}
	fmt.Fprintln(ctrl.out, "Generating invoice...")
	inv, err := gen.generate(c.Context, req)
	if err != nil {
		return ctrl.exitError(err)
	}
	fmt.Fprintf(ctrl.out, "Invoice PDF saved to: %s\n", inv.PDFPath)
	if c.Bool("preview") {
		ctrl.preview(inv.PDFPath)
	}
	fmt.Fprintln(ctrl.out, "Invoice generation complete.")
	return nil
}

// completeGenerateInput asks for everything the flags left out. With no
// flags at all the optional details are asked for too.
func (ctrl *controller) completeGenerateInput(in *generateInput, usedArgs bool) error {
	var err error
	if in.Company.Name == "" && in.Client.Name == "" {
		if in.Company.Name, err = ctrl.prompt.askOptional("Enter the company name"); err != nil {
			return err
		}
		if in.Company.Name != "" && !usedArgs {
			for _, f := range []struct {
				dst   *string
				label string
			}{
				{&in.Company.Address, "Enter the company address"},
				{&in.Company.Email, "Enter the company email"},
				{&in.Company.Phone, "Enter the company phone"},
			} {
				if *f.dst, err = ctrl.prompt.askOptional(f.label); err != nil {
					return err
				}
			}
		}
	}

	if in.Client.Name == "" {
		if usedArgs {
			fmt.Fprintln(ctrl.out, "Client name cannot be empty")
		}
		in.Client.Name, err = ctrl.prompt.askUntil("Enter the client name: ", func(s string) error {
			return model.RequireName("client", s)
		})
		if err != nil {
			return err
		}
		if in.Custom && !usedArgs {
			for _, f := range []struct {
				dst   *string
				label string
			}{
				{&in.Client.Address, "Enter the client address"},
				{&in.Client.Email, "Enter the client email"},
				{&in.Client.Phone, "Enter the client phone"},
			} {
				if *f.dst == "" {
					if *f.dst, err = ctrl.prompt.askOptional(f.label); err != nil {
						return err
					}
				}
			}
		}
	}

	if len(in.Items) == 0 {
		if usedArgs {
			fmt.Fprintln(ctrl.out, "Items cannot be empty")
		}
		if in.Items, err = ctrl.collectItems(); err != nil {
			return err
		}
	}

	if in.Notes == "" && !usedArgs {
		if in.Notes, err = ctrl.prompt.askOptional("Enter notes for the invoice"); err != nil {
			return err
		}
	}
	return nil
}

// collectItems asks for items until the user enters "done" and returns them
// in the same JSON form as the --item flag.
func (ctrl *controller) collectItems() ([]string, error) {
	var items []string
	for {
		name, err := ctrl.prompt.askUntil("Enter item name (or 'done' to finish): ", func(s string) error {
			if s == "" {
				return &model.ValidationError{Err: model.ErrValidation, Details: "item name cannot be empty"}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if name == "done" {
			return items, nil
		}
		var price decimal.Decimal
		if _, err = ctrl.prompt.askUntil("Enter item price: ", func(s string) error {
			price, err = model.ParsePrice(s)
			return err
		}); err != nil {
			return nil, err
		}
		var quantity int
		if _, err = ctrl.prompt.askUntil("Enter item quantity: ", func(s string) error {
			quantity, err = model.ParseQuantity(s)
			return err
		}); err != nil {
			return nil, err
		}
		buf, err := json.Marshal(model.ItemInput{Description: name, Quantity: &quantity, Price: &price})
		if err != nil {
			return nil, err
		}
		items = append(items, string(buf))
	}
}

// buildRequest parses the items and the tax and resolves company and client.
// In custom mode the given details are used as they are; otherwise the
// stored records are looked up.
func (ctrl *controller) buildRequest(in generateInput) (invoiceRequest, error) {
	var req invoiceRequest
	items, err := model.ParseItems(in.Items)
	if err != nil {
		return req, err
	}
	tax := decimal.Zero
	if in.Tax != "" {
		if tax, err = model.ParsePrice(in.Tax); err != nil {
			return req, err
		}
	}
	req.Items = items
	req.Tax = tax
	req.Notes = in.Notes

	if in.Custom {
		req.Company = in.Company
		if req.Company.Name == "" {
			def, err := ctrl.model.DefaultCompany()
			if err != nil {
				return req, err
			}
			req.Company.Name = def.Name
		}
		req.Client = in.Client
		return req, nil
	}

	company, err := ctrl.resolveCompany(in.Company.Name)
	if err != nil {
		return req, err
	}
	client, err := ctrl.resolveClient(in.Client.Name)
	if err != nil {
		return req, err
	}
	req.Company = company.Party
	req.CompanyID = &company.ID
	req.Client = client.Party
	req.ClientID = &client.ID
	return req, nil
}

func (ctrl *controller) invoiceList(c *cli.Context) error {
	if c.IsSet("id") && c.IsSet("client") {
		return ctrl.exitError(&model.ValidationError{Err: model.ErrValidation, Details: "please provide only one of id or client"})
	}
	var (
		invoices []model.Invoice
		err      error
		field    model.InvoiceSearchField
		value    string
	)
	switch {
	case c.IsSet("id"):
		field, value = model.InvoiceByID, c.String("id")
	case c.IsSet("client"):
		field, value = model.InvoiceByClient, c.String("client")
	}
	if field == "" {
		fmt.Fprintln(ctrl.out, "Full list of invoices")
		invoices, err = ctrl.model.ListInvoices()
	} else {
		invoices, err = ctrl.model.SearchInvoices(field, value)
	}
	if err != nil {
		return ctrl.exitError(err)
	}
	if len(invoices) == 0 {
		if field == "" {
			fmt.Fprintln(ctrl.out, "No invoices found")
		} else {
			fmt.Fprintf(ctrl.out, "No invoice found using %s: %s\n", field, value)
		}
		return nil
	}
	invoiceTable(ctrl.out, invoices, ctrl.now())
	if field != "" && len(invoices) == 1 {
		items, err := ctrl.model.LoadItems(invoices[0].ID)
		if err != nil {
			return ctrl.exitError(err)
		}
		fmt.Fprintln(ctrl.out)
		itemTable(ctrl.out, items)
	}
	return nil
}

func invoiceIDArg(c *cli.Context) (uint, error) {
	arg := c.Args().First()
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, &model.ValidationError{Err: model.ErrValidation, Input: arg, Details: "invoice id must be a positive integer"}
	}
	return uint(id), nil
}

func (ctrl *controller) invoiceRegen(c *cli.Context) error {
	id, err := invoiceIDArg(c)
	if err != nil {
		return ctrl.exitError(err)
	}
	fmt.Fprintf(ctrl.out, "Regenerating invoice with id %d\n", id)
	gen, err := ctrl.newGenerator()
	if err != nil {
		return ctrl.exitError(err)
	}
	inv, err := gen.regenerate(c.Context, id)
	if err != nil {
		return ctrl.exitError(err)
	}
	fmt.Fprintf(ctrl.out, "Invoice PDF saved to: %s\n", inv.PDFPath)
	fmt.Fprintln(ctrl.out, "Invoice regenerated")
	return nil
}
