package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"storefront-service/internal/admin"
	"storefront-service/internal/catalog"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

type app struct {
	apiURL    string
	uploadURL string
	timeout   time.Duration
	logger    *logrus.Logger

	api      *clients.StorefrontClient
	uploader *clients.UploadClient
}

func (a *app) connect() {
	a.api = clients.NewStorefrontClient(a.apiURL)
	a.uploader = clients.NewUploadClient(a.uploadURL, a.logger)
}

func (a *app) console(ctx context.Context) (*admin.Console, error) {
	c := admin.NewConsole(a.api, a.uploader, a.logger)
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *app) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout)
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Admin console for the storefront catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.connect()
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", os.Getenv("STOREFRONT_API_URL"), "storefront API base URL")
	root.PersistentFlags().StringVar(&a.uploadURL, "upload-url", os.Getenv("UPLOAD_ENDPOINT_URL"), "image upload endpoint")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 2*time.Minute, "overall request timeout")

	root.AddCommand(
		newListCmd(a),
		newViewCmd(a, "new-arrivals", "List the newest active products", (*admin.Console).NewArrivals),
		newViewCmd(a, "top-rated", "List active top rated products", (*admin.Console).TopRated),
		newEditCmd(a),
		newDeleteCmd(a),
		newTaxonomyCmd(a),
		newCompanyCmd(a),
		newContactCmd(a),
	)
	return root
}

func printProducts(w io.Writer, products []models.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tPRICE\tDISCOUNT\tSTOCK\tSTATUS\tTOP\tIMAGES")
	for _, p := range products {
		discount := "-"
		if p.Discount.Valid {
			discount = p.Discount.Decimal.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%t\t%d\n",
			p.Slug, p.Name, p.Price.StringFixed(2), discount, p.Stock, p.Status, p.IsTopRated, len(p.Images))
	}
	tw.Flush()
}

func newListCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by free text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			c, err := a.console(ctx)
			if err != nil {
				return err
			}
			c.SetFilter(filter)
			printProducts(cmd.OutOrStdout(), c.Visible())
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "case-insensitive text matched against "+searchFieldNames())
	return cmd
}

func newViewCmd(a *app, use, short string, view func(*admin.Console, context.Context) ([]models.Product, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			products, err := view(admin.NewConsole(a.api, a.uploader, a.logger), ctx)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func readFile(path string) (clients.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return clients.File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return clients.File{Name: filepath.Base(path), Data: data}, nil
}

type editFlags struct {
	name, slug, description, price, stock, discount string
	status, subcategory                             string
	topRated                                        bool
	colors, sizes, addImages                        []string
	removeImages                                    []int
}

func newEditCmd(a *app) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit SLUG",
		Short: "Edit a product; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			c, err := a.console(ctx)
			if err != nil {
				return err
			}
			form, err := c.Edit(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = f.name
			}
			if flags.Changed("slug") {
				form.SetSlug(f.slug)
			}
			if flags.Changed("description") {
				form.Description = f.description
			}
			if flags.Changed("price") {
				price, err := decimal.NewFromString(f.price)
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", f.price, err)
				}
				form.Price = price
			}
			if flags.Changed("stock") {
				form.Stock = f.stock
			}
			if flags.Changed("discount") {
				form.Discount = f.discount
			}
			if flags.Changed("status") {
				form.Status = models.ProductStatus(f.status)
			}
			if flags.Changed("top-rated") {
				form.IsTopRated = f.topRated
			}
			if flags.Changed("subcategory") {
				form.SubcategorySlug = f.subcategory
			}
			if flags.Changed("color") {
				form.Colors = f.colors
			}
			if flags.Changed("size") {
				form.Sizes = f.sizes
			}
			if err := removeImages(form, f.removeImages); err != nil {
				return err
			}
			for _, path := range f.addImages {
				file, err := readFile(path)
				if err != nil {
					return err
				}
				form.AddImage(file)
			}

			updated, err := c.SaveEdit(ctx)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), []models.Product{*updated})
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "product name")
	fl.StringVar(&f.slug, "slug", "", "new slug; whitespace becomes dashes")
	fl.StringVar(&f.description, "description", "", "description")
	fl.StringVar(&f.price, "price", "", "price")
	fl.StringVar(&f.stock, "stock", "", "stock; parsed leniently, negatives become 0")
	fl.StringVar(&f.discount, "discount", "", "discount; empty clears it")
	fl.StringVar(&f.status, "status", "", "active or deactive")
	fl.BoolVar(&f.topRated, "top-rated", false, "show in the top rated view")
	fl.StringVar(&f.subcategory, "subcategory", "", "subcategory slug")
	fl.StringSliceVar(&f.colors, "color", nil, "color ids (replaces the list)")
	fl.StringSliceVar(&f.sizes, "size", nil, "size ids (replaces the list)")
	fl.StringSliceVar(&f.addImages, "add-image", nil, "image files to upload and append")
	fl.IntSliceVar(&f.removeImages, "remove-image", nil, "0-based indexes of existing images to detach")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete SLUG",
		Short: "Delete a product and every order that references it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting %s also deletes its orders and cannot be undone; pass --yes to confirm", args[0])
			}
			ctx, cancel := a.context()
			defer cancel()
			c, err := a.console(ctx)
			if err != nil {
				return err
			}
			result, err := c.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d product(s), %d order(s), %d image reference(s)\n",
				result.ProductsDeleted, result.OrdersDeleted, result.ImagesDetached)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the delete")
	return cmd
}

func newTaxonomyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "Show categories, subcategories, colors and sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			t, err := admin.NewConsole(a.api, a.uploader, a.logger).LoadTaxonomy(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, category := range t.Categories {
				fmt.Fprintf(tw, "category\t%s\t%s\n", category.Name, category.ID)
				for _, sub := range t.SubcategoriesOf(category.ID) {
					fmt.Fprintf(tw, "  subcategory\t%s\t%s\n", sub.Name, sub.Slug)
				}
			}
			colorIDs := make([]string, len(t.Colors))
			for i, color := range t.Colors {
				colorIDs[i] = color.ID
			}
			for i, label := range catalog.ResolveColors(colorIDs, t.Colors) {
				fmt.Fprintf(tw, "color\t%s\t%s\n", colorIDs[i], label)
			}
			sizeIDs := make([]string, len(t.Sizes))
			for i, size := range t.Sizes {
				sizeIDs[i] = size.ID
			}
			for i, label := range catalog.ResolveSizes(sizeIDs, t.Sizes) {
				fmt.Fprintf(tw, "size\t%s\t%s\n", sizeIDs[i], label)
			}
			return tw.Flush()
		},
	}
}

func newCompanyCmd(a *app) *cobra.Command {
	var name, description, header, favicon string
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Show or save the company details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			store := admin.NewProfileStore[models.CompanyProfileRequest](admin.CompanyProfileAPI{Client: a.api})
			p, err := store.Load(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if anyChanged(cmd, "name", "description", "header", "favicon") {
				if flags.Changed("name") {
					p.Value.Name = name
				}
				if flags.Changed("description") {
					p.Value.Description = description
				}
				var headerFile, faviconFile *clients.File
				if header != "" {
					file, err := readFile(header)
					if err != nil {
						return err
					}
					headerFile = &file
				}
				if favicon != "" {
					file, err := readFile(favicon)
					if err != nil {
						return err
					}
					faviconFile = &file
				}
				if p, err = admin.NewCompanyEditor(store, a.uploader).Save(ctx, p, headerFile, faviconFile); err != nil {
					return err
				}
			}

			id, persisted := p.ID()
			out := cmd.OutOrStdout()
			if persisted {
				fmt.Fprintf(out, "id:          %s\n", id)
			} else {
				fmt.Fprintln(out, "id:          (not saved yet)")
			}
			fmt.Fprintf(out, "name:        %s\ndescription: %s\nheader:      %s\nfavicon:     %s\n",
				p.Value.Name, p.Value.Description, p.Value.HeaderImage, p.Value.FavIcon)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "company name")
	cmd.Flags().StringVar(&description, "description", "", "company description")
	cmd.Flags().StringVar(&header, "header", "", "header image file to upload")
	cmd.Flags().StringVar(&favicon, "favicon", "", "favicon file to upload")
	return cmd
}

func newContactCmd(a *app) *cobra.Command {
	var v models.ContactInfoRequest
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Show or save the contact info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			store := admin.NewProfileStore[models.ContactInfoRequest](admin.ContactInfoAPI{Client: a.api})
			p, err := store.Load(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if anyChanged(cmd, "phone", "email", "address", "website", "owner") {
				if flags.Changed("phone") {
					p.Value.PhoneNumber = v.PhoneNumber
				}
				if flags.Changed("email") {
					p.Value.Email = v.Email
				}
				if flags.Changed("address") {
					p.Value.Address = v.Address
				}
				if flags.Changed("website") {
					p.Value.Website = v.Website
				}
				if flags.Changed("owner") {
					p.Value.Owner = v.Owner
				}
				if p, err = store.Save(ctx, p); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "phone:   %s\nemail:   %s\naddress: %s\nwebsite: %s\nowner:   %s\n",
				p.Value.PhoneNumber, p.Value.Email, p.Value.Address, p.Value.Website, p.Value.Owner)
			return nil
		},
	}
	cmd.Flags().StringVar(&v.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&v.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&v.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&v.Website, "website", "", "website URL")
	cmd.Flags().StringVar(&v.Owner, "owner", "", "owner name")
	return cmd
}

// removeImages detaches the existing images at the given indexes. Repeated
// indexes count once.
func removeImages(form *admin.ProductForm, indexes []int) error {
	indexes = slices.Compact(slices.Sorted(slices.Values(indexes)))
	// Highest index first so earlier removals do not shift later ones
	for i := len(indexes) - 1; i >= 0; i-- {
		if err := form.RemoveExistingImage(indexes[i]); err != nil {
			return fmt.Errorf("image %d: %w", indexes[i], err)
		}
	}
	return nil
}

func searchFieldNames() string {
	names := make([]string, len(catalog.SearchFields))
	for i, f := range catalog.SearchFields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
