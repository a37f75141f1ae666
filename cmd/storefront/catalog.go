package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/pkg/shopapi"
)

func newProductsCmd(c *cli) *cobra.Command {
	var category, subcategory, search string
	var reset bool

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products matching the current filter",
		Long: `List products. Filters start from --at and are then narrowed by the flags.
Choosing a category resets the subcategory and the search term, as the listing page does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := c.app.Filter
			if reset {
				filters.Reset()
			}
			if cmd.Flags().Changed("category") {
				filters.SetCategory(category)
			}
			if cmd.Flags().Changed("subcategory") {
				filters.SetSubcategory(subcategory)
			}
			if cmd.Flags().Changed("search") {
				filters.SetSearchTerm(search)
			}

			sel := filters.Selection()
			products, err := c.app.Catalog.List(c.ctx(cmd), sel)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "category: %s", sel.Category)
			if sel.Subcategory != "" {
				fmt.Fprintf(out, " / %s", sel.Subcategory)
			}
			if sel.Search != "" {
				fmt.Fprintf(out, "  search: %q", sel.Search)
			}
			fmt.Fprintln(out)

			if len(products) == 0 {
				fmt.Fprintln(out, "No products found.")
			} else {
				writeProducts(out, products)
			}
			c.printLink(cmd)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name; \"All\" clears it")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "subcategory within the category")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name prefix")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear every filter before applying flags")
	return cmd
}

func newProductCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := c.app.Catalog.Get(c.ctx(cmd), id)
			if err != nil {
				return userError(err)
			}
			writeProduct(cmd.OutOrStdout(), product)
			return nil
		},
	}
}

func newCategoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their subcategories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			categories := c.app.Filter.Categories()
			if len(categories) == 0 {
				fmt.Fprintln(out, "No categories available.")
				return nil
			}
			for _, category := range categories {
				fmt.Fprintf(out, "%s", category.Name)
				if category.Description != "" {
					fmt.Fprintf(out, " - %s", category.Description)
				}
				fmt.Fprintln(out)
				for _, sub := range c.app.Filter.Subcategories(category.Name) {
					fmt.Fprintf(out, "  %s\n", sub.Name)
				}
			}
			return nil
		},
	}
}

func writeProducts(out io.Writer, products []shopapi.Product) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tSUBCATEGORY")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t$%s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), stockLabel(p.InventoryCount), p.Subcategory)
	}
	_ = tw.Flush()
}

func writeProduct(out io.Writer, p *shopapi.Product) {
	fmt.Fprintf(out, "%s (#%d)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Fprintf(out, "%s\n", p.Description)
	}
	fmt.Fprintf(out, "Price: $%s\n", p.Price.StringFixed(2))
	fmt.Fprintf(out, "Inventory: %s\n", stockLabel(p.InventoryCount))
	fmt.Fprintf(out, "Sizes: %s\n", listOrNA(p.AvailableSizes))
	fmt.Fprintf(out, "Colors: %s\n", listOrNA(p.AvailableColors))
	if p.ImageURL != "" {
		fmt.Fprintf(out, "Image: %s\n", p.ImageURL)
	}
}

func stockLabel(count int) string {
	switch {
	case count <= 0:
		return "out of stock"
	case count < 5:
		return fmt.Sprintf("only %d left", count)
	default:
		return strconv.Itoa(count)
	}
}

func listOrNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return id, nil
}
