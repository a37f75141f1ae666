package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

func newCartCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the local cart",
	}
	cmd.AddCommand(
		newCartListCmd(c),
		newCartAddCmd(c),
		newCartSetCmd(c),
		newCartRemoveCmd(c),
		newCartClearCmd(c),
	)
	return cmd
}

func newCartListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show cart lines and totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeCart(cmd.OutOrStdout(), c.app.Cart)
			return nil
		},
	}
}

func newCartAddCmd(c *cli) *cobra.Command {
	var quantity int
	var size, color string

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long: `Add a product to the cart. Size and color default to the product's first option.
The line's total quantity is capped at the product's current inventory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := c.app.Catalog.Get(c.ctx(cmd), id)
			if err != nil {
				return userError(err)
			}

			size, err = pickOption("size", size, product.AvailableSizes)
			if err != nil {
				return err
			}
			color, err = pickOption("color", color, product.AvailableColors)
			if err != nil {
				return err
			}
			inCart, _ := c.app.Cart.Line(cart.LineKey{ProductID: product.ID, Size: size, Color: color})
			qty, err := capQuantity(product, inCart.Quantity, quantity)
			if err != nil {
				return err
			}

			if err := c.app.Cart.AddItem(c.ctx(cmd), *product, qty, size, color); err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %d x %s", qty, product.Name)
			if size != "" || color != "" {
				fmt.Fprintf(out, " (%s)", describeVariant(size, color))
			}
			fmt.Fprintln(out)
			writeTotals(out, c.app.Cart.Totals())
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")
	cmd.Flags().StringVar(&size, "size", "", "size option")
	cmd.Flags().StringVar(&color, "color", "", "color option")
	return cmd
}

func newCartSetCmd(c *cli) *cobra.Command {
	var size, color string

	cmd := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Replace the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			key := cart.LineKey{ProductID: id, Size: size, Color: color}
			if err := c.app.Cart.SetQuantity(c.ctx(cmd), key, qty); err != nil {
				return userError(err)
			}
			writeCart(cmd.OutOrStdout(), c.app.Cart)
			return nil
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "size of the line")
	cmd.Flags().StringVar(&color, "color", "", "color of the line")
	return cmd
}

func newCartRemoveCmd(c *cli) *cobra.Command {
	var size, color string

	cmd := &cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a cart line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c.app.Cart.RemoveItem(c.ctx(cmd), cart.LineKey{ProductID: id, Size: size, Color: color})
			writeCart(cmd.OutOrStdout(), c.app.Cart)
			return nil
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "size of the line")
	cmd.Flags().StringVar(&color, "color", "", "color of the line")
	return cmd
}

func newCartClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Cart.Clear(c.ctx(cmd))
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}
}

func newCheckoutCmd(c *cli) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Long: `Place an order for the cart. Without --address the signed-in user's
saved address is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Cart.Checkout(c.ctx(cmd), address)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			order := res.Data
			out := cmd.OutOrStdout()
			if order == nil {
				fmt.Fprintln(out, "Order placed.")
				return nil
			}
			fmt.Fprintf(out, "Order #%d placed (%s)\n", order.ID, order.Status)
			fmt.Fprintf(out, "Total: $%s\n", order.TotalAmount.StringFixed(2))
			fmt.Fprintf(out, "Ship to: %s\n", order.ShippingAddress)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "shipping address")
	return cmd
}

func writeCart(out io.Writer, store *cart.Store) {
	lines := store.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVARIANT\tQTY\tPRICE\tSUBTOTAL")
	for _, line := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t$%s\t$%s\n",
			line.ProductID, line.Name, describeVariant(line.Size, line.Color), line.Quantity,
			line.Price.StringFixed(2), line.Subtotal().StringFixed(2))
	}
	_ = tw.Flush()
	writeTotals(out, store.Totals())
}

func writeTotals(out io.Writer, totals cart.Totals) {
	fmt.Fprintf(out, "Items: %d  Total: $%s\n", totals.ItemCount, totals.TotalPrice.StringFixed(2))
}

func describeVariant(size, color string) string {
	switch {
	case size != "" && color != "":
		return size + "/" + color
	case size != "":
		return size
	case color != "":
		return color
	default:
		return "-"
	}
}

// pickOption defaults to the first option and rejects values the product does not offer.
func pickOption(name, value string, options []string) (string, error) {
	if len(options) == 0 {
		return value, nil
	}
	if value == "" {
		return options[0], nil
	}
	for _, option := range options {
		if option == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("%s %q is not available, choose one of %s", name, value, listOrNA(options))
}

// capQuantity limits an add so the merged line never exceeds the product's inventory.
func capQuantity(product *shopapi.Product, inCart, quantity int) (int, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("quantity must be at least 1")
	}
	if product.InventoryCount <= 0 {
		return 0, fmt.Errorf("%s is out of stock", product.Name)
	}
	remaining := product.InventoryCount - inCart
	if remaining <= 0 {
		return 0, fmt.Errorf("all %d of %s in stock are already in the cart", product.InventoryCount, product.Name)
	}
	if quantity > remaining {
		return remaining, nil
	}
	return quantity, nil
}
