package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/pkg/shopapi"
)

func newLoginCmd(c *cli) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in; the session is kept for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Session.Login(c.ctx(cmd), args[0], password)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", res.Data.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Session.Logout(c.ctx(cmd))
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newRegisterCmd(c *cli) *cobra.Command {
	var req shopapi.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Session.Register(c.ctx(cmd), req)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are signed in.\n", res.Data.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "username, at most 15 characters")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&req.Address, "address", "", "default shipping address")
	return cmd
}

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := c.app.Session.User()
			if !ok {
				return notSignedIn(c)
			}
			writeUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	cmd.AddCommand(newProfileUpdateCmd(c))
	return cmd
}

func newProfileUpdateCmd(c *cli) *cobra.Command {
	var username, email, address, password string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; omitted flags are left untouched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req shopapi.UpdateUserRequest
			flags := cmd.Flags()
			if flags.Changed("username") {
				req.Username = &username
			}
			if flags.Changed("email") {
				req.Email = &email
			}
			if flags.Changed("address") {
				req.Address = &address
			}
			if flags.Changed("password") {
				req.Password = &password
			}

			res := c.app.Session.UpdateProfile(c.ctx(cmd), req)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			writeUser(cmd.OutOrStdout(), *res.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&address, "address", "", "new shipping address")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func newOrdersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show the signed-in user's order history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := c.app.Orders.History(c.ctx(cmd))
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			if len(orders) == 0 {
				fmt.Fprintln(out, "No orders yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tSTATUS\tITEMS\tTOTAL\tPLACED")
			for _, o := range orders {
				count := 0
				for _, item := range o.Items {
					count += item.Quantity
				}
				fmt.Fprintf(tw, "#%d\t%s\t%d\t$%s\t%s\n", o.ID, o.Status, count, o.TotalAmount.StringFixed(2), o.CreatedAt)
			}
			return tw.Flush()
		},
	}
}

func writeUser(out io.Writer, user shopapi.User) {
	fmt.Fprintf(out, "Username: %s\n", user.Username)
	fmt.Fprintf(out, "Email: %s\n", user.Email)
	address := user.Address
	if address == "" {
		address = "(none)"
	}
	fmt.Fprintf(out, "Address: %s\n", address)
}

// notSignedIn prefers the recorded session check failure over the generic message.
func notSignedIn(c *cli) error {
	if msg := c.app.Session.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("not signed in")
}
