package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/internal/app"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// rootOptions lets tests inject collaborators the commands would otherwise build from the environment.
type rootOptions struct {
	App    app.Options
	Stdout io.Writer
	Stderr io.Writer
}

// cli carries state shared by every subcommand for one invocation.
type cli struct {
	opts      rootOptions
	location  string
	publicURL string
	showLink  bool

	cfg  *config.Config
	logg *logger.Logger
	app  *app.App
}

// execute runs one invocation and always releases the app, even when the command failed.
func execute(ctx context.Context, opts rootOptions, args []string) error {
	root, c := newRootCmd(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return multierr.Append(err, c.close())
}

func newRootCmd(opts rootOptions) (*cobra.Command, *cli) {
	c := &cli{opts: opts}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the catalog, manage the cart and check out from the terminal",
		Long: `storefront is a terminal client for the storefront REST API.

The cart and the session cookie are kept in local storage between runs,
so "storefront cart add" followed by "storefront checkout" works across invocations.
The --at flag starts the listing from a shared link such as "/?category=Tops".`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
	}

	if opts.Stdout != nil {
		root.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		root.SetErr(opts.Stderr)
	}

	root.PersistentFlags().StringVar(&c.location, "at", "/", "location to start from, e.g. \"/?category=Tops&search=shirt\"")
	root.PersistentFlags().StringVar(&c.publicURL, "public-url", "http://localhost:3000", "storefront site used to render shareable links")
	root.PersistentFlags().BoolVar(&c.showLink, "link", false, "print a shareable link for the current listing")

	root.AddCommand(
		newProductsCmd(c),
		newProductCmd(c),
		newCategoriesCmd(c),
		newCartCmd(c),
		newCheckoutCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newRegisterCmd(c),
		newProfileCmd(c),
		newOrdersCmd(c),
		newStorageCmd(c),
	)
	return root, c
}

// loadConfig reads .env and the environment and builds the logger.
func (c *cli) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	stderr := c.opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	c.cfg = cfg
	c.logg = logger.FromConfig(cfg.App, logger.ComponentCLI, stderr)
	return nil
}

func (c *cli) open(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}

	appOpts := c.opts.App
	appOpts.Location = c.location
	a, err := app.New(cmd.Context(), c.cfg, c.logg, appOpts)
	if err != nil {
		return err
	}
	c.app = a
	c.app.Init(cmd.Context())
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (c *cli) printLink(cmd *cobra.Command) {
	if c.showLink && c.app != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nlink: %s\n", c.app.Location.Link(c.publicURL))
	}
}

// userError strips codes and causes so the terminal shows the same text a page would.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(pkgerrors.UserMessage(err))
}
