package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const passwordEnv = "DRIVER_PASSWORD"

var errNoPassword = errors.New("no password given: use --password-stdin, " + passwordEnv + " or --password")

func createDriverCmd() *cobra.Command {
	var (
		username  string
		password  string
		pwStdin   bool
		firstName string
		lastName  string
		license   string
	)

	cmd := &cobra.Command{
		Use:   "create-driver",
		Short: "Register a driver account that can log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			pw, err := resolvePassword(password, pwStdin, cmd.InOrStdin())
			if err != nil {
				return err
			}

			pgStore, svc, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer pgStore.Close()

			d, errs, err := svc.Driver().Register(ctx, url.Values{
				"username":       {username},
				"password1":      {pw},
				"password2":      {pw},
				"first_name":     {firstName},
				"last_name":      {lastName},
				"license_number": {license},
			})
			if err != nil {
				return err
			}
			if !errs.Valid() {
				var b strings.Builder
				for _, field := range errs.Fields() {
					for _, msg := range errs[field] {
						fmt.Fprintf(&b, "\n  %s: %s", field, msg)
					}
				}
				return fmt.Errorf("invalid driver:%s", b.String())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created driver %s (id %d)\n", d, d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "account password (prefer --password-stdin or "+passwordEnv+")")
	cmd.Flags().BoolVar(&pwStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&license, "license", "", "license number, e.g. ABC12345")
	for _, name := range []string{"username", "first-name", "last-name", "license"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// resolvePassword picks the password from stdin, then the flag, then the
// environment, so it need not appear in argv.
func resolvePassword(flagValue string, fromStdin bool, stdin io.Reader) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", errNoPassword
		}
		return line, nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(passwordEnv); v != "" {
		return v, nil
	}
	return "", errNoPassword
}
