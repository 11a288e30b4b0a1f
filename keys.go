// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-tally/auth"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 key and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, addr, err := auth.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "private_key: %s\naddress:     %s\n", priv, addr.Hex())
			return nil
		},
	}
}

func newSignCmd() *cobra.Command {
	var key, method, path, body string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the " + auth.SignatureHeader + " value for a request",
		Example: `  quickly-tally sign --key $KEY --path /votes --body '{"candidate":1}'
  quickly-tally sign --key $KEY --path /registration/close`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return errors.New("--key is required")
			}
			if path == "" {
				return errors.New("--path is required")
			}

			k, err := auth.LoadKey(key)
			if err != nil {
				return err
			}
			sig, err := auth.SignRequest(k, method, path, []byte(body))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "hex private key")
	cmd.Flags().StringVar(&method, "method", "POST", "HTTP method")
	cmd.Flags().StringVar(&path, "path", "", "request path, e.g. /votes")
	cmd.Flags().StringVar(&body, "body", "", "exact request body")
	return cmd
}
