package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"devsecrets/internal/crypto"
	"devsecrets/internal/util/memzero"
)

// keygen: print a random master key for the static-key and derived-key profiles.
func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a random master key (hex)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.GenerateMasterKey()
			if err != nil {
				return err
			}
			defer memzero.Zero(key)
			fmt.Fprintln(cmd.OutOrStdout(), crypto.EncodeKey(key))
			return nil
		},
	}
}
