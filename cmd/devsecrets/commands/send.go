package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
)

// send: read lines from stdin and send each one until an empty line.
func sendCmd(o *options) *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send lines from stdin as messages; an empty line quits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := o.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			con := console{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			sess, err := w.NewSession()
			if err != nil {
				return err
			}

			switch w.Profile {
			case domain.ProfileNone:
			case domain.ProfileDerivedKeyWithAgreement:
				peer, err := peerKey(kf, con, "Enter the receiver's public key: ")
				if err != nil {
					return err
				}
				kp, err := crypto.GenerateKeyPair()
				if err != nil {
					return err
				}
				fmt.Fprintf(con.out, "Your public key: %s\n", kp.Public)
				if err := sess.EstablishViaAgreement(kp, peer); err != nil {
					return err
				}
				fmt.Fprintf(con.out, "Receiver fingerprint: %s\n", crypto.Fingerprint(peer.Slice()))
			default:
				key, err := masterKey(w, kf, con)
				if err != nil {
					return err
				}
				if err := establishShared(sess, key); err != nil {
					return err
				}
			}

			a := w.Bind(sess)
			defer a.Close()

			fmt.Fprintln(con.out, "Type a message and press Enter. An empty line quits.")
			for {
				fmt.Fprint(con.out, "> ")
				line, err := con.readLine()
				if errors.Is(err, io.EOF) || (err == nil && strings.TrimSpace(line) == "") {
					return nil
				}
				if err != nil {
					return err
				}
				out, err := a.Sender.Send(cmd.Context(), []byte(line))
				if errors.Is(err, domain.ErrInvalidInput) {
					return err
				}
				if err != nil {
					fmt.Fprintf(con.out, "< Message #%d not sent: %v\n", out.Counter, err)
					continue
				}
				fmt.Fprintf(con.out, "< Message #%d sent\n", out.Counter)
			}
		},
	}
	cmd.Flags().StringVar(&kf.key, "key", "", "shared master key (hex)")
	cmd.Flags().StringVar(&kf.passphrase, "passphrase", "", "derive the master key from a shared passphrase")
	cmd.Flags().StringVar(&kf.peer, "peer", "", "receiver's public key (derived-key-agreement)")
	return cmd
}
