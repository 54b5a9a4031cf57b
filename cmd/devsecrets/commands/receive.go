package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
	"devsecrets/internal/util/memzero"
)

// receive: poll the queue and print messages until interrupted.
func receiveCmd(o *options) *cobra.Command {
	var (
		kf    keyFlags
		count int
	)
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Print incoming messages until interrupted",
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
			case domain.ProfileStaticKey:
				var key []byte
				if kf.key == "" && kf.passphrase == "" {
					if key, err = crypto.GenerateMasterKey(); err != nil {
						return err
					}
					fmt.Fprintf(con.out, "Share this key with the sender: %s\n", crypto.EncodeKey(key))
				} else if key, err = masterKey(w, kf, con); err != nil {
					return err
				}
				if err := establishShared(sess, key); err != nil {
					return err
				}
			case domain.ProfileDerivedKey:
				key, err := masterKey(w, kf, con)
				if err != nil {
					return err
				}
				if err := establishShared(sess, key); err != nil {
					return err
				}
			case domain.ProfileDerivedKeyWithAgreement:
				kp, err := crypto.GenerateKeyPair()
				if err != nil {
					return err
				}
				fmt.Fprintf(con.out, "Your public key: %s\n", kp.Public)
				peer, err := peerKey(kf, con, "Enter the sender's public key: ")
				if err != nil {
					kp.Destroy()
					return err
				}
				if err := sess.EstablishViaAgreement(kp, peer); err != nil {
					return err
				}
				fmt.Fprintf(con.out, "Sender fingerprint: %s\n", crypto.Fingerprint(peer.Slice()))
			}

			a := w.Bind(sess)
			defer a.Close()

			if addr := w.Config.MetricsAddr; addr != "" {
				srv := &http.Server{Addr: addr, Handler: promhttp.Handler()}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						w.Log.WithError(err).Error("metrics server stopped")
					}
				}()
				defer srv.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			fmt.Fprintln(con.out, "Waiting for messages. Press Ctrl+C to quit.")
			received := 0
			return a.Receiver.Run(ctx, w.Config.PollInterval, func(in domain.Inbound, err error) {
				render(con.out, in, err)
				memzero.Zero(in.Plaintext)
				if err == nil || errors.Is(err, domain.ErrTampered) || errors.Is(err, domain.ErrFormat) {
					received++
					if count > 0 && received >= count {
						cancel()
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&kf.key, "key", "", "shared master key (hex)")
	cmd.Flags().StringVar(&kf.passphrase, "passphrase", "", "derive the master key from a shared passphrase")
	cmd.Flags().StringVar(&kf.peer, "peer", "", "sender's public key (derived-key-agreement)")
	cmd.Flags().DurationVar(&o.pollInterval, "poll-interval", 0, "wait between polls of an empty queue (overrides poll_interval, default 250ms)")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics_addr)")
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many deliveries, discarded ones included (0 runs until interrupted)")
	return cmd
}

// render prints one receive outcome.
func render(out io.Writer, in domain.Inbound, err error) {
	switch {
	case errors.Is(err, domain.ErrTampered):
		if in.Classification != domain.Unsequenced {
			fmt.Fprintf(out, "!! ALERT: message #%d (%s) was tampered with and was discarded\n", in.Counter, in.DeliveryID)
			return
		}
		fmt.Fprintf(out, "!! ALERT: message %s was tampered with and was discarded\n", in.DeliveryID)
		return
	case errors.Is(err, domain.ErrFormat):
		fmt.Fprintf(out, "! Skipped malformed message %s\n", in.DeliveryID)
		return
	case err != nil:
		fmt.Fprintf(out, "! Receive failed: %v\n", err)
		return
	}

	stamp := in.InsertedAt.Local().Format(time.DateTime)
	if in.Classification == domain.Unsequenced {
		fmt.Fprintf(out, "[%s] %s\n  %s\n", stamp, in.DeliveryID, in.Plaintext)
		return
	}
	switch in.Classification {
	case domain.ReplayOrLate:
		fmt.Fprintf(out, "! Serial number %d too low (expected %d): replayed or late message\n", in.Counter, in.Expected)
	case domain.Gap:
		fmt.Fprintf(out, "! Serial number %d too high (expected %d): %d message(s) missing or delayed\n",
			in.Counter, in.Expected, uint64(in.Counter)-in.Expected)
	}
	fmt.Fprintf(out, "[%s] %s #%d\n  %s\n", stamp, in.DeliveryID, in.Counter, in.Plaintext)
}
