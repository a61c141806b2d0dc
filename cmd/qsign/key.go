package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/pkg/crypto"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Key management commands",
	Long:  `Commands for generating and inspecting RSA keys.`,
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate an RSA key pair",
	Long: `Generate a new RSA key pair.

The pair is re-imported under the requested algorithm before it is written,
so a key that is printed can always be used to sign and verify.

Without --out-private/--out-public both PEMs are printed to stdout.

Examples:
  # Default 4096-bit key, printed
  qsign key gen

  # 2048-bit PSS key, written to files
  qsign key gen --modulus 2048 --scheme pss --out-private key.pem --out-public key.pub`,
	RunE: runKeyGen,
}

var keyPubCmd = &cobra.Command{
	Use:   "pub",
	Short: "Extract public key from private key",
	Long: `Extract the PUBLIC KEY PEM from a PRIVATE KEY PEM.

Examples:
  qsign key pub --key key.pem --out key.pub`,
	RunE: runKeyPub,
}

var keyInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display information about a key",
	Long: `Display the kind, modulus length, public exponent and SHA-256
fingerprint of a PEM key.

Examples:
  qsign key info --key key.pem
  qsign key info --key key.pub --public`,
	RunE: runKeyInfo,
}

var (
	keyGenAlg        algorithmFlags
	keyGenOutPrivate string
	keyGenOutPublic  string

	keyPubKey string
	keyPubOut string

	keyInfoKey    string
	keyInfoPublic bool
)

func init() {
	keyCmd.AddCommand(keyGenCmd)
	keyCmd.AddCommand(keyPubCmd)
	keyCmd.AddCommand(keyInfoCmd)

	// gen flags
	keyGenAlg.register(keyGenCmd)
	keyGenCmd.Flags().StringVar(&keyGenOutPrivate, "out-private", "", "Private key output file")
	keyGenCmd.Flags().StringVar(&keyGenOutPublic, "out-public", "", "Public key output file")

	// pub flags
	keyPubCmd.Flags().StringVarP(&keyPubKey, "key", "k", "", "Input private key file (required)")
	keyPubCmd.Flags().StringVarP(&keyPubOut, "out", "o", "", "Output public key file (default: stdout)")
	_ = keyPubCmd.MarkFlagRequired("key")

	// info flags
	keyInfoCmd.Flags().StringVarP(&keyInfoKey, "key", "k", "", "Key file (required)")
	keyInfoCmd.Flags().BoolVar(&keyInfoPublic, "public", false, "The key is a PUBLIC KEY PEM")
	_ = keyInfoCmd.MarkFlagRequired("key")
}

func runKeyGen(cmd *cobra.Command, args []string) error {
	spec, err := keyGenAlg.spec()
	if err != nil {
		return fmt.Errorf("invalid algorithm: %w", err)
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	spec = svc.Resolve(spec)

	out := cmd.OutOrStdout()
	if keyGenOutPrivate != "" || keyGenOutPublic != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Generating %s key pair...\n", spec)
	}

	pair, err := svc.GenerateKeyPairPEM(cmd.Context(), spec)
	if err != nil {
		return err
	}

	if keyGenOutPrivate != "" {
		if err := writeFile(keyGenOutPrivate, pair.PrivateKey+"\n", 0600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Private key saved to: %s\n", keyGenOutPrivate)
	} else {
		fmt.Fprintln(out, pair.PrivateKey)
	}

	if keyGenOutPublic != "" {
		if err := writeFile(keyGenOutPublic, pair.PublicKey+"\n", 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Public key saved to: %s\n", keyGenOutPublic)
	} else {
		fmt.Fprintln(out, pair.PublicKey)
	}
	return nil
}

func runKeyPub(cmd *cobra.Command, args []string) error {
	privatePEM, err := readKeyFile(keyPubKey)
	if err != nil {
		return err
	}

	publicPEM, err := crypto.PublicKeyPEM(privatePEM)
	if err != nil {
		return err
	}

	if keyPubOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), publicPEM)
		return nil
	}
	if err := writeFile(keyPubOut, publicPEM+"\n", 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Public key saved to: %s\n", keyPubOut)
	return nil
}

func runKeyInfo(cmd *cobra.Command, args []string) error {
	pemText, err := readKeyFile(keyInfoKey)
	if err != nil {
		return err
	}

	kind := crypto.PrivateKey
	if keyInfoPublic {
		kind = crypto.PublicKey
	}

	info, err := crypto.InspectKey(pemText, kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Kind:            %s\n", info.Kind.PEMLabel())
	fmt.Fprintf(out, "Modulus length:  %d bits\n", info.ModulusLength)
	fmt.Fprintf(out, "Public exponent: %d\n", info.PublicExponent)
	fmt.Fprintf(out, "Fingerprint:     %s\n", info.Fingerprint)
	return nil
}
