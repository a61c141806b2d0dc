package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/pkg/crypto"
)

// errSignatureInvalid makes verify exit 1 after printing "invalid".
var errSignatureInvalid = errors.New("signature is invalid")

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign text with a private key",
	Long: `Sign the UTF-8 bytes of the input with a PRIVATE KEY PEM and print the
signature.

The modulus length and exponent default to the key's own.

Examples:
  qsign sign --key key.pem --text "attack at dawn"
  qsign sign --key key.pem --in message.txt --encoding base64 --scheme pss`,
	RunE: runSign,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature with a public key",
	Long: `Verify a signature over the input with a PUBLIC KEY PEM.

Prints "valid" or "invalid" and exits 1 when invalid. A signature that does
not decode under the chosen encoding is reported as invalid.

Examples:
  qsign verify --key key.pub --signature 3a9f... --text "attack at dawn"`,
	RunE: runVerify,
}

var (
	signAlg      algorithmFlags
	signInput    inputFlags
	signKey      string
	signEncoding string

	verifyAlg       algorithmFlags
	verifyInput     inputFlags
	verifyKey       string
	verifySignature string
	verifyEncoding  string
)

func init() {
	signAlg.register(signCmd)
	signInput.register(signCmd)
	signCmd.Flags().StringVarP(&signKey, "key", "k", "", "Private key file (required)")
	signCmd.Flags().StringVarP(&signEncoding, "encoding", "e", "", "Signature encoding: hex, base64")
	_ = signCmd.MarkFlagRequired("key")

	verifyAlg.register(verifyCmd)
	verifyInput.register(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyKey, "key", "k", "", "Public key file (required)")
	verifyCmd.Flags().StringVarP(&verifySignature, "signature", "s", "", "Encoded signature (required)")
	verifyCmd.Flags().StringVarP(&verifyEncoding, "encoding", "e", "", "Signature encoding: hex, base64")
	_ = verifyCmd.MarkFlagRequired("key")
	_ = verifyCmd.MarkFlagRequired("signature")
}

func runSign(cmd *cobra.Command, args []string) error {
	enc, err := parseEncoding(signEncoding)
	if err != nil {
		return err
	}
	privatePEM, err := readKeyFile(signKey)
	if err != nil {
		return err
	}
	spec, err := signAlg.specForKey(privatePEM, crypto.PrivateKey)
	if err != nil {
		return err
	}
	data, err := signInput.read(cmd)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	sig, err := svc.SignPEM(cmd.Context(), data, privatePEM, spec, enc)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), sig)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	enc, err := parseEncoding(verifyEncoding)
	if err != nil {
		return err
	}
	publicPEM, err := readKeyFile(verifyKey)
	if err != nil {
		return err
	}
	spec, err := verifyAlg.specForKey(publicPEM, crypto.PublicKey)
	if err != nil {
		return err
	}
	data, err := verifyInput.read(cmd)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	valid, err := svc.VerifyPEM(cmd.Context(), publicPEM, verifySignature, data, spec, enc)
	if err != nil {
		return err
	}

	if !valid {
		fmt.Fprintln(cmd.OutOrStdout(), "invalid")
		return errSignatureInvalid
	}
	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}
