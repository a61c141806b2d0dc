package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/pkg/codec"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// algorithmFlags are the per-command AlgorithmSpec overrides. Zero values
// fall back to the configuration.
type algorithmFlags struct {
	scheme   string
	hash     string
	modulus  int
	exponent int
}

func (f *algorithmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scheme, "scheme", "", "Signature scheme: pkcs1v15, pss")
	cmd.Flags().StringVar(&f.hash, "hash", "", "Signature hash: sha1, sha256, sha384, sha512")
	cmd.Flags().IntVar(&f.modulus, "modulus", 0, "RSA modulus length in bits")
	cmd.Flags().IntVar(&f.exponent, "public-exponent", 0, "RSA public exponent")
}

func (f *algorithmFlags) spec() (crypto.AlgorithmSpec, error) {
	return crypto.ParseAlgorithmSpec(f.scheme, f.hash, f.modulus, f.exponent)
}

// specForKey is spec() with the modulus and exponent taken from the key when
// not given on the command line.
func (f *algorithmFlags) specForKey(pemText string, kind crypto.KeyKind) (crypto.AlgorithmSpec, error) {
	spec, err := f.spec()
	if err != nil {
		return crypto.AlgorithmSpec{}, err
	}
	if spec.ModulusLength != 0 && spec.PublicExponent != 0 {
		return spec, nil
	}
	info, err := crypto.InspectKey(pemText, kind)
	if err != nil {
		return crypto.AlgorithmSpec{}, err
	}
	if spec.ModulusLength == 0 {
		spec.ModulusLength = info.ModulusLength
	}
	if spec.PublicExponent == 0 {
		spec.PublicExponent = info.PublicExponent
	}
	return spec, nil
}

// inputFlags select the message: --text, --in, or stdin when neither is set.
type inputFlags struct {
	text string
	in   string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "Input text")
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "Input file (default: stdin)")
}

func (f *inputFlags) read(cmd *cobra.Command) (string, error) {
	switch {
	case f.text != "" && f.in != "":
		return "", fmt.Errorf("--text and --in are mutually exclusive")
	case f.text != "":
		return f.text, nil
	case f.in != "":
		data, err := os.ReadFile(f.in)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// parseEncoding returns the --encoding value, or "" to use the configured
// default.
func parseEncoding(s string) (codec.Encoding, error) {
	if s == "" {
		return "", nil
	}
	return codec.ParseEncoding(s)
}

// readKeyFile reads a PEM key file.
func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return string(data), nil
}

// writeFile writes data to path with the given permissions.
func writeFile(path, data string, perm os.FileMode) error {
	if err := os.WriteFile(path, []byte(data), perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
