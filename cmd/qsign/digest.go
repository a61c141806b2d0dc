package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/pkg/crypto"
)

var digestCmd = &cobra.Command{
	Use:     "digest",
	Aliases: []string{"hash"},
	Short:   "Compute message digests",
	Long: `Hash the UTF-8 bytes of the input.

With one algorithm the digest alone is printed. With several, each line is
"<ALGORITHM>  <digest>", computed concurrently.

Algorithms: sha1, sha256 (default), sha384, sha512, sha512-256,
sha3-256, sha3-384, sha3-512, blake2b-256, blake2b-512

Examples:
  qsign digest --text hello
  qsign digest --algorithm sha256,sha3-256 --in file.bin --encoding base64`,
	RunE: runDigest,
}

var (
	digestInput      inputFlags
	digestAlgorithms []string
	digestEncoding   string
)

func init() {
	digestInput.register(digestCmd)
	digestCmd.Flags().StringSliceVarP(&digestAlgorithms, "algorithm", "a", nil, "Digest algorithm(s), comma separated")
	digestCmd.Flags().StringVarP(&digestEncoding, "encoding", "e", "", "Output encoding: hex, base64")
}

func runDigest(cmd *cobra.Command, args []string) error {
	enc, err := parseEncoding(digestEncoding)
	if err != nil {
		return err
	}
	data, err := digestInput.read(cmd)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(digestAlgorithms) <= 1 {
		var alg string
		if len(digestAlgorithms) == 1 {
			alg = digestAlgorithms[0]
		}
		d, err := svc.Digest(cmd.Context(), data, alg, enc)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, d)
		return nil
	}

	digests, err := svc.DigestMany(cmd.Context(), data, digestAlgorithms, enc)
	if err != nil {
		return err
	}
	algs := make([]crypto.HashAlgorithm, 0, len(digests))
	for alg := range digests {
		algs = append(algs, alg)
	}
	slices.Sort(algs)
	for _, alg := range algs {
		fmt.Fprintf(out, "%s  %s\n", alg, digests[alg])
	}
	return nil
}
