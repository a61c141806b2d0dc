package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/pkg/codec"
	"github.com/remiblancher/qsign/pkg/crypto"
)

var hexCmd = &cobra.Command{
	Use:   "hex",
	Short: "Hex encode or decode",
	Long: `Convert between raw bytes and lowercase hex.

decode accepts upper or lower case and rejects odd lengths and non-hex
characters.`,
}

var hexEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode input as lowercase hex",
	RunE:  runHexEncode,
}

var hexDecodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode hex input to raw bytes",
	RunE:  runHexDecode,
}

var randCmd = &cobra.Command{
	Use:   "rand",
	Short: "Print random base64 text",
	Long: `Print the base64 encoding of a random number of random bytes, for use as
throwaway sign/verify input.

Examples:
  qsign rand
  qsign rand --min 16 --max 16`,
	RunE: runRand,
}

var (
	hexEncodeInput inputFlags
	hexDecodeInput inputFlags

	randMin int
	randMax int
)

func init() {
	hexEncodeInput.register(hexEncodeCmd)
	hexDecodeInput.register(hexDecodeCmd)
	hexCmd.AddCommand(hexEncodeCmd)
	hexCmd.AddCommand(hexDecodeCmd)

	randCmd.Flags().IntVar(&randMin, "min", crypto.DefaultRandomMin, "Minimum number of random bytes")
	randCmd.Flags().IntVar(&randMax, "max", crypto.DefaultRandomMax, "Maximum number of random bytes")
}

func runHexEncode(cmd *cobra.Command, args []string) error {
	data, err := hexEncodeInput.read(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), codec.BytesToHex([]byte(data)))
	return nil
}

func runHexDecode(cmd *cobra.Command, args []string) error {
	data, err := hexDecodeInput.read(cmd)
	if err != nil {
		return err
	}
	raw, err := codec.HexToBytes(strings.TrimSpace(data))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(raw)
	return err
}

func runRand(cmd *cobra.Command, args []string) error {
	s, err := crypto.RandomText(randMin, randMax)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}
