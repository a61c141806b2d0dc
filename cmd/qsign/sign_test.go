package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/remiblancher/qsign/pkg/codec"
)

// =============================================================================
// Sign / Verify Tests
// =============================================================================

func TestU_SignVerify_RoundTrip(t *testing.T) {
	tc := newTestContext(t)
	privPath, pubPath := tc.writeKeyPair()

	tests := []struct {
		name string
		args []string
	}{
		{"[Unit] SignVerify: defaults", nil},
		{"[Unit] SignVerify: PSS", []string{"--scheme", "pss"}},
		{"[Unit] SignVerify: SHA-512 base64", []string{"--hash", "sha512", "--encoding", "base64"}},
		{"[Unit] SignVerify: SHA-1", []string{"--hash", "sha1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommandSplit(rootCmd, "",
				append([]string{"sign", "--key", privPath, "--text", "attack at dawn"}, tt.args...)...)
			assertNoError(t, err)
			sig := strings.TrimSpace(stdout)
			if sig == "" {
				t.Fatal("empty signature")
			}

			stdout, _, err = executeCommandSplit(rootCmd, "",
				append([]string{"verify", "--key", pubPath, "--signature", sig, "--text", "attack at dawn"}, tt.args...)...)
			assertNoError(t, err)
			if strings.TrimSpace(stdout) != "valid" {
				t.Errorf("verify output = %q, want valid", stdout)
			}

			stdout, _, err = executeCommandSplit(rootCmd, "",
				append([]string{"verify", "--key", pubPath, "--signature", sig, "--text", "attack at dusk"}, tt.args...)...)
			if !errors.Is(err, errSignatureInvalid) {
				t.Errorf("verify error = %v, want errSignatureInvalid", err)
			}
			if strings.TrimSpace(stdout) != "invalid" {
				t.Errorf("verify output = %q, want invalid", stdout)
			}
		})
	}
}

func TestU_Sign_HexSignatureLength(t *testing.T) {
	tc := newTestContext(t)
	privPath, _ := tc.writeKeyPair()

	stdout, _, err := executeCommandSplit(rootCmd, "", "sign", "--key", privPath, "--text", "attack at dawn")
	assertNoError(t, err)

	sig := strings.TrimSpace(stdout)
	if len(sig) != 256 {
		t.Errorf("signature length = %d, want 256 hex chars", len(sig))
	}
	if _, err := codec.HexToBytes(sig); err != nil {
		t.Errorf("signature is not hex: %v", err)
	}
}

func TestU_Sign_Input(t *testing.T) {
	tc := newTestContext(t)
	privPath, pubPath := tc.writeKeyPair()
	msgPath := tc.writeFile("message.txt", "attack at dawn")

	t.Run("[Unit] Sign: file and text agree", func(t *testing.T) {
		fromFile, _, err := executeCommandSplit(rootCmd, "", "sign", "--key", privPath, "--in", msgPath)
		assertNoError(t, err)
		fromText, _, err := executeCommandSplit(rootCmd, "", "sign", "--key", privPath, "--text", "attack at dawn")
		assertNoError(t, err)

		// PKCS#1 v1.5 is deterministic.
		if fromFile != fromText {
			t.Errorf("signature over file differs from signature over text")
		}
	})

	t.Run("[Unit] Sign: stdin", func(t *testing.T) {
		stdout, _, err := executeCommandSplit(rootCmd, "attack at dawn", "sign", "--key", privPath)
		assertNoError(t, err)

		out, _, err := executeCommandSplit(rootCmd, "", "verify", "--key", pubPath,
			"--signature", strings.TrimSpace(stdout), "--in", msgPath)
		assertNoError(t, err)
		if strings.TrimSpace(out) != "valid" {
			t.Errorf("verify output = %q, want valid", out)
		}
	})

	t.Run("[Unit] Sign: text and in are exclusive", func(t *testing.T) {
		_, err := executeCommand(rootCmd, "sign", "--key", privPath, "--text", "a", "--in", msgPath)
		assertError(t, err)
	})

	t.Run("[Unit] Sign: empty message", func(t *testing.T) {
		_, err := executeCommand(rootCmd, "sign", "--key", privPath)
		assertNoError(t, err)
	})
}

func TestU_Sign_Errors(t *testing.T) {
	tc := newTestContext(t)
	privPath, pubPath := tc.writeKeyPair()

	tests := []struct {
		name string
		args []string
	}{
		{"[Unit] Sign: missing key flag", []string{"sign", "--text", "x"}},
		{"[Unit] Sign: missing key file", []string{"sign", "--key", tc.path("missing.pem"), "--text", "x"}},
		{"[Unit] Sign: public key", []string{"sign", "--key", pubPath, "--text", "x"}},
		{"[Unit] Sign: unsupported encoding", []string{"sign", "--key", privPath, "--text", "x", "--encoding", "base32"}},
		{"[Unit] Sign: digest-only hash", []string{"sign", "--key", privPath, "--text", "x", "--hash", "sha3-256"}},
		{"[Unit] Sign: modulus mismatch", []string{"sign", "--key", privPath, "--text", "x", "--modulus", "2048"}},
		{"[Unit] Verify: missing signature flag", []string{"verify", "--key", pubPath, "--text", "x"}},
		{"[Unit] Verify: private key", []string{"verify", "--key", privPath, "--signature", "00", "--text", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(rootCmd, tt.args...)
			assertError(t, err)
			if errors.Is(err, errSignatureInvalid) {
				t.Errorf("error = %v, want a usage or key error", err)
			}
		})
	}
}

func TestU_Verify_UndecodableSignature(t *testing.T) {
	tc := newTestContext(t)
	_, pubPath := tc.writeKeyPair()

	stdout, _, err := executeCommandSplit(rootCmd, "", "verify", "--key", pubPath,
		"--signature", "not-hex!", "--text", "attack at dawn")
	if !errors.Is(err, errSignatureInvalid) {
		t.Errorf("error = %v, want errSignatureInvalid", err)
	}
	if strings.TrimSpace(stdout) != "invalid" {
		t.Errorf("output = %q, want invalid", stdout)
	}
}
