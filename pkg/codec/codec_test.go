package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// [Unit] Hex Codec Tests
// =============================================================================

func TestU_BytesToHex(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"[Unit] BytesToHex: empty", []byte{}, ""},
		{"[Unit] BytesToHex: zero byte is padded", []byte{0x00}, "00"},
		{"[Unit] BytesToHex: low nibble", []byte{0x0f}, "0f"},
		{"[Unit] BytesToHex: lowercase", []byte{0xde, 0xad, 0xBE, 0xEF}, "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BytesToHex(tt.in); got != tt.want {
				t.Errorf("BytesToHex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestU_HexToBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"[Unit] HexToBytes: empty", "", []byte{}, false},
		{"[Unit] HexToBytes: 0x prefix only", "0x", []byte{}, false},
		{"[Unit] HexToBytes: lowercase", "00ff10", []byte{0x00, 0xff, 0x10}, false},
		{"[Unit] HexToBytes: uppercase", "ABCDEF", []byte{0xab, 0xcd, 0xef}, false},
		{"[Unit] HexToBytes: 0x prefix", "0xdead", []byte{0xde, 0xad}, false},
		{"[Unit] HexToBytes: odd length", "abc", nil, true},
		{"[Unit] HexToBytes: non-hex", "zz", nil, true},
		{"[Unit] HexToBytes: embedded space", "de ad", nil, true},
		{"[Unit] HexToBytes: 0X is not a prefix", "0Xab", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToBytes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HexToBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedEncoding) {
					t.Errorf("error %v is not ErrMalformedEncoding", err)
				}
				return
			}
			if got == nil {
				t.Fatal("HexToBytes() returned nil slice")
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("HexToBytes() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestU_Hex_RoundTrip_AllBytes(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	got, err := HexToBytes(BytesToHex(all))
	if err != nil {
		t.Fatalf("HexToBytes() error = %v", err)
	}
	if !bytes.Equal(got, all) {
		t.Error("round trip mismatch")
	}
}

// =============================================================================
// [Unit] PEM Codec Tests
// =============================================================================

func TestU_EncodePEM_SingleLine(t *testing.T) {
	pemText := EncodePEM([]byte{1, 2, 3}, LabelPublicKey)
	want := "-----BEGIN PUBLIC KEY-----AQID-----END PUBLIC KEY-----"
	if pemText != want {
		t.Errorf("EncodePEM() = %q, want %q", pemText, want)
	}
	if strings.ContainsAny(pemText, "\r\n") {
		t.Error("EncodePEM() output contains line breaks")
	}
}

func TestU_DecodePEM_RoundTrip(t *testing.T) {
	der := bytes.Repeat([]byte{0x30, 0x82, 0x01, 0xff}, 100)
	for _, label := range []string{LabelPrivateKey, LabelPublicKey} {
		t.Run("[Unit] DecodePEM: "+label, func(t *testing.T) {
			got, err := DecodePEM(EncodePEM(der, label), label)
			if err != nil {
				t.Fatalf("DecodePEM() error = %v", err)
			}
			if !bytes.Equal(got, der) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestU_DecodePEM_WrappedBody(t *testing.T) {
	der := bytes.Repeat([]byte("key material "), 40)
	single := EncodePEM(der, LabelPrivateKey)

	for _, width := range []int{64, 76} {
		for _, eol := range []string{"\n", "\r\n"} {
			wrapped := wrapPEM(single, LabelPrivateKey, width, eol)
			got, err := DecodePEM(wrapped, LabelPrivateKey)
			if err != nil {
				t.Fatalf("DecodePEM(width=%d) error = %v", width, err)
			}
			if !bytes.Equal(got, der) {
				t.Errorf("DecodePEM(width=%d) mismatch", width)
			}
		}
	}
}

func TestU_DecodePEM_SurroundingBlanks(t *testing.T) {
	der := []byte{0x30, 0x03, 0x02, 0x01, 0x05}
	single := EncodePEM(der, LabelPublicKey)

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"[Unit] DecodePEM: leading and trailing spaces", "  " + single + " ", false},
		{"[Unit] DecodePEM: tabs around wrapped text", "\t" + wrapPEM(single, LabelPublicKey, 4, "\n") + "\t", false},
		{"[Unit] DecodePEM: space inside body", strings.Replace(single, "-----BEGIN PUBLIC KEY-----", "-----BEGIN PUBLIC KEY----- ", 1), true},
		{"[Unit] DecodePEM: space inside header", strings.Replace(single, "BEGIN PUBLIC", "BEGIN  PUBLIC", 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePEM(tt.text, LabelPublicKey)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedEncoding) {
					t.Errorf("DecodePEM() error = %v, want ErrMalformedEncoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePEM() error = %v", err)
			}
			if !bytes.Equal(got, der) {
				t.Error("DecodePEM() mismatch")
			}
		})
	}
}

func TestU_DecodePEM_Errors(t *testing.T) {
	pubPEM := EncodePEM([]byte{1, 2, 3, 4}, LabelPublicKey)

	tests := []struct {
		name  string
		text  string
		label string
	}{
		{"[Unit] DecodePEM: public fed to private", pubPEM, LabelPrivateKey},
		{"[Unit] DecodePEM: empty", "", LabelPublicKey},
		{"[Unit] DecodePEM: missing footer", PEMHeader(LabelPublicKey) + "AQID", LabelPublicKey},
		{"[Unit] DecodePEM: missing header", "AQID" + PEMFooter(LabelPublicKey), LabelPublicKey},
		{"[Unit] DecodePEM: bad base64", PEMHeader(LabelPublicKey) + "!!!" + PEMFooter(LabelPublicKey), LabelPublicKey},
		{"[Unit] DecodePEM: RSA label", strings.ReplaceAll(pubPEM, "PUBLIC KEY", "RSA PUBLIC KEY"), LabelPublicKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePEM(tt.text, tt.label)
			if !errors.Is(err, ErrMalformedEncoding) {
				t.Errorf("DecodePEM() error = %v, want ErrMalformedEncoding", err)
			}
		})
	}
}

// wrapPEM re-renders a single-line PEM with its body broken every width
// characters.
func wrapPEM(single, label string, width int, eol string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(single, PEMHeader(label)), PEMFooter(label))
	var sb strings.Builder
	sb.WriteString(PEMHeader(label))
	sb.WriteString(eol)
	for len(body) > width {
		sb.WriteString(body[:width])
		sb.WriteString(eol)
		body = body[width:]
	}
	sb.WriteString(body)
	sb.WriteString(eol)
	sb.WriteString(PEMFooter(label))
	sb.WriteString(eol)
	return sb.String()
}

// =============================================================================
// [Unit] Encoding Tests
// =============================================================================

func TestU_ParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", Hex, false},
		{"hex", Hex, false},
		{"HEX", Hex, false},
		{"base64", Base64, false},
		{"Base64", Base64, false},
		{"base32", "", true},
		{"utf8", "", true},
	}

	for _, tt := range tests {
		t.Run("[Unit] ParseEncoding: "+tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEncoding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedEncoding) {
				t.Errorf("error %v is not ErrUnsupportedEncoding", err)
			}
			if got != tt.want {
				t.Errorf("ParseEncoding() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestU_Encoding_EncodeDecode(t *testing.T) {
	data := []byte("attack at dawn")
	for _, enc := range []Encoding{Hex, Base64} {
		s, err := enc.Encode(data)
		if err != nil {
			t.Fatalf("%s.Encode() error = %v", enc, err)
		}
		got, err := enc.Decode(s)
		if err != nil {
			t.Fatalf("%s.Decode() error = %v", enc, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s round trip mismatch", enc)
		}
	}

	if _, err := Encoding("utf8").Encode(data); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("Encode(utf8) error = %v, want ErrUnsupportedEncoding", err)
	}
	if _, err := Base64.Decode("not base64!"); !errors.Is(err, ErrMalformedEncoding) {
		t.Errorf("Base64.Decode() error = %v, want ErrMalformedEncoding", err)
	}
}

// =============================================================================
// [Unit] Constant-Time Comparator Tests
// =============================================================================

func TestU_ConstantTimeEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"[Unit] CTEquals: both empty", []byte{}, []byte{}, true},
		{"[Unit] CTEquals: nil and empty", nil, []byte{}, true},
		{"[Unit] CTEquals: identical", []byte("secret-mac"), []byte("secret-mac"), true},
		{"[Unit] CTEquals: differ in first byte", []byte("xecret-mac"), []byte("secret-mac"), false},
		{"[Unit] CTEquals: differ in last byte", []byte("secret-mac"), []byte("secret-mad"), false},
		{"[Unit] CTEquals: differ only in length", []byte("secret"), []byte("secret-mac"), false},
		{"[Unit] CTEquals: prefix", []byte("secret-mac"), []byte("secret-ma"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConstantTimeEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("ConstantTimeEquals() = %v, want %v", got, tt.want)
			}
		})
	}
}
