package crypto

import (
	"crypto"
	"sync"
	"testing"
)

// testSpec is the spec used by most tests. 1024-bit keys keep the suite fast.
var testSpec = AlgorithmSpec{ModulusLength: 1024}.WithDefaults()

var (
	testKeyOnce sync.Once
	testKeyPEM  *PEMKeyPair
	testKeyErr  error
)

// testKeyPair returns a 1024-bit key pair shared across the package tests.
func testKeyPair(t *testing.T) *PEMKeyPair {
	t.Helper()
	testKeyOnce.Do(func() {
		testKeyPEM, testKeyErr = GenerateKeyPairPEM(testSpec)
	})
	if testKeyErr != nil {
		t.Fatalf("GenerateKeyPairPEM() error = %v", testKeyErr)
	}
	return testKeyPEM
}

func testSigningKey(t *testing.T) *SigningKey {
	t.Helper()
	key, err := ImportSigningKey(testKeyPair(t).PrivateKey, testSpec)
	if err != nil {
		t.Fatalf("ImportSigningKey() error = %v", err)
	}
	return key
}

func testVerificationKey(t *testing.T) *VerificationKey {
	t.Helper()
	key, err := ImportVerificationKey(testKeyPair(t).PublicKey, testSpec)
	if err != nil {
		t.Fatalf("ImportVerificationKey() error = %v", err)
	}
	return key
}

// fakeProvider is a Provider whose behavior is set per test. Unset hooks
// delegate to the software provider.
type fakeProvider struct {
	real *SoftwareProvider

	generateErr error
	hashBlock   chan struct{}
	hashCalls   int
	mu          sync.Mutex
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{real: NewSoftwareProvider()}
}

func (f *fakeProvider) GenerateKey(spec AlgorithmSpec) ([]byte, []byte, error) {
	if f.generateErr != nil {
		return nil, nil, f.generateErr
	}
	return f.real.GenerateKey(spec)
}

func (f *fakeProvider) ImportPrivateKey(der []byte, spec AlgorithmSpec) (crypto.PrivateKey, error) {
	return f.real.ImportPrivateKey(der, spec)
}

func (f *fakeProvider) ImportPublicKey(der []byte, spec AlgorithmSpec) (crypto.PublicKey, error) {
	return f.real.ImportPublicKey(der, spec)
}

func (f *fakeProvider) Sign(priv crypto.PrivateKey, spec AlgorithmSpec, message []byte) ([]byte, error) {
	return f.real.Sign(priv, spec, message)
}

func (f *fakeProvider) Verify(pub crypto.PublicKey, spec AlgorithmSpec, message, signature []byte) (bool, error) {
	return f.real.Verify(pub, spec, message, signature)
}

func (f *fakeProvider) Hash(alg HashAlgorithm, message []byte) ([]byte, error) {
	f.mu.Lock()
	f.hashCalls++
	block := f.hashBlock
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.real.Hash(alg, message)
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hashCalls
}
