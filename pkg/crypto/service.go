package crypto

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/remiblancher/qsign/pkg/audit"
	"github.com/remiblancher/qsign/pkg/codec"
)

// Observer receives the duration and outcome of every Service operation.
type Observer interface {
	ObserveOperation(op string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(string, time.Duration, error) {}

// Service is the context-aware front of the package.
//
// Each method runs its work on a separate goroutine and returns when the work
// completes or ctx is done, whichever comes first. A cancelled call returns
// ctx.Err() at once; the work it started still runs to completion and its
// result is discarded. Audit events are written for completed work either way.
//
// A Service holds no mutable state and is safe for concurrent use.
type Service struct {
	provider Provider
	logger   *slog.Logger
	audit    audit.Writer
	actor    *audit.Actor
	observer Observer
	spec     AlgorithmSpec
	encoding codec.Encoding
}

// Option configures a Service.
type Option func(*Service)

// WithProvider sets the crypto provider.
func WithProvider(p Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithLogger sets the logger. Operation outcomes are logged at debug level
// and failures at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithAudit sets the audit writer. A failed audit write fails the operation.
func WithAudit(w audit.Writer) Option {
	return func(s *Service) { s.audit = w }
}

// WithActor overrides the actor recorded in audit events.
func WithActor(a audit.Actor) Option {
	return func(s *Service) { s.actor = &a }
}

// WithObserver sets the operation observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithDefaults sets the spec and encoding used to fill zero-valued arguments.
// Zero-valued fields of spec keep the package defaults.
func WithDefaults(spec AlgorithmSpec, enc codec.Encoding) Option {
	return func(s *Service) {
		s.spec = spec.WithDefaults()
		if enc != "" {
			s.encoding = enc
		}
	}
}

// NewService creates a Service backed by the software provider unless
// overridden.
func NewService(opts ...Option) *Service {
	s := &Service{
		provider: defaultProvider,
		logger:   slog.New(slog.DiscardHandler),
		audit:    audit.NopWriter{},
		observer: nopObserver{},
		spec:     DefaultAlgorithmSpec(),
		encoding: codec.DefaultEncoding,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spec returns the service's default spec.
func (s *Service) Spec() AlgorithmSpec { return s.spec }

// Encoding returns the service's default output encoding.
func (s *Service) Encoding() codec.Encoding { return s.encoding }

// Resolve fills zero-valued fields of spec from the service defaults.
func (s *Service) Resolve(spec AlgorithmSpec) AlgorithmSpec {
	return spec.withDefaultsFrom(s.spec)
}

func (s *Service) resolveEncoding(enc codec.Encoding) codec.Encoding {
	if enc == "" {
		return s.encoding
	}
	return enc
}

// run executes fn on its own goroutine and waits for it or for ctx.
func run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// finish observes, logs and audits a completed operation. An audit failure
// replaces a nil err.
func (s *Service) finish(op string, start time.Time, err error, event *audit.Event) error {
	if event != nil {
		if s.actor != nil {
			event.WithActor(*s.actor)
		}
		if aerr := audit.Record(s.audit, event); aerr != nil && err == nil {
			err = aerr
		}
	}

	elapsed := time.Since(start)
	s.observer.ObserveOperation(op, elapsed, err)
	if err != nil {
		s.logger.Warn("crypto operation failed", "op", op, "duration", elapsed, "error", err)
	} else {
		s.logger.Debug("crypto operation completed", "op", op, "duration", elapsed)
	}
	return err
}

func auditContext(spec AlgorithmSpec, enc codec.Encoding) audit.Context {
	return audit.Context{
		Scheme:        string(spec.Scheme),
		Hash:          string(spec.Hash),
		ModulusLength: spec.ModulusLength,
		Encoding:      string(enc),
	}
}

// GenerateKeyPair generates a key pair.
func (s *Service) GenerateKeyPair(ctx context.Context, spec AlgorithmSpec) (*KeyPair, error) {
	spec = s.Resolve(spec)
	return run(ctx, func() (*KeyPair, error) {
		start := time.Now()
		kp, err := generateKeyPair(s.provider, spec)
		var fp string
		if err == nil {
			fp = kp.PublicKey.Fingerprint()
		}
		return kp, s.finish(OpGenerate, start, err, audit.KeyGenerated(fp, auditContext(spec, ""), err))
	})
}

// GenerateKeyPairPEM generates a key pair as PEM text and proves both halves
// re-import under spec.
func (s *Service) GenerateKeyPairPEM(ctx context.Context, spec AlgorithmSpec) (*PEMKeyPair, error) {
	spec = s.Resolve(spec)
	return run(ctx, func() (*PEMKeyPair, error) {
		start := time.Now()
		var (
			out *PEMKeyPair
			fp  string
		)
		kp, err := generateKeyPair(s.provider, spec)
		if err == nil {
			fp = kp.PublicKey.Fingerprint()
			out, err = selfCheck(s.provider, kp, spec)
		}
		if err != nil {
			out = nil
		}
		return out, s.finish(OpGenerate, start, err, audit.KeyGenerated(fp, auditContext(spec, ""), err))
	})
}

// ImportSigningKey imports a PRIVATE KEY PEM as a signing-only handle.
func (s *Service) ImportSigningKey(ctx context.Context, pemText string, spec AlgorithmSpec) (*SigningKey, error) {
	spec = s.Resolve(spec)
	return run(ctx, func() (*SigningKey, error) {
		start := time.Now()
		key, err := importSigningKey(s.provider, pemText, spec)
		var fp string
		if err == nil {
			fp = key.Fingerprint()
		}
		return key, s.finish(OpImport, start, err, audit.KeyImported(PrivateKey.String(), fp, auditContext(spec, ""), err))
	})
}

// ImportVerificationKey imports a PUBLIC KEY PEM as a verification-only
// handle.
func (s *Service) ImportVerificationKey(ctx context.Context, pemText string, spec AlgorithmSpec) (*VerificationKey, error) {
	spec = s.Resolve(spec)
	return run(ctx, func() (*VerificationKey, error) {
		start := time.Now()
		key, err := importVerificationKey(s.provider, pemText, spec)
		var fp string
		if err == nil {
			fp = key.Fingerprint()
		}
		return key, s.finish(OpImport, start, err, audit.KeyImported(PublicKey.String(), fp, auditContext(spec, ""), err))
	})
}

// Sign signs data with key. See the package-level Sign.
func (s *Service) Sign(ctx context.Context, data string, key *SigningKey, spec AlgorithmSpec, enc codec.Encoding) (string, error) {
	spec = s.Resolve(spec)
	enc = s.resolveEncoding(enc)
	return run(ctx, func() (string, error) {
		start := time.Now()
		sig, err := Sign(data, key, spec, enc)
		var fp string
		if key != nil {
			fp = key.Fingerprint()
		}
		return sig, s.finish(OpSign, start, err, audit.Signed(fp, len(data), auditContext(spec, enc), err))
	})
}

// Verify checks signature over data with key. See the package-level Verify.
func (s *Service) Verify(ctx context.Context, key *VerificationKey, signature, data string, spec AlgorithmSpec, enc codec.Encoding) (bool, error) {
	spec = s.Resolve(spec)
	enc = s.resolveEncoding(enc)
	return run(ctx, func() (bool, error) {
		start := time.Now()
		ok, err := Verify(key, signature, data, spec, enc)
		var fp string
		if key != nil {
			fp = key.Fingerprint()
		}
		return ok, s.finish(OpVerify, start, err, audit.Verified(fp, len(data), auditContext(spec, enc), ok, err))
	})
}

// SignPEM imports privatePEM under spec and signs data with it.
func (s *Service) SignPEM(ctx context.Context, data, privatePEM string, spec AlgorithmSpec, enc codec.Encoding) (string, error) {
	key, err := s.ImportSigningKey(ctx, privatePEM, spec)
	if err != nil {
		return "", err
	}
	return s.Sign(ctx, data, key, spec, enc)
}

// VerifyPEM imports publicPEM under spec and verifies signature over data.
func (s *Service) VerifyPEM(ctx context.Context, publicPEM, signature, data string, spec AlgorithmSpec, enc codec.Encoding) (bool, error) {
	key, err := s.ImportVerificationKey(ctx, publicPEM, spec)
	if err != nil {
		return false, err
	}
	return s.Verify(ctx, key, signature, data, spec, enc)
}

// Digest hashes data with the named algorithm. An empty name selects the
// service's default hash.
func (s *Service) Digest(ctx context.Context, data, algorithm string, enc codec.Encoding) (string, error) {
	if algorithm == "" {
		algorithm = string(s.spec.Hash)
	}
	enc = s.resolveEncoding(enc)
	return run(ctx, func() (string, error) {
		start := time.Now()
		out, err := digest(s.provider, data, algorithm, enc)
		actx := audit.Context{Hash: algorithm, Encoding: string(enc)}
		if alg, perr := ParseHashAlgorithm(algorithm); perr == nil {
			actx.Hash = string(alg)
		}
		return out, s.finish(OpDigest, start, err, audit.Digested(len(data), actx, err))
	})
}

// Hash is an alias of Digest.
func (s *Service) Hash(ctx context.Context, data, algorithm string, enc codec.Encoding) (string, error) {
	return s.Digest(ctx, data, algorithm, enc)
}

// DigestMany hashes data with every named algorithm concurrently and returns
// the digests keyed by canonical algorithm name. The first failure cancels
// the remaining work and is returned.
func (s *Service) DigestMany(ctx context.Context, data string, algorithms []string, enc codec.Encoding) (map[HashAlgorithm]string, error) {
	if len(algorithms) == 0 {
		algorithms = []string{string(s.spec.Hash)}
	}
	canonical := make([]HashAlgorithm, 0, len(algorithms))
	for _, name := range algorithms {
		alg, err := ParseHashAlgorithm(name)
		if err != nil {
			return nil, opError(OpDigest, err)
		}
		canonical = append(canonical, alg)
	}

	var (
		mu  sync.Mutex
		out = make(map[HashAlgorithm]string, len(canonical))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, alg := range canonical {
		g.Go(func() error {
			d, err := s.Digest(gctx, data, string(alg), enc)
			if err != nil {
				return fmt.Errorf("%s: %w", alg, err)
			}
			mu.Lock()
			out[alg] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
