package auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

const (
	saltLen = 16
	keyLen  = 32

	// SecretMarker replaces a Password wherever it would be printed.
	SecretMarker = "<!SECRET_REDACTED!>"
)

// ErrMalformedHash is returned by Verify when the stored digest cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Password is a plaintext password. It is only ever hashed or compared;
// every printing path renders SecretMarker instead of the value.
type Password struct {
	plain []byte
}

func NewPassword(plain string) Password {
	return Password{plain: []byte(plain)}
}

func (p Password) IsEmpty() bool {
	return len(p.plain) == 0
}

func (p Password) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(SecretMarker))
}

func (p Password) MarshalText() ([]byte, error) {
	return []byte(SecretMarker), nil
}

func (p Password) LogValue() slog.Value {
	return slog.StringValue(SecretMarker)
}

// HashParams are the argon2id cost parameters used for new hashes.
type HashParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultHashParams match the RFC 9106 second recommended option.
var DefaultHashParams = HashParams{MemoryKiB: 64 * 1024, Iterations: 1, Parallelism: 4}

// Hasher derives and checks argon2id password digests. At most workers
// derivations run at once; callers beyond that wait for a slot or for
// their context to end.
type Hasher struct {
	params HashParams
	sem    *semaphore.Weighted

	dummyOnce sync.Once
	dummy     string
}

// NewHasher returns a Hasher producing digests with params. Zero params
// select DefaultHashParams.
func NewHasher(params HashParams, workers int) *Hasher {
	if params == (HashParams{}) {
		params = DefaultHashParams
	}
	if workers < 1 {
		workers = 1
	}
	return &Hasher{
		params: params,
		sem:    semaphore.NewWeighted(int64(workers)),
	}
}

// Hash returns a self-describing digest of p:
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<parallelism>$<salt>$<key>
//
// with salt and key in unpadded standard base64. Every call uses a fresh salt.
func (h *Hasher) Hash(ctx context.Context, p Password) (string, error) {
	salt := common.GenerateRandByteArray(saltLen)

	key, err := h.derive(ctx, p.plain, salt, h.params, keyLen)
	if err != nil {
		return "", err
	}

	return encodeDigest(h.params, salt, key), nil
}

// Verify reports whether p matches digest. The digest's own parameters are
// used, so hashes created under older settings keep working.
func (h *Hasher) Verify(ctx context.Context, digest string, p Password) (bool, error) {
	params, salt, want, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	got, err := h.derive(ctx, p.plain, salt, params, uint32(len(want)))
	if err != nil {
		return false, err
	}
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// VerifyDummy spends the same work as Verify against a digest nobody owns.
// It is used when a sign in names an unknown account.
func (h *Hasher) VerifyDummy(ctx context.Context, p Password) error {
	h.dummyOnce.Do(func() {
		salt := common.GenerateRandByteArray(saltLen)
		key := argon2.IDKey(common.GenerateRandByteArray(keyLen), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, keyLen)
		h.dummy = encodeDigest(h.params, salt, key)
	})

	_, err := h.Verify(ctx, h.dummy, p)
	return err
}

func (h *Hasher) derive(ctx context.Context, plain, salt []byte, params HashParams, n uint32) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: wait for hash worker: %w", common.ErrInfrastructure, err)
	}
	defer h.sem.Release(1)

	return argon2.IDKey(plain, salt, params.Iterations, params.MemoryKiB, params.Parallelism, n), nil
}

func encodeDigest(params HashParams, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.MemoryKiB, params.Iterations, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decodeDigest(digest string) (HashParams, []byte, []byte, error) {
	var params HashParams

	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: unexpected layout", ErrMalformedHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: version: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("%w: parameters: %w", ErrMalformedHash, err)
	}
	// argon2.IDKey panics on these.
	if params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, fmt.Errorf("%w: salt", ErrMalformedHash)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	return params, salt, key, nil
}
