package password

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Policy controls password validation boundaries.
type Policy struct {
	MinLength int
	MaxLength int
	// If true, enable a minimal trivial-pattern rejection on top of length checks.
	RejectTrivial bool
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Argon2idParams
	Policy Policy
}

// DefaultConfig returns the baseline configuration.
//
// Cost parameters are conservative for interactive logins. The length policy
// is deliberately permissive: account registration places no strength
// requirement on passwords, so MinLength gates nothing unless an operator
// tightens it via env. MaxLength exists purely to bound hashing cost.
func DefaultConfig() Config {
	// Clamp parallelism to [1..4] so resource usage stays predictable in
	// containers regardless of host core count.
	threads := runtime.NumCPU()
	if threads <= 0 {
		threads = 1
	}
	if threads > 4 {
		threads = 4
	}

	return Config{
		Params: Argon2idParams{
			MemoryKiB:   64 * 1024, // 64 MiB
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4] above; safe conversion.
			SaltLength:  16,
			KeyLength:   32,
		},
		Policy: Policy{
			MinLength:     1,
			MaxLength:     1024,
			RejectTrivial: false,
		},
	}
}

// FromEnv loads config from environment variables, starting from DefaultConfig.
//
// Env surface:
// - MR_PASSWORD_MIN_LEN
// - MR_PASSWORD_MAX_LEN
// - MR_PASSWORD_REJECT_TRIVIAL (true/false)
// - MR_ARGON2_MEMORY_KIB
// - MR_ARGON2_ITERATIONS
// - MR_ARGON2_PARALLELISM
// - MR_ARGON2_SALT_LEN
// - MR_ARGON2_KEY_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("MR_PASSWORD_MIN_LEN"); ok {
		n, err := intInRange(v, 1, 1024)
		if err != nil {
			return Config{}, fmt.Errorf("MR_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	if v, ok := os.LookupEnv("MR_PASSWORD_MAX_LEN"); ok {
		n, err := intInRange(v, 1, 4096)
		if err != nil {
			return Config{}, fmt.Errorf("MR_PASSWORD_MAX_LEN: %w", err)
		}
		cfg.Policy.MaxLength = n
	}

	if v, ok := os.LookupEnv("MR_PASSWORD_REJECT_TRIVIAL"); ok {
		b, err := parseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("MR_PASSWORD_REJECT_TRIVIAL: %w", err)
		}
		cfg.Policy.RejectTrivial = b
	}

	if v, ok := os.LookupEnv("MR_ARGON2_MEMORY_KIB"); ok {
		u, err := uint32InRange(v, 8*1024, 1024*1024) // 8 MiB .. 1 GiB
		if err != nil {
			return Config{}, fmt.Errorf("MR_ARGON2_MEMORY_KIB: %w", err)
		}
		cfg.Params.MemoryKiB = u
	}

	if v, ok := os.LookupEnv("MR_ARGON2_ITERATIONS"); ok {
		u, err := uint32InRange(v, 1, 20)
		if err != nil {
			return Config{}, fmt.Errorf("MR_ARGON2_ITERATIONS: %w", err)
		}
		cfg.Params.Iterations = u
	}

	if v, ok := os.LookupEnv("MR_ARGON2_PARALLELISM"); ok {
		u, err := uint32InRange(v, 1, math.MaxUint8)
		if err != nil {
			return Config{}, fmt.Errorf("MR_ARGON2_PARALLELISM: %w", err)
		}
		cfg.Params.Parallelism = uint8(u) // #nosec G115 -- bounded by uint32InRange above.
	}

	if v, ok := os.LookupEnv("MR_ARGON2_SALT_LEN"); ok {
		u, err := uint32InRange(v, 8, 64)
		if err != nil {
			return Config{}, fmt.Errorf("MR_ARGON2_SALT_LEN: %w", err)
		}
		cfg.Params.SaltLength = u
	}

	if v, ok := os.LookupEnv("MR_ARGON2_KEY_LEN"); ok {
		u, err := uint32InRange(v, 16, 64)
		if err != nil {
			return Config{}, fmt.Errorf("MR_ARGON2_KEY_LEN: %w", err)
		}
		cfg.Params.KeyLength = u
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf(
			"password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength,
			cfg.Policy.MaxLength,
		)
	}

	return cfg, nil
}

func intInRange(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}

func uint32InRange(s string, minVal, maxVal uint32) (uint32, error) {
	s = strings.TrimSpace(s)
	u64, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer")
	}

	u := uint32(u64)
	if u < minVal || u > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return u, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean")
	}
}
