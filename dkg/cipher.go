package dkg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/luxfi/icefrost/internal/zeroize"
	"github.com/luxfi/icefrost/pkg/curve"
)

// pairwiseKey derives the symmetric transport key for a sender-receiver
// pair from their shared Diffie-Hellman point. K_il = dh_pk_l^dh_sk_i =
// dh_pk_i^dh_sk_l by DH symmetry; both parties arrive at the same
// encoding and therefore the same derived key regardless of which side
// computed dhPoint.
func pairwiseKey(dhPoint curve.Point) ([]byte, error) {
	kdf := hkdf.New(sha512.New, dhPoint.Bytes(), nil, nil)
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("dkg: deriving transport key: %w", err)
	}
	return key, nil
}

// encryptShare encrypts the 32-byte canonical encoding of a share value
// under AES-256-CTR with a freshly sampled 16-byte nonce, keyed by the
// pairwise DH point.
func encryptShare(grp curve.Curve, dhPoint curve.Point, value curve.Scalar, rng io.Reader) ([16]byte, [32]byte, error) {
	var nonce [16]byte
	var ct [32]byte

	key, err := pairwiseKey(dhPoint)
	if err != nil {
		return nonce, ct, err
	}
	defer zeroize.Bytes(key)

	if _, err := io.ReadFull(rng, nonce[:]); err != nil {
		return nonce, ct, fmt.Errorf("dkg: sampling nonce: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nonce, ct, fmt.Errorf("dkg: %w", err)
	}
	stream := cipher.NewCTR(block, nonce[:])

	plaintext := value.Bytes()
	if len(plaintext) != 32 {
		return nonce, ct, fmt.Errorf("dkg: share plaintext must be 32 bytes, got %d", len(plaintext))
	}
	stream.XORKeyStream(ct[:], plaintext)

	return nonce, ct, nil
}

// decryptShare reverses encryptShare and requires the recovered plaintext
// to be a canonical scalar encoding; any other outcome is ErrDecryption,
// not a silent fallback. The cipher itself provides confidentiality only —
// integrity comes from the VSS check the caller runs on the returned
// scalar, never from this function.
func decryptShare(grp curve.Curve, dhPoint curve.Point, nonce [16]byte, ct [32]byte) (curve.Scalar, error) {
	key, err := pairwiseKey(dhPoint)
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("dkg: %w", err)
	}
	stream := cipher.NewCTR(block, nonce[:])

	var plaintext [32]byte
	stream.XORKeyStream(plaintext[:], ct[:])
	defer zeroize.Bytes(plaintext[:])

	v, err := grp.NewScalar().SetBytes(plaintext[:])
	if err != nil {
		return nil, fmt.Errorf("dkg: %w: %v", ErrDecryption, err)
	}
	return v, nil
}
