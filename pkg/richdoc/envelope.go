package richdoc

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	envelopeMagic      = "RICHDOC_ENVELOPE"
	envelopeVersionV1  = uint16(1)
	envelopeFlagComp   = uint16(1 << 0)
	envelopeFlagEnc    = uint16(1 << 1)
	envelopeSaltSize   = 16
	envelopeNonceSize  = 12
	envelopeHeaderSize = len(envelopeMagic) + 2 + 2 + envelopeSaltSize + envelopeNonceSize + 8
	kdfIterations      = 200000
)

type EncryptionOptions struct {
	Enabled  bool
	Password string
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

type LoadOptions struct {
	Password string
}

type EnvelopeInfo struct {
	Sealed     bool
	Compressed bool
	Encrypted  bool
	Version    uint16
}

var (
	ErrUnsupportedVersion = errors.New("richdoc: unsupported envelope version")
	ErrPasswordRequired   = errors.New("richdoc: password required")
	ErrInvalidPassword    = errors.New("richdoc: invalid password")
	ErrInvalidEnvelope    = errors.New("richdoc: invalid envelope")
)

func IsSealed(b []byte) bool {
	return len(b) >= len(envelopeMagic) && string(b[:len(envelopeMagic)]) == envelopeMagic
}

func Inspect(b []byte) (EnvelopeInfo, error) {
	info := EnvelopeInfo{}
	if !IsSealed(b) {
		return info, nil
	}
	if len(b) < envelopeHeaderSize {
		return info, ErrInvalidEnvelope
	}
	version := binary.LittleEndian.Uint16(b[len(envelopeMagic) : len(envelopeMagic)+2])
	if version != envelopeVersionV1 {
		return info, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	flags := binary.LittleEndian.Uint16(b[len(envelopeMagic)+2 : len(envelopeMagic)+4])
	info.Sealed = true
	info.Compressed = flags&envelopeFlagComp != 0
	info.Encrypted = flags&envelopeFlagEnc != 0
	info.Version = version
	return info, nil
}

// Seal wraps payload in an envelope, compressing before encrypting.
func Seal(payload []byte, opts SaveOptions) ([]byte, error) {
	if opts.Encryption.Enabled && strings.TrimSpace(opts.Encryption.Password) == "" {
		return nil, ErrPasswordRequired
	}
	flags := uint16(0)
	if opts.Compression {
		flags |= envelopeFlagComp
		var err error
		payload, err = compressBytes(payload)
		if err != nil {
			return nil, err
		}
	}

	salt := make([]byte, envelopeSaltSize)
	nonce := make([]byte, envelopeNonceSize)
	if opts.Encryption.Enabled {
		flags |= envelopeFlagEnc
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		gcm, err := newGCM(opts.Encryption.Password, salt)
		if err != nil {
			return nil, err
		}
		payload = gcm.Seal(nil, nonce, payload, nil)
	}

	out := make([]byte, envelopeHeaderSize, envelopeHeaderSize+len(payload))
	ptr := copy(out, envelopeMagic)
	binary.LittleEndian.PutUint16(out[ptr:ptr+2], envelopeVersionV1)
	binary.LittleEndian.PutUint16(out[ptr+2:ptr+4], flags)
	ptr += 4
	ptr += copy(out[ptr:ptr+envelopeSaltSize], salt)
	ptr += copy(out[ptr:ptr+envelopeNonceSize], nonce)
	binary.LittleEndian.PutUint64(out[ptr:], uint64(len(payload)))
	return append(out, payload...), nil
}

func Open(b []byte, opts LoadOptions) ([]byte, error) {
	info, err := Inspect(b)
	if err != nil {
		return nil, err
	}
	if !info.Sealed {
		return nil, ErrInvalidEnvelope
	}
	ptr := len(envelopeMagic) + 4
	salt := append([]byte(nil), b[ptr:ptr+envelopeSaltSize]...)
	ptr += envelopeSaltSize
	nonce := append([]byte(nil), b[ptr:ptr+envelopeNonceSize]...)
	ptr += envelopeNonceSize
	payloadLen := binary.LittleEndian.Uint64(b[ptr:])
	if uint64(len(b)-envelopeHeaderSize) != payloadLen {
		return nil, ErrInvalidEnvelope
	}
	payload := append([]byte(nil), b[envelopeHeaderSize:]...)

	if info.Encrypted {
		if strings.TrimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := newGCM(opts.Password, salt)
		if err != nil {
			return nil, err
		}
		payload, err = gcm.Open(nil, nonce, payload, nil)
		if err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if info.Compressed {
		payload, err = decompressBytes(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
		}
	}
	return payload, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func compressBytes(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBytes(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
