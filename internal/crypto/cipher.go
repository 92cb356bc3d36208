package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
	NonceSize = 12
	// KeySize - размер ключа AES-256
	KeySize = 32
)

// ErrDecrypt возвращается, если данные повреждены или ключ неверный
var ErrDecrypt = errors.New("authentication failed or corrupted data")

// Encrypt шифрует данные с использованием AES-256-GCM
// Формат результата: nonce (12 bytes) + ciphertext + auth_tag (16 bytes)
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+aesGCM.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// nonce становится префиксом результата
	return aesGCM.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt дешифрует данные, зашифрованные с помощью Encrypt
func Decrypt(encrypted, key []byte) ([]byte, error) {
	if len(encrypted) < NonceSize {
		return nil, fmt.Errorf("encrypted data too short")
	}
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, encrypted[:NonceSize], encrypted[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", ErrDecrypt)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// Sealer шифрует и расшифровывает значения фиксированным ключом.
// Используется хранилищем очереди для шифрования данных на диске.
type Sealer struct {
	key []byte
}

// NewSealer создает Sealer с ключом длины KeySize
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	return &Sealer{key: append([]byte(nil), key...)}, nil
}

// Seal шифрует значение
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	return Encrypt(plaintext, s.key)
}

// Open расшифровывает значение
func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	return Decrypt(ciphertext, s.key)
}
