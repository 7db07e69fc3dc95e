package security

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// 钱包助记词落库前的对称加密。主密钥经HKDF衍生后用于
// chacha20poly1305，nonce随机生成并拼在密文前。

type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox 根据主密钥和盐衍生对称密钥并初始化AEAD实例
func NewSecretBox(masterKey, salt []byte) (*SecretBox, error) {
	if len(masterKey) == 0 {
		return nil, errors.New("master key is empty")
	}
	key, err := deriveKey(masterKey, salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &SecretBox{aead: aead}, nil
}

// 密钥衍生：
// 将主密钥和盐通过HKDF转换为可用于实际加密和解密的对称密钥。
func deriveKey(masterKey, salt []byte) ([]byte, error) {
	hkdfSha512 := hkdf.New(sha512.New, masterKey, salt, nil)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdfSha512, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Seal 加密，返回 nonce || ciphertext
func (b *SecretBox) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open 解密Seal的输出
func (b *SecretBox) Open(sealed []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	if len(sealed) < ns {
		return nil, errors.New("sealed data too short")
	}
	nonce, ciphertext := sealed[:ns], sealed[ns:]
	return b.aead.Open(nil, nonce, ciphertext, nil)
}
