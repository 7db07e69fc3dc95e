package security

import (
	"bytes"
	"testing"
)

func TestSecretBoxRoundTrip(t *testing.T) {
	box, err := NewSecretBox([]byte("test-master-key"), []byte("salt"))
	if err != nil {
		t.Fatalf("new secret box: %v", err)
	}

	mnemonic := []byte("abandon ability able about above absent absorb abstract absurd abuse access accident")
	sealed, err := box.Seal(mnemonic)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, mnemonic) {
		t.Fatal("sealed output contains plaintext")
	}

	opened, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, mnemonic) {
		t.Errorf("round trip mismatch: got %q", opened)
	}
}

func TestSecretBoxWrongKey(t *testing.T) {
	box1, _ := NewSecretBox([]byte("key-one"), []byte("salt"))
	box2, _ := NewSecretBox([]byte("key-two"), []byte("salt"))

	sealed, err := box1.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := box2.Open(sealed); err == nil {
		t.Error("open with wrong key should fail")
	}
}

func TestSecretBoxTamper(t *testing.T) {
	box, _ := NewSecretBox([]byte("key"), nil)
	sealed, err := box.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := box.Open(sealed); err == nil {
		t.Error("open of tampered ciphertext should fail")
	}
}
