// Package vaulttest builds encrypted vault fixtures the way the browser client
// stores them: an RSA key wrapped under a PBKDF2 password key, a master key
// wrapped with RSA-OAEP, and fields and files sealed with the hash prefix.
// It is imported by tests only.
package vaulttest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

const (
	Password   = "correct horse battery staple"
	Login      = "alice"
	UserUUID   = "6f1c2a5e-8d4b-4c1e-9a77-3b2f0c9d1e01"
	VaultUUID  = "b3a9e0f2-1c4d-4e5f-8a6b-7c8d9e0f1a2b"
	RootUUID   = "0e3c6a1b-2d4f-4a6c-8e0a-1b3d5f7a9c2e"
	ChildUUID  = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
	Iterations = 1000
)

var (
	rsaOnce sync.Once
	rsaKey  *rsa.PrivateKey
	rsaErr  error
)

// RSAKey returns a process-wide 2048-bit key; generating one per test is slow.
func RSAKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	rsaOnce.Do(func() {
		rsaKey, rsaErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if rsaErr != nil {
		t.Fatalf("generate rsa key: %v", rsaErr)
	}
	return rsaKey
}

// NewUserKey wraps priv under password. A legacy key has no version and is
// derived from "login|password".
func NewUserKey(t testing.TB, priv *rsa.PrivateKey, uuid, login string, password []byte, legacy bool) *models.UserKey {
	t.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("marshal pkcs8: %v", err)
	}

	material := password
	if legacy {
		material = append([]byte(login+"|"), password...)
	}

	salt := cryptox.NewSalt()
	iv := cryptox.NewIV()
	wrapped, err := cryptox.SymEncrypt(iv, der, cryptox.DeriveKey(material, salt, Iterations), false)
	if err != nil {
		t.Fatalf("wrap private key: %v", err)
	}

	k := &models.UserKey{
		UUID:        uuid,
		Login:       login,
		Fingerprint: "fp-" + login,
		Salt:        base64.StdEncoding.EncodeToString(salt),
		Iterations:  Iterations,
		IV:          base64.StdEncoding.EncodeToString(iv),
		Private:     wrapped,
	}
	if !legacy {
		v := 2
		k.Version = &v
	}
	return k
}

// NewMasterKey returns a fresh AES-256 vault key.
func NewMasterKey() []byte {
	key := make([]byte, cryptox.KeyLength)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}

// WrapMasterKey wraps master for the owner of pub.
func WrapMasterKey(t testing.TB, pub *rsa.PublicKey, master []byte) string {
	t.Helper()
	wrapped, err := cryptox.WrapKey(pub, master)
	if err != nil {
		t.Fatalf("wrap master key: %v", err)
	}
	return wrapped
}

// SealField encrypts plaintext under master with the hash prefix.
func SealField(t testing.TB, master []byte, id int64, name string, plaintext []byte) *models.Field {
	t.Helper()
	iv := cryptox.NewIV()
	value, err := cryptox.SymEncrypt(iv, plaintext, master, true)
	if err != nil {
		t.Fatalf("seal field %s: %v", name, err)
	}
	return &models.Field{
		ID:    id,
		Name:  name,
		IV:    base64.StdEncoding.EncodeToString(iv),
		Value: value,
	}
}

// SealFile is SealField for attachments.
func SealFile(t testing.TB, master []byte, id int64, name string, content []byte) *models.File {
	t.Helper()
	return (*models.File)(SealField(t, master, id, name, content))
}

// Fixture is one user owning one vault:
//
//	root (field "password" = "hello")
//	└── child (field "otp" = "123456", file "id.txt" = "secret file")
type Fixture struct {
	Key       *models.UserKey
	Private   *rsa.PrivateKey
	MasterKey []byte
	Vault     *models.Vault
}

// New builds the default fixture. legacy selects a key without version.
func New(t testing.TB, legacy bool) *Fixture {
	t.Helper()

	priv := RSAKey(t)
	master := NewMasterKey()
	key := NewUserKey(t, priv, UserUUID, Login, []byte(Password), legacy)

	rootID := int64(1)
	root := &models.Entry{
		ID:           rootID,
		UUID:         RootUUID,
		CompleteName: "Mail",
		Name:         "Mail",
		URL:          "https://mail.example.com",
		Fields:       []*models.Field{SealField(t, master, 1, "password", []byte("hello"))},
		Files:        []*models.File{},
	}
	child := &models.Entry{
		ID:           2,
		UUID:         ChildUUID,
		ParentID:     &rootID,
		CompleteName: "Mail/2FA",
		Name:         "2FA",
		Note:         "backup codes",
		Fields:       []*models.Field{SealField(t, master, 2, "otp", []byte("123456"))},
		Files:        []*models.File{SealFile(t, master, 1, "id.txt", []byte("secret file"))},
		Entries:      []*models.Entry{},
	}
	root.Fields[0].EntryID = root.ID
	child.Fields[0].EntryID = child.ID
	child.Files[0].EntryID = child.ID
	root.Entries = []*models.Entry{child}

	vault := &models.Vault{
		ID:      1,
		UUID:    VaultUUID,
		Name:    "Personal",
		Note:    "family vault",
		UserID:  1,
		Entries: []*models.Entry{root},
		Rights:  models.Rights{UserUUID: WrapMasterKey(t, &priv.PublicKey, master)},
	}

	return &Fixture{Key: key, Private: priv, MasterKey: master, Vault: vault}
}

// Exported returns the fixture as an export snapshot.
func (f *Fixture) Exported() *models.Exported {
	return models.NewExported(f.Key, []*models.Vault{f.Vault})
}
