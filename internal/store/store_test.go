package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/store"
)

func TestWallet_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ws domain.WalletStore = store.NewWalletFileStore(home)

	ok, err := ws.HasWallet()
	require.NoError(t, err)
	require.False(t, ok)

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, ws.SaveWallet("pass", key))

	ok, err = ws.HasWallet()
	require.NoError(t, err)
	require.True(t, ok)

	got, err := ws.LoadWallet("pass")
	require.NoError(t, err)
	require.Equal(t, key, got)

	info, err := os.Stat(filepath.Join(home, "wallet.json.enc"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWallet_WrongPassphrase_Fails(t *testing.T) {
	ws := store.NewWalletFileStore(t.TempDir())
	require.NoError(t, ws.SaveWallet("correct", []byte("key")))

	_, err := ws.LoadWallet("wrong")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestWallet_TamperedBlob_Fails(t *testing.T) {
	home := t.TempDir()
	ws := store.NewWalletFileStore(home)
	require.NoError(t, ws.SaveWallet("pass", []byte("key")))

	path := filepath.Join(home, "wallet.json.enc")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	// Re-label the blob; the kind is authenticated.
	b = []byte(string(b[:len(b)-1]) + `,"kind":"other"}`)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	_, err = ws.LoadWallet("pass")
	require.Error(t, err)
}

func TestPrivateBundle_SaveLoad(t *testing.T) {
	bs := store.NewBundleFileStore(t.TempDir())

	_, ok, err := bs.LoadPrivateBundle()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, bs.SavePrivateBundle([]byte{1, 2, 3}))
	require.NoError(t, bs.SavePrivateBundle([]byte{4, 5}))

	got, ok, err := bs.LoadPrivateBundle()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{4, 5}, got)
}

func TestContacts_SaveLoadList(t *testing.T) {
	cs := store.NewContactFileStore(t.TempDir())

	_, ok, err := cs.LoadContact("0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	require.False(t, ok)

	b := domain.Contact{Address: "0x00000000000000000000000000000000000000bb", Bundle: []byte("b")}
	a := domain.Contact{Address: "0x00000000000000000000000000000000000000aa", Bundle: []byte("a"), Fingerprint: "fp"}
	require.NoError(t, cs.SaveContact(b))
	require.NoError(t, cs.SaveContact(a))

	got, ok, err := cs.LoadContact("0x00000000000000000000000000000000000000AA")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, a, got)

	all, err := cs.ListContacts()
	require.NoError(t, err)
	require.Equal(t, []domain.Contact{a, b}, all)
}

func TestAccounts_SaveLoad(t *testing.T) {
	as := store.NewAccountFileStore(t.TempDir())
	p := domain.AccountProfile{
		ServerURL:    "http://127.0.0.1:8080/",
		Address:      "0x00000000000000000000000000000000000000aa",
		Fingerprint:  "abcd",
		RegisteredAt: 42,
	}
	require.NoError(t, as.SaveAccountProfile(p))

	got, ok, err := as.LoadAccountProfile("http://127.0.0.1:8080", p.Address)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, p, got)

	_, ok, err = as.LoadAccountProfile("http://other", p.Address)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpen_CreatesHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", "home")
	fs, err := store.Open(home)
	require.NoError(t, err)
	require.NoError(t, fs.SavePrivateBundle([]byte("x")))

	info, err := os.Stat(home)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
