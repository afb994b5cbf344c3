// Package account generates externally-owned Ethereum accounts backed by a
// BIP-39 mnemonic.
package account

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

const entropyBits = 128

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrUnknownFormat   = errors.New("unknown output format")
)

// DerivationPath is the first account of the default Ethereum wallet,
// m/44'/60'/0'/0/0.
var DerivationPath = []uint32{
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
	0,
}

type Account struct {
	Mnemonic   string `json:"mnemonic"`
	Address    string `json:"public_address"`
	PrivateKey string `json:"private_key"`
}

// Generate creates n accounts, each from a fresh mnemonic. A count below one
// yields no accounts.
func Generate(n int) ([]Account, error) {
	accounts := make([]Account, 0, max(n, 0))
	for range n {
		entropy, err := bip39.NewEntropy(entropyBits)
		if err != nil {
			return nil, fmt.Errorf("failed to generate entropy: %w", err)
		}

		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
		}

		acc, err := FromMnemonic(mnemonic)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// FromMnemonic derives the account at DerivationPath from mnemonic with an
// empty passphrase.
func FromMnemonic(mnemonic string) (Account, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return Account{}, fmt.Errorf("failed to derive master key: %w", err)
	}

	for _, index := range DerivationPath {
		key, err = key.NewChildKey(index)
		if err != nil {
			return Account{}, fmt.Errorf("failed to derive child key: %w", err)
		}
	}

	privateKey, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return Account{}, fmt.Errorf("failed to decode private key: %w", err)
	}

	return Account{
		Mnemonic:   mnemonic,
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(privateKey)),
	}, nil
}

// Write prints accounts to w in format, "txt" or "json".
func Write(w io.Writer, accounts []Account, format string) error {
	switch format {
	case "txt", "":
		return WriteText(w, accounts)
	case "json":
		return WriteJSON(w, accounts)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// WriteText prints one block per account, numbered from 1.
func WriteText(w io.Writer, accounts []Account) error {
	for i, acc := range accounts {
		_, err := fmt.Fprintf(w, "Account #%d\nThe mnemonic phrase:\t%s\nThe public address:\t%s\nThe private key:\t%s\n\n",
			i+1, acc.Mnemonic, acc.Address, acc.PrivateKey)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints an object keyed by the zero-based account index, with
// keys in numeric order.
func WriteJSON(w io.Writer, accounts []Account) error {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, acc := range accounts {
		if i > 0 {
			compact.WriteByte(',')
		}
		data, err := json.Marshal(acc)
		if err != nil {
			return err
		}
		compact.WriteString(strconv.Quote(strconv.Itoa(i)))
		compact.WriteByte(':')
		compact.Write(data)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')

	_, err := w.Write(out.Bytes())
	return err
}
