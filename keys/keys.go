// Package keys implements the key lifecycle of spec.md §4.7:
// load-or-generate a matched (ClientKey, ServerKey) pair, persisted as
// `.key` files.
package keys

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/privateimg/fhimg/fhe"
)

// withKeyExtension suffixes path with ".key", replacing any existing
// extension, matching Rust's Path::with_extension("key") used by the
// original key lifecycle.
func withKeyExtension(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".key"
}

// LoadOrGenerate implements §4.7's load_or_generate: if both key files
// exist, it deserializes and returns them; otherwise it generates a fresh
// matched pair under the fixed FHE parameter set and writes each to its
// file, overwriting any partial state.
func LoadOrGenerate(clientPath, serverPath string) (fhe.ClientKey, fhe.ServerKey, error) {
	clientPath = withKeyExtension(clientPath)
	serverPath = withKeyExtension(serverPath)

	if fileExists(clientPath) && fileExists(serverPath) {
		log.Info().Str("client", clientPath).Str("server", serverPath).Msg("loading keys")
		return load(clientPath, serverPath)
	}

	log.Info().Msg("keys not found, generating new keys")
	return generateToFile(clientPath, serverPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func load(clientPath, serverPath string) (fhe.ClientKey, fhe.ServerKey, error) {
	var ck fhe.ClientKey
	if err := decodeFile(clientPath, &ck); err != nil {
		return fhe.ClientKey{}, fhe.ServerKey{}, fmt.Errorf("keys: loading client key: %w", err)
	}

	var sk fhe.ServerKey
	if err := decodeFile(serverPath, &sk); err != nil {
		return fhe.ClientKey{}, fhe.ServerKey{}, fmt.Errorf("keys: loading server key: %w", err)
	}

	return ck, sk, nil
}

func generateToFile(clientPath, serverPath string) (fhe.ClientKey, fhe.ServerKey, error) {
	params, err := fhe.NewParametersFromLiteral(fhe.ParamMessage2Carry2)
	if err != nil {
		return fhe.ClientKey{}, fhe.ServerKey{}, fmt.Errorf("keys: %w", err)
	}

	log.Info().Msg("generating keys")
	ck, sk, err := fhe.NewKeyGenerator(params).GenKeyPair()
	if err != nil {
		return fhe.ClientKey{}, fhe.ServerKey{}, fmt.Errorf("keys: generating key pair: %w", err)
	}

	log.Info().Str("client", clientPath).Str("server", serverPath).Msg("storing keys")
	if err := encodeFile(clientPath, ck); err != nil {
		return fhe.ClientKey{}, fhe.ServerKey{}, fmt.Errorf("keys: storing client key: %w", err)
	}
	if err := encodeFile(serverPath, sk); err != nil {
		return fhe.ClientKey{}, fhe.ServerKey{}, fmt.Errorf("keys: storing server key: %w", err)
	}

	return ck, sk, nil
}

func encodeFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(v)
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewDecoder(f).Decode(v)
}
