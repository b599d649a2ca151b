package workflow

import (
	"context"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/txkit-go/txkit/commonerrors"
)

// SealingKeySize is the size in bytes of the symmetric sealing key.
const SealingKeySize = chacha20poly1305.KeySize

var _ IStore = (*SealedStore)(nil)

// SealedStore wraps another store and encrypts undo payloads at rest with
// XChaCha20-Poly1305. The workflow identifier is bound into the seal as associated data
// so a sealed payload cannot be replanted onto another workflow. Checksums keep covering
// the plaintext.
//
// A stored payload which fails authentication comes back with its undo payload cleared
// and its plaintext checksum intact, which downgrades the damage to an integrity failure
// on exactly that operation instead of blocking the whole journal read.
type SealedStore struct {
	IStore
	aead cipher.AEAD
}

// NewSealedStore wraps next so undo payloads are sealed with key before they reach it.
// The key must be SealingKeySize bytes of high entropy key material.
func NewSealedStore(next IStore, key []byte) (*SealedStore, error) {
	if next == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "sealing needs a %v byte key", SealingKeySize)
	}
	return &SealedStore{IStore: next, aead: aead}, nil
}

func (s *SealedStore) AppendOperation(ctx context.Context, op *Operation) (uint64, error) {
	err := op.Validate()
	if err != nil {
		return 0, err
	}
	sealed := op.Clone()
	if len(sealed.UndoData) > 0 {
		// The checksum is stamped before sealing so it keeps attesting the plaintext.
		if sealed.Checksum == "" {
			sealed.SetChecksum()
		}
		sealed.UndoData, err = s.seal(sealed.WorkflowID, sealed.UndoData)
		if err != nil {
			return 0, err
		}
	}
	return s.IStore.AppendOperation(ctx, sealed)
}

func (s *SealedStore) ListOperationsDescending(ctx context.Context, workflowID string) ([]*Operation, error) {
	operations, err := s.IStore.ListOperationsDescending(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	for i := range operations {
		if len(operations[i].UndoData) == 0 {
			continue
		}
		plaintext, unsealErr := s.unseal(operations[i].WorkflowID, operations[i].UndoData)
		if unsealErr != nil {
			operations[i].UndoData = nil
			continue
		}
		operations[i].UndoData = plaintext
	}
	return operations, nil
}

func (s *SealedStore) seal(workflowID string, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	_, err := rand.Read(nonce)
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not generate a sealing nonce")
	}
	return s.aead.Seal(nonce, nonce, plaintext, []byte(workflowID)), nil
}

func (s *SealedStore) unseal(workflowID string, sealed []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, commonerrors.Newf(commonerrors.ErrInvalid, "sealed payload of workflow [%v] is truncated", workflowID)
	}
	nonce, ciphertext := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, []byte(workflowID))
	if err != nil {
		return nil, commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "sealed payload of workflow [%v] failed authentication", workflowID)
	}
	return plaintext, nil
}
