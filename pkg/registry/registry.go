// Copyright 2025 Certen Protocol
//
// Package registry implements the Registry Engine: an append-only,
// content-addressed filesystem store over asset records, enforcing
// namespace uniqueness and serializing writers through a single
// process-wide mutex, with an optional post-write hook.
package registry

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/metrics"
	"github.com/Blockstream/asset-registry/pkg/validator"
)

// dirPartitionLen is the length (in hex characters, not bytes) of the
// asset id prefix used for shard sub-directory partitioning.
const dirPartitionLen = 2

var (
	ErrNotFound       = errors.New("asset not found")
	ErrAlreadyExists  = errors.New("updates are not allowed")
	ErrNamespaceTaken = errors.New("another asset is already registered with this entity/ticker")
)

// Registry persists validated asset records on a directory tree.
type Registry struct {
	directory string
	validator *validator.Validator
	hookCmd   string
	writeLock sync.Mutex
	logger    *log.Logger
}

// New constructs a Registry rooted at directory, using v to verify
// records before they are written and hookCmd (if non-empty) as the
// post-write/post-delete hook.
func New(directory string, v *validator.Validator, hookCmd string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(log.Writer(), "[registry] ", log.LstdFlags)
	}
	return &Registry{
		directory: directory,
		validator: v,
		hookCmd:   hookCmd,
		logger:    logger,
	}
}

func (r *Registry) assetPath(id assetid.AssetId) string {
	name := id.String() + ".json"
	return filepath.Join(r.directory, name[:dirPartitionLen], name)
}

func (r *Registry) namespacePath(key string) string {
	return filepath.Join(r.directory, "_map", key)
}

// Load performs a point lookup by asset id. It does not take the write
// lock: the filesystem is the source of truth and reads are never torn,
// since a record file is always fully written before its namespace
// claim file.
func (r *Registry) Load(id assetid.AssetId) (*validator.Asset, error) {
	path := r.assetPath(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading asset: %w", err)
	}

	var a validator.Asset
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed parsing stored asset: %w", err)
	}
	return &a, nil
}

// Write runs the full write transaction: validate, acquire the write
// mutex, check for collisions, persist both the record and its
// namespace claim, then invoke the hook - rolling both files back if
// the hook fails.
func (r *Registry) Write(a *validator.Asset) error {
	timer := prometheus.NewTimer(metrics.WriteTransactionDuration)
	defer timer.ObserveDuration()

	if err := r.validator.Verify(a); err != nil {
		return err
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	path := r.assetPath(a.AssetId)
	nsKey := a.Fields.NamespaceKey()
	var nsPath string

	if _, err := os.Stat(path); err == nil {
		return ErrAlreadyExists
	}
	if nsKey != "" {
		nsPath = r.namespacePath(nsKey)
		if _, err := os.Stat(nsPath); err == nil {
			return ErrNamespaceTaken
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed creating shard directory: %w", err)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed serializing asset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed writing asset to fs: %w", err)
	}

	if nsPath != "" {
		if err := os.MkdirAll(filepath.Dir(nsPath), 0o755); err != nil {
			r.rollbackWrite(path, "")
			return fmt.Errorf("failed creating namespace directory: %w", err)
		}
		if err := os.WriteFile(nsPath, []byte(a.AssetId.String()), 0o644); err != nil {
			r.rollbackWrite(path, "")
			return fmt.Errorf("failed writing namespace claim: %w", err)
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if err := r.execHook(a.AssetId.String(), absPath, "register", ""); err != nil {
		r.logger.Printf("hook failed: %v", err)
		r.rollbackWrite(path, nsPath)
		return fmt.Errorf("hook script failed: %w", err)
	}

	return nil
}

func (r *Registry) rollbackWrite(path, nsPath string) {
	if path != "" {
		r.logger.Printf("reverting write, removing %s", path)
		os.Remove(path)
	}
	if nsPath != "" {
		os.Remove(nsPath)
	}
}

// Delete runs the delete transaction: verify the deletion signature,
// acquire the write mutex, require the record to exist, remove both
// files, and invoke the hook. Unlike Write, a hook failure here is
// surfaced but NOT rolled back - the filesystem deletion already
// happened and is treated as authoritative.
func (r *Registry) Delete(id assetid.AssetId, signature []byte) error {
	existing, err := r.Load(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := r.validator.VerifyDeletion(existing, signature); err != nil {
		return err
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	path := r.assetPath(id)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	nsKey := existing.Fields.NamespaceKey()
	var nsPath string
	if nsKey != "" {
		nsPath = r.namespacePath(nsKey)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed removing asset: %w", err)
	}
	if nsPath != "" {
		os.Remove(nsPath)
	}

	sigB64 := base64.StdEncoding.EncodeToString(signature)
	if err := r.execHook(id.String(), absPath, "delete", sigB64); err != nil {
		r.logger.Printf("hook failed: %v", err)
		return fmt.Errorf("hook script failed: %w", err)
	}
	return nil
}

func (r *Registry) execHook(assetIDHex, assetPath, updateType, authorizingSig string) error {
	if r.hookCmd == "" {
		return nil
	}
	r.logger.Printf("running hook: %s", r.hookCmd)

	cmd := exec.Command(r.hookCmd, assetIDHex, assetPath, updateType)
	cmd.Dir = r.directory
	cmd.Env = append(os.Environ(), "AUTHORIZING_SIG="+authorizingSig)

	out, err := cmd.CombinedOutput()
	r.logger.Printf("hook output: %s", out)
	if err != nil {
		return fmt.Errorf("hook script failed: %w", err)
	}
	return nil
}
