package store

import (
	"sync"

	"github.com/bearkit/bearkit/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu          sync.RWMutex
	blobs       map[string]int64               // size keyed by BlobID.Hex()
	provenance  map[string][]types.Provenance  // keyed by BlobID.Hex()
	diagnostics map[string]*types.Diagnostic   // keyed by Diagnostic.ID
	byBlob      map[string][]*types.Diagnostic // keyed by BlobID.Hex()
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		blobs:       make(map[string]int64),
		provenance:  make(map[string][]types.Provenance),
		diagnostics: make(map[string]*types.Diagnostic),
		byBlob:      make(map[string][]*types.Diagnostic),
	}
}

// AddBlob records a blob. Adding it again is a no-op.
func (m *MemoryStore) AddBlob(id types.BlobID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := id.Hex()
	if _, exists := m.blobs[key]; !exists {
		m.blobs[key] = size
	}
	return nil
}

// BlobExists checks if a blob has already been analyzed.
func (m *MemoryStore) BlobExists(id types.BlobID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.blobs[id.Hex()]
	return exists, nil
}

// AddProvenance associates provenance with a blob.
func (m *MemoryStore) AddProvenance(blobID types.BlobID, prov types.Provenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := blobID.Hex()
	for _, p := range m.provenance[key] {
		if p.Kind() == prov.Kind() && p.Path() == prov.Path() {
			return nil
		}
	}
	m.provenance[key] = append(m.provenance[key], prov)
	return nil
}

// GetProvenance returns every provenance recorded for a blob.
func (m *MemoryStore) GetProvenance(blobID types.BlobID) ([]types.Provenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provs := m.provenance[blobID.Hex()]
	result := make([]types.Provenance, len(provs))
	copy(result, provs)
	return result, nil
}

// AddDiagnostic stores a diagnostic (deduplicated).
func (m *MemoryStore) AddDiagnostic(d *types.Diagnostic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.diagnostics[d.ID]; exists {
		return nil
	}
	m.diagnostics[d.ID] = d
	key := d.BlobID.Hex()
	m.byBlob[key] = append(m.byBlob[key], d)
	return nil
}

// GetDiagnostics retrieves the diagnostics for a blob.
func (m *MemoryStore) GetDiagnostics(blobID types.BlobID) ([]*types.Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds := m.byBlob[blobID.Hex()]
	result := make([]*types.Diagnostic, len(ds))
	copy(result, ds)
	sortDiagnostics(result)
	return result, nil
}

// GetAllDiagnostics retrieves every diagnostic in report order.
func (m *MemoryStore) GetAllDiagnostics() ([]*types.Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Diagnostic, 0, len(m.diagnostics))
	for _, d := range m.diagnostics {
		result = append(result, d)
	}
	sortDiagnostics(result)
	return result, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
