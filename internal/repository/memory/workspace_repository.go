package memory

import (
	"time"

	"dossier-be/pkg/casefile/workspace"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps open workspaces in memory. Entries expire after
// ttl without access; the eviction hook closes them.
type WorkspaceRepository struct {
	cache *cache.Cache
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if ws, ok := v.(*workspace.Workspace); ok {
			ws.Close()
		}
	})
	return &WorkspaceRepository{cache: c}
}

func (r *WorkspaceRepository) Save(ws *workspace.Workspace) {
	r.cache.Set(ws.ID.String(), ws, cache.DefaultExpiration)
}

// Get returns the workspace and pushes its expiry back.
func (r *WorkspaceRepository) Get(id uuid.UUID) (*workspace.Workspace, bool) {
	x, found := r.cache.Get(id.String())
	if !found {
		return nil, false
	}
	ws := x.(*workspace.Workspace)
	r.cache.Set(id.String(), ws, cache.DefaultExpiration)
	return ws, true
}

// Exists reports whether the workspace is open without touching its expiry.
func (r *WorkspaceRepository) Exists(id uuid.UUID) bool {
	_, found := r.cache.Get(id.String())
	return found
}

func (r *WorkspaceRepository) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}

func (r *WorkspaceRepository) Count() int {
	return r.cache.ItemCount()
}

// Flush closes and drops every open workspace.
func (r *WorkspaceRepository) Flush() {
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}
