// Package conflict decides which copy of an entity survives when both the
// client and the server changed it since the last sync.
package conflict

import "github.com/MKhiriev/go-time-sync/models"

// Decision tells which side a [Resolver] picked.
type Decision int

const (
	// KeepServer means the server copy replaces the local one.
	KeepServer Decision = iota
	// KeepLocal means the local edit is newer. It is stored as the settled
	// copy and is not pushed again.
	KeepLocal
)

func (d Decision) String() string {
	if d == KeepLocal {
		return "keep_local"
	}
	return "keep_server"
}

// Resolver merges a locally modified entity with the copy fetched from the
// server.
type Resolver[T models.Entity[T]] interface {
	Resolve(local, server T) (T, Decision)
}

// ResolverFunc adapts a plain function to [Resolver].
type ResolverFunc[T models.Entity[T]] func(local, server T) (T, Decision)

func (f ResolverFunc[T]) Resolve(local, server T) (T, Decision) {
	return f(local, server)
}

// LatestWins returns the default resolver: the copy with the later At wins
// and the server wins a tie. Whatever wins is returned InSync: a resolved
// conflict is settled and not queued for another push.
func LatestWins[T models.Entity[T]]() Resolver[T] {
	return ResolverFunc[T](func(local, server T) (T, Decision) {
		if local.Meta().At.After(server.Meta().At) {
			return local.WithMeta(local.Meta().MarkedInSync()), KeepLocal
		}
		return server.WithMeta(server.Meta().MarkedInSync()), KeepServer
	})
}
